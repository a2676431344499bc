package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntEnv(t *testing.T) {
	v, err := intEnv("CINEBOOK_TEST_UNSET", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	t.Setenv("CINEBOOK_TEST_INT", "7")
	v, err = intEnv("CINEBOOK_TEST_INT", 42)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	t.Setenv("CINEBOOK_TEST_INT", "not-a-number")
	_, err = intEnv("CINEBOOK_TEST_INT", 42)
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"user_1", "user_2"}, splitList(" user_1 , user_2 ,"))
}

func TestNew_AdminAllowList(t *testing.T) {
	t.Setenv("POSTGRES_USER", "postgres")
	t.Setenv("POSTGRES_PASSWORD", "postgres")
	t.Setenv("POSTGRES_DB", "cinebook")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_USER_IDS", "user_admin1,user_admin2")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, []string{"user_admin1", "user_admin2"}, cfg.Auth.AdminUserIDs)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}
