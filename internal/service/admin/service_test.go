package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	s := New(nil, nil, []string{"user_admin1", "user_admin2"})

	assert.True(t, s.IsAdmin("user_admin1"))
	assert.True(t, s.IsAdmin("user_admin2"))
	assert.False(t, s.IsAdmin("user_plain"))
	assert.False(t, s.IsAdmin(""))
}

func TestIsAdmin_EmptyAllowList(t *testing.T) {
	s := New(nil, nil, nil)

	assert.False(t, s.IsAdmin("anyone"))
}
