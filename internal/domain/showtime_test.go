package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShowTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"18:45", "6:45 PM"},
		{"9:30", "9:30 AM"},
		{"09:30", "9:30 AM"},
		{"00:15", "12:15 AM"},
		{"12:05", "12:05 PM"},
		{"23:59", "11:59 PM"},
		{"10:30 AM", "10:30 AM"},
		{"7:45 pm", "7:45 PM"},
		{"12:00 am", "12:00 AM"},
		{"  6:45 PM  ", "6:45 PM"},
	}

	for _, tc := range cases {
		got, err := ParseShowTime(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

// Two spellings of the same wall-clock time must land on the same slot key.
func TestParseShowTime_CanonicalSlotKey(t *testing.T) {
	a, err := ParseShowTime("18:45")
	require.NoError(t, err)

	b, err := ParseShowTime("6:45 pm")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestParseShowTime_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"24:00",
		"18:60",
		"13:45 PM",
		"0:30 AM",
		"6.45 PM",
		"tonight",
	} {
		_, err := ParseShowTime(in)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, ErrInvalidShowTime, "input %q", in)
	}
}
