package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeats(t *testing.T) {
	got, err := NormalizeSeats([]string{" a1 ", "b12", "AA100"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B12", "AA100"}, got)
}

func TestNormalizeSeats_Empty(t *testing.T) {
	_, err := NormalizeSeats(nil)
	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestNormalizeSeats_BadLabel(t *testing.T) {
	for _, in := range [][]string{
		{"1A"},
		{"A"},
		{"A1234"},
		{"AAA1"},
		{""},
		{"A-1"},
	} {
		_, err := NormalizeSeats(in)
		assert.ErrorIs(t, err, ErrBadSeatLabel, "input %v", in)
	}
}

// Duplicates are detected after canonicalization: "a1" and "A1" are the
// same seat.
func TestNormalizeSeats_Duplicate(t *testing.T) {
	_, err := NormalizeSeats([]string{"a1", "A1"})
	assert.ErrorIs(t, err, ErrDuplicateSeats)
}

func TestSeatIntersection(t *testing.T) {
	conflicts := SeatIntersection(
		[]string{"A1", "A2", "B5"},
		[]string{"B5", "C1", "A1"},
	)
	assert.Equal(t, []string{"A1", "B5"}, conflicts)
}

func TestSeatIntersection_NoOverlap(t *testing.T) {
	assert.Empty(t, SeatIntersection([]string{"A1"}, []string{"B1"}))
	assert.Empty(t, SeatIntersection(nil, []string{"B1"}))
	assert.Empty(t, SeatIntersection([]string{"A1"}, nil))
}

func TestTotalAmountCents(t *testing.T) {
	total, err := TotalAmountCents(25000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(75000), total)
}

func TestTotalAmountCents_Invalid(t *testing.T) {
	_, err := TotalAmountCents(-1, 2)
	assert.ErrorIs(t, err, ErrNegativeTotal)

	_, err = TotalAmountCents(25000, 0)
	assert.ErrorIs(t, err, ErrNegativeTotal)
}
