package booking

import (
	"errors"
	"fmt"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrShowNotFound     = errors.New("show not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidInput     = errors.New("invalid booking input")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrTxRetryExhausted = errors.New("transaction retries exhausted")
	ErrRateLimited      = errors.New("rate limited")
)

// SeatConflictError names the requested seats already taken on the show.
type SeatConflictError struct {
	Seats []string
}

func (e SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %v", e.Seats)
}

// InsufficientSeatsError reports how many seats remain when a request
// asks for more.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats: requested %d, %d available", e.Requested, e.Available)
}
