package shows

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrShowNotFound  = errors.New("show not found")
	ErrSlotTaken     = errors.New("a show already exists for this movie, date and time")
	ErrInvalidInput  = errors.New("invalid show input")
)
