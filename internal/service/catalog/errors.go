package catalog

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrSyncDisabled  = errors.New("catalog sync is not configured")
)
