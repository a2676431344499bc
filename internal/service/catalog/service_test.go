package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-go/internal/tmdb"
)

func TestMovieSlug(t *testing.T) {
	assert.Equal(t, "dune-part-two-693134", MovieSlug("Dune: Part Two", 693134))
	assert.Equal(t, "amelie-194", MovieSlug("Amélie", 194))

	// Same title, different catalog id: never collides.
	assert.NotEqual(t, MovieSlug("Nosferatu", 426063), MovieSlug("Nosferatu", 653))
}

// The slug is fixed before insert, so re-running the sync against the same
// feed always produces the same key.
func TestMovieSlug_Deterministic(t *testing.T) {
	a := MovieSlug("The Wild Robot", 1184918)
	b := MovieSlug("The Wild Robot", 1184918)
	assert.Equal(t, a, b)
}

func TestFeedToMovie_Defaults(t *testing.T) {
	m := feedToMovie(tmdb.NowPlayingMovie{
		ID:          42,
		Title:       "Untitled Screener",
		ReleaseDate: "not-a-date",
	})

	assert.Equal(t, "No description available", m.Description)
	assert.Equal(t, 120, m.DurationMin)
	assert.Equal(t, MovieSlug("Untitled Screener", 42), m.Slug)
	require.False(t, m.ReleaseDate.IsZero())
}

func TestFeedToMovie_Poster(t *testing.T) {
	m := feedToMovie(tmdb.NowPlayingMovie{
		ID:         7,
		Title:      "Heat",
		PosterPath: "/abc.jpg",
	})

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", m.Poster)
}
