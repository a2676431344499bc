package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowPlaying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/now_playing", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": 1184918, "title": "The Wild Robot", "poster_path": "/wTnV3PCVW5O92JMrFvvrRcV39RU.jpg", "release_date": "2024-09-12", "vote_average": 8.3}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")

	movies, err := c.NowPlaying(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(1184918), movies[0].ID)
	assert.Equal(t, "The Wild Robot", movies[0].Title)
}

func TestNowPlaying_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token")

	_, err := c.NowPlaying(context.Background())
	require.Error(t, err)
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", PosterURL("/abc.jpg"))
	assert.Empty(t, PosterURL(""))
}
