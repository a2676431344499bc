// Package tmdb is a minimal client for the external movie catalog.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w500"

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NowPlayingMovie is one entry of the now-playing feed.
type NowPlayingMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Runtime     int     `json:"runtime"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"` // "2006-01-02"
	VoteAverage float64 `json:"vote_average"`
}

type nowPlayingResponse struct {
	Results []NowPlayingMovie `json:"results"`
}

// NowPlaying fetches the first page of the now-playing feed.
func (c *Client) NowPlaying(ctx context.Context) ([]NowPlayingMovie, error) {
	const op = "tmdb.Client.NowPlaying"

	url := c.baseURL + "/movie/now_playing?language=en-US&page=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var out nowPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out.Results, nil
}

// PosterURL resolves a TMDB poster path to a full image URL. Empty paths
// stay empty.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}

	return posterBaseURL + path
}
