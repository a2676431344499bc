package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/repository"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	redisrepo "github.com/cinebook/cinebook-go/internal/repository/redis"
	"github.com/cinebook/cinebook-go/internal/tmdb"
)

const movieListTTL = 60 * time.Second

// Service exposes the movie catalog: local reads plus ingestion from the
// external now-playing feed.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	tmdb  *tmdb.Client
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, client *tmdb.Client) *Service {
	return &Service{
		store: store,
		cache: cache,
		tmdb:  client,
	}
}

// ListMovies lists all catalog movies, cached briefly.
func (s *Service) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	const op = "service.catalog.ListMovies"

	movies, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyMovieList(),
		movieListTTL,
		func(ctx context.Context) ([]domain.Movie, error) {
			return s.store.Movies().List(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return movies, nil
}

// GetMovie retrieves one movie by ID.
//
// Returns:
//   - error: catalog.ErrMovieNotFound when the movie does not exist.
func (s *Service) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "service.catalog.GetMovie"

	m, err := s.store.Movies().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return m, nil
}

// SyncNowPlaying pulls the external now-playing feed and inserts movies
// not yet present. Slugs are derived deterministically from the title and
// the feed identifier before insert, so a re-run or a title collision can
// never trigger a duplicate-key retry loop.
//
// Returns the number of newly ingested movies.
func (s *Service) SyncNowPlaying(ctx context.Context) (int, error) {
	const op = "service.catalog.SyncNowPlaying"

	if s.tmdb == nil {
		return 0, fmt.Errorf("%s:%w", op, ErrSyncDisabled)
	}

	feed, err := s.tmdb.NowPlaying(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	created := 0
	for _, m := range feed {
		exists, err := s.store.Movies().ExistsByTMDBID(ctx, m.ID)
		if err != nil {
			return created, fmt.Errorf("%s:%w", op, err)
		}
		if exists {
			continue
		}

		movie := feedToMovie(m)
		if _, err := s.store.Movies().Create(ctx, movie); err != nil {
			// A concurrent sync run inserted the same movie first.
			if errors.Is(err, repository.ErrConflict) {
				continue
			}

			return created, fmt.Errorf("%s:%w", op, err)
		}

		created++
	}

	if created > 0 {
		_ = s.cache.Del(ctx, redisrepo.KeyMovieList())
	}

	return created, nil
}

// MovieSlug builds the unique catalog slug for an ingested title.
func MovieSlug(title string, tmdbID int64) string {
	return fmt.Sprintf("%s-%d", slug.Make(title), tmdbID)
}

func feedToMovie(m tmdb.NowPlayingMovie) *domain.Movie {
	description := m.Overview
	if description == "" {
		description = "No description available"
	}

	duration := m.Runtime
	if duration <= 0 {
		duration = 120
	}

	releaseDate, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		releaseDate = time.Now().UTC()
	}

	return &domain.Movie{
		TMDBID:      m.ID,
		Title:       m.Title,
		Slug:        MovieSlug(m.Title, m.ID),
		Description: description,
		DurationMin: duration,
		ReleaseDate: releaseDate,
		Poster:      tmdb.PosterURL(m.PosterPath),
		Rating:      m.VoteAverage,
		IsReleased:  !releaseDate.After(time.Now()),
	}
}
