package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/repository"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	redisrepo "github.com/cinebook/cinebook-go/internal/repository/redis"
)

const (
	showListTTL     = 15 * time.Second
	defaultListSize = 200
)

// Service covers the administrative show lifecycle: explicit creation,
// listing, and soft deactivation. Seat allocation never goes through
// here; only the reservation engine mutates occupancy.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
	}
}

type CreateParams struct {
	MovieID    int64
	ShowDate   time.Time
	ShowTime   string
	PriceCents int64
	TotalSeats int
}

// CreateShow explicitly schedules a screening. The slot key is unique;
// scheduling the same (movie, date, time) twice is a conflict.
//
// Returns:
//   - error: shows.ErrMovieNotFound, shows.ErrInvalidInput,
//     shows.ErrSlotTaken.
func (s *Service) CreateShow(ctx context.Context, p CreateParams) (*domain.Show, error) {
	const op = "service.shows.CreateShow"

	showTime, err := domain.ParseShowTime(p.ShowTime)
	if err != nil {
		return nil, fmt.Errorf("%s:%w: %w", op, ErrInvalidInput, err)
	}

	if p.ShowDate.IsZero() || p.PriceCents < 0 || p.TotalSeats < 1 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	if _, err := s.store.Movies().Get(ctx, p.MovieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	show := &domain.Show{
		MovieID:    p.MovieID,
		ShowDate:   p.ShowDate,
		ShowTime:   showTime,
		PriceCents: p.PriceCents,
		TotalSeats: p.TotalSeats,
	}

	id, err := s.store.Shows().Create(ctx, show)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrSlotTaken)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	show.ID = id
	show.AvailableSeats = show.TotalSeats
	show.IsActive = true

	_ = s.cache.Del(ctx, redisrepo.KeyShowList())

	return show, nil
}

// ListUpcoming lists active upcoming shows with their movie summary,
// cached briefly.
func (s *Service) ListUpcoming(ctx context.Context) ([]domain.ShowWithMovie, error) {
	const op = "service.shows.ListUpcoming"

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyShowList(),
		showListTTL,
		func(ctx context.Context) ([]domain.ShowWithMovie, error) {
			return s.store.Shows().ListUpcoming(ctx, defaultListSize)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListAll lists every show for the admin surface, bypassing the cache.
func (s *Service) ListAll(ctx context.Context) ([]domain.ShowWithMovie, error) {
	const op = "service.shows.ListAll"

	out, err := s.store.Shows().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Deactivate soft-disables a show.
//
// Returns:
//   - error: shows.ErrShowNotFound when the show does not exist.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	const op = "service.shows.Deactivate"

	if err := s.store.Shows().Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrShowNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	_ = s.cache.Del(ctx, redisrepo.KeyShowList())

	return nil
}
