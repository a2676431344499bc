package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/queue"
	"github.com/cinebook/cinebook-go/internal/repository"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	redisrepo "github.com/cinebook/cinebook-go/internal/repository/redis"
	"github.com/cinebook/cinebook-go/internal/uow"
)

type Config struct {
	DefaultTotalSeats int
	DefaultPriceCents int64
	MaxTxAttempts     int
}

// Service is the seat reservation engine. All mutual exclusion between
// concurrent requests is pushed to the store: every mutation runs in a
// serializable transaction through the unit of work, and write conflicts
// on the same show abort one side rather than lose an update.
type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.ShowsPubSub
	events  *queue.Publisher
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.ShowsPubSub,
	events *queue.Publisher,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.DefaultTotalSeats <= 0 {
		cfg.DefaultTotalSeats = 100
	}

	if cfg.DefaultPriceCents <= 0 {
		cfg.DefaultPriceCents = 25000
	}

	if cfg.MaxTxAttempts <= 0 {
		cfg.MaxTxAttempts = 3
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		events:  events,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// CreateParams are the inputs to a booking request. PriceCentsOverride
// zero means "use the show's price".
type CreateParams struct {
	UserID             string
	MovieID            int64
	ShowDate           time.Time
	ShowTime           string
	Seats              []string
	PriceCentsOverride int64
}

// CreateBooking atomically reserves seats on the show identified by
// (movie, date, time), creating the show on demand with the default
// capacity. Either the show mutation and the booking row both commit, or
// neither is visible.
//
// Returns:
//   - *domain.BookingWithDetails: the created booking with display fields.
//   - error: booking.ErrMovieNotFound, booking.ErrInvalidInput,
//     booking.SeatConflictError, booking.InsufficientSeatsError, or
//     booking.ErrTxRetryExhausted when write conflicts persist.
func (s *Service) CreateBooking(
	ctx context.Context,
	p CreateParams,
	rlKey string,
) (*domain.BookingWithDetails, error) {
	const op = "service.booking.CreateBooking"

	seats, err := domain.NormalizeSeats(p.Seats)
	if err != nil {
		return nil, fmt.Errorf("%s:%w: %w", op, ErrInvalidInput, err)
	}

	showTime, err := domain.ParseShowTime(p.ShowTime)
	if err != nil {
		return nil, fmt.Errorf("%s:%w: %w", op, ErrInvalidInput, err)
	}

	if p.ShowDate.IsZero() {
		return nil, fmt.Errorf("%s:%w: missing show date", op, ErrInvalidInput)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	if _, err := s.store.Movies().Get(ctx, p.MovieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrMovieNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var result *domain.BookingWithDetails

	for attempt := 1; attempt <= s.cfg.MaxTxAttempts; attempt++ {
		err = s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			details, err := s.reserve(ctx, tx, p, seats, showTime)
			if err != nil {
				return err
			}

			result = details

			after(func(ctx context.Context) {
				if s.cache != nil {
					_ = s.cache.InvalidateShow(ctx, details.ShowID)
				}
				if s.pubsub != nil {
					_ = s.pubsub.PublishShowChanged(ctx, details.ShowID)
				}
				if s.events == nil {
					return
				}
				_ = s.events.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
					BookingID:        details.ID.String(),
					UserID:           details.UserID,
					MovieID:          details.MovieID,
					MovieTitle:       details.Movie.Title,
					ShowID:           details.ShowID,
					ShowDate:         details.ShowDate.Format("2006-01-02"),
					ShowTime:         details.ShowTime,
					Seats:            details.Seats,
					TotalAmountCents: details.TotalAmountCents,
					ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
				})
			})

			return nil
		})
		if err == nil {
			return result, nil
		}

		// The duplicate-show-slot race surfaces as a unique violation and a
		// stale-snapshot write as a serialization failure; both are safe to
		// retry because nothing committed.
		if errors.Is(err, repository.ErrConflict) || postgresrepo.IsRetryable(err) {
			continue
		}

		return nil, s.mapCreateErr(op, err, seats)
	}

	return nil, fmt.Errorf("%s:%w: %w", op, ErrTxRetryExhausted, err)
}

// reserve is the in-transaction body of CreateBooking.
func (s *Service) reserve(
	ctx context.Context,
	tx postgresrepo.DB,
	p CreateParams,
	seats []string,
	showTime string,
) (*domain.BookingWithDetails, error) {
	shows := s.store.Shows().With(tx)

	show, err := shows.FindBySlot(ctx, p.MovieID, p.ShowDate, showTime)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		price := p.PriceCentsOverride
		if price <= 0 {
			price = s.cfg.DefaultPriceCents
		}

		created := &domain.Show{
			MovieID:    p.MovieID,
			ShowDate:   p.ShowDate,
			ShowTime:   showTime,
			PriceCents: price,
			TotalSeats: s.cfg.DefaultTotalSeats,
		}

		id, err := shows.Create(ctx, created)
		if err != nil {
			return nil, err
		}

		created.ID = id
		created.AvailableSeats = created.TotalSeats
		show = created
	}

	if conflicts := domain.SeatIntersection(seats, show.BookedSeats); len(conflicts) > 0 {
		return nil, SeatConflictError{Seats: conflicts}
	}

	if len(seats) > show.AvailableSeats {
		return nil, InsufficientSeatsError{
			Requested: len(seats),
			Available: show.AvailableSeats,
		}
	}

	if err := shows.AllocateSeats(ctx, show.ID, seats); err != nil {
		return nil, err
	}

	price := p.PriceCentsOverride
	if price <= 0 {
		price = show.PriceCents
	}

	total, err := domain.TotalAmountCents(price, len(seats))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	b := &domain.Booking{
		ID:                uuid.New(),
		UserID:            p.UserID,
		MovieID:           p.MovieID,
		ShowID:            show.ID,
		Seats:             seats,
		PricePerSeatCents: price,
		TotalAmountCents:  total,
		// No payment-capture step exists; bookings are recorded as paid.
		PaymentStatus: domain.PaymentPaid,
		BookingStatus: domain.BookingBooked,
	}

	bookings := s.store.Bookings().With(tx)

	if err := bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	return bookings.GetWithDetails(ctx, b.ID)
}

func (s *Service) mapCreateErr(op string, err error, seats []string) error {
	var conflict SeatConflictError
	if errors.As(err, &conflict) {
		return conflict
	}

	var insufficient InsufficientSeatsError
	if errors.As(err, &insufficient) {
		return insufficient
	}

	// The allocation guard failed even though the snapshot looked free:
	// report the whole request as conflicting.
	if errors.Is(err, repository.ErrSeatsUnavailable) {
		return SeatConflictError{Seats: seats}
	}

	if errors.Is(err, ErrInvalidInput) {
		return err
	}

	return fmt.Errorf("%s:%w", op, err)
}

// CancelBooking atomically returns a booking's seats to its show and flips
// the booking to cancelled. Only the owner may cancel, unless asAdmin is
// set by the administrative capability check. Cancelled is terminal: a
// repeated cancel is a conflict, not a silent success.
//
// Returns:
//   - error: booking.ErrBookingNotFound, booking.ErrNotOwner,
//     booking.ErrAlreadyCancelled, or booking.ErrTxRetryExhausted.
func (s *Service) CancelBooking(
	ctx context.Context,
	bookingID uuid.UUID,
	userID string,
	asAdmin bool,
) error {
	const op = "service.booking.CancelBooking"

	var err error

	for attempt := 1; attempt <= s.cfg.MaxTxAttempts; attempt++ {
		err = s.uow.Do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			b, err := s.store.Bookings().With(tx).Get(ctx, bookingID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrBookingNotFound
				}

				return err
			}

			if !asAdmin && b.UserID != userID {
				return ErrNotOwner
			}

			if b.BookingStatus == domain.BookingCancelled {
				return ErrAlreadyCancelled
			}

			if err := s.store.Shows().With(tx).ReleaseSeats(ctx, b.ShowID, b.Seats); err != nil {
				return err
			}

			if err := s.store.Bookings().With(tx).MarkCancelled(ctx, bookingID, userID); err != nil {
				if errors.Is(err, repository.ErrAlreadyCancelled) {
					return ErrAlreadyCancelled
				}

				return err
			}

			after(func(ctx context.Context) {
				if s.cache != nil {
					_ = s.cache.InvalidateShow(ctx, b.ShowID)
				}
				if s.pubsub != nil {
					_ = s.pubsub.PublishShowChanged(ctx, b.ShowID)
				}
				if s.events == nil {
					return
				}
				_ = s.events.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
					BookingID:   b.ID.String(),
					UserID:      b.UserID,
					ShowID:      b.ShowID,
					Seats:       b.Seats,
					CancelledBy: userID,
					CancelledAt: time.Now().UTC().Format(time.RFC3339),
				})
			})

			return nil
		})
		if err == nil {
			return nil
		}

		if postgresrepo.IsRetryable(err) {
			continue
		}

		switch {
		case errors.Is(err, ErrBookingNotFound),
			errors.Is(err, ErrNotOwner),
			errors.Is(err, ErrAlreadyCancelled):
			return err
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return fmt.Errorf("%s:%w: %w", op, ErrTxRetryExhausted, err)
}

// ListUserBookings lists a user's bookings newest first.
func (s *Service) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	const op = "service.booking.ListUserBookings"

	out, err := s.store.Bookings().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ShowAvailability returns the availability counters for one show.
func (s *Service) ShowAvailability(ctx context.Context, showID int64) (*domain.ShowCounts, error) {
	const op = "service.booking.ShowAvailability"

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyShowAvailability(showID),
		15*time.Second,
		func(ctx context.Context) (domain.ShowCounts, error) {
			c, err := s.store.Shows().Counts(ctx, showID)
			if err != nil {
				return domain.ShowCounts{}, err
			}

			return *c, nil
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrShowNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &counts, nil
}
