package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/repository"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a new booking row.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	const op = "postgres.BookingRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO bookings(
			id, user_id, movie_id, show_id, seats,
			price_per_seat_cents, total_amount_cents,
			payment_status, booking_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.UserID, b.MovieID, b.ShowID, b.Seats,
		b.PricePerSeatCents, b.TotalAmountCents,
		b.PaymentStatus, b.BookingStatus,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get retrieves a booking by ID.
//
// Returns:
//   - error: repository.ErrNotFound when the booking does not exist.
func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	err := db.QueryRow(ctx,
		`SELECT id, user_id, movie_id, show_id, seats,
		        price_per_seat_cents, total_amount_cents,
		        payment_status, booking_status,
		        COALESCE(cancelled_by, ''), cancelled_at, created_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(
		&b.ID, &b.UserID, &b.MovieID, &b.ShowID, &b.Seats,
		&b.PricePerSeatCents, &b.TotalAmountCents,
		&b.PaymentStatus, &b.BookingStatus,
		&b.CancelledBy, &b.CancelledAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// MarkCancelled flips a booked booking to cancelled and records who
// cancelled it. Cancelled is terminal; the status guard makes a repeated
// cancel a conflict rather than a silent success.
//
// Returns:
//   - error: repository.ErrAlreadyCancelled when the booking was not in
//     the booked state.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID, cancelledBy string) error {
	const op = "postgres.BookingRepo.MarkCancelled"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE bookings
		 SET booking_status = 'cancelled',
		     payment_status = 'failed',
		     cancelled_by = $2,
		     cancelled_at = now()
		 WHERE id = $1 AND booking_status = 'booked'`,
		id, cancelledBy,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrAlreadyCancelled)
	}

	return nil
}

const bookingDetailColumns = `b.id, b.user_id, b.movie_id, b.show_id, b.seats,
	b.price_per_seat_cents, b.total_amount_cents,
	b.payment_status, b.booking_status,
	COALESCE(b.cancelled_by, ''), b.cancelled_at, b.created_at,
	m.id, m.title, m.poster, m.duration_min,
	s.show_date, s.show_time`

const bookingDetailJoins = `
	FROM bookings b
	JOIN shows s ON s.id = b.show_id
	JOIN movies m ON m.id = b.movie_id`

// GetWithDetails retrieves a booking together with its movie and show
// summary for display.
func (r *BookingRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.BookingWithDetails, error) {
	const op = "postgres.BookingRepo.GetWithDetails"

	db := r.handle()

	var d domain.BookingWithDetails
	err := db.QueryRow(ctx,
		`SELECT `+bookingDetailColumns+bookingDetailJoins+` WHERE b.id = $1`,
		id,
	).Scan(
		&d.ID, &d.UserID, &d.MovieID, &d.ShowID, &d.Seats,
		&d.PricePerSeatCents, &d.TotalAmountCents,
		&d.PaymentStatus, &d.BookingStatus,
		&d.CancelledBy, &d.CancelledAt, &d.CreatedAt,
		&d.Movie.ID, &d.Movie.Title, &d.Movie.Poster, &d.Movie.DurationMin,
		&d.ShowDate, &d.ShowTime,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &d, nil
}

// ListByUser lists a user's bookings newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	const op = "postgres.BookingRepo.ListByUser"

	return r.list(ctx, op,
		`SELECT `+bookingDetailColumns+bookingDetailJoins+`
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
}

// ListRecent lists the newest bookings across all users, for the admin
// dashboard.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]domain.BookingWithDetails, error) {
	const op = "postgres.BookingRepo.ListRecent"

	return r.list(ctx, op,
		`SELECT `+bookingDetailColumns+bookingDetailJoins+`
		 ORDER BY b.created_at DESC
		 LIMIT $1`,
		limit,
	)
}

// ListAll lists every booking newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]domain.BookingWithDetails, error) {
	const op = "postgres.BookingRepo.ListAll"

	return r.list(ctx, op,
		`SELECT `+bookingDetailColumns+bookingDetailJoins+`
		 ORDER BY b.created_at DESC`,
	)
}

func (r *BookingRepo) list(
	ctx context.Context,
	op string,
	sql string,
	args ...any,
) ([]domain.BookingWithDetails, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.BookingWithDetails
	for rows.Next() {
		var d domain.BookingWithDetails
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.MovieID, &d.ShowID, &d.Seats,
			&d.PricePerSeatCents, &d.TotalAmountCents,
			&d.PaymentStatus, &d.BookingStatus,
			&d.CancelledBy, &d.CancelledAt, &d.CreatedAt,
			&d.Movie.ID, &d.Movie.Title, &d.Movie.Poster, &d.Movie.DurationMin,
			&d.ShowDate, &d.ShowTime,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
