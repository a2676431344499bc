package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/repository"
)

type ShowRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ShowRepo) With(db DB) *ShowRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ShowRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const showColumns = `id, movie_id, show_date, show_time, price_cents,
	total_seats, available_seats, booked_seats, is_active, created_at`

// FindBySlot resolves a show by its (movie, date, canonical time) key.
//
// Returns:
//   - *domain.Show: the show when found.
//   - error: repository.ErrNotFound when no show exists for the slot.
func (r *ShowRepo) FindBySlot(
	ctx context.Context,
	movieID int64,
	showDate time.Time,
	showTime string,
) (*domain.Show, error) {
	const op = "postgres.ShowRepo.FindBySlot"

	db := r.handle()

	var s domain.Show
	err := db.QueryRow(ctx,
		`SELECT `+showColumns+`
		 FROM shows
		 WHERE movie_id = $1 AND show_date = $2 AND show_time = $3`,
		movieID, showDate, showTime,
	).Scan(
		&s.ID, &s.MovieID, &s.ShowDate, &s.ShowTime, &s.PriceCents,
		&s.TotalSeats, &s.AvailableSeats, &s.BookedSeats, &s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

// Get retrieves a show by ID.
func (r *ShowRepo) Get(ctx context.Context, id int64) (*domain.Show, error) {
	const op = "postgres.ShowRepo.Get"

	db := r.handle()

	var s domain.Show
	err := db.QueryRow(ctx,
		`SELECT `+showColumns+` FROM shows WHERE id = $1`,
		id,
	).Scan(
		&s.ID, &s.MovieID, &s.ShowDate, &s.ShowTime, &s.PriceCents,
		&s.TotalSeats, &s.AvailableSeats, &s.BookedSeats, &s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}

// Create inserts a show with all seats free. The unique index on
// (movie_id, show_date, show_time) is the backstop for two concurrent
// first-time bookers of the same slot: the loser gets
// repository.ErrConflict and is expected to retry and find the winner's
// row.
func (r *ShowRepo) Create(ctx context.Context, s *domain.Show) (int64, error) {
	const op = "postgres.ShowRepo.Create"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO shows(
			movie_id, show_date, show_time, price_cents,
			total_seats, available_seats, booked_seats, is_active)
		 VALUES ($1, $2, $3, $4, $5, $5, '{}', true)
		 RETURNING id`,
		s.MovieID, s.ShowDate, s.ShowTime, s.PriceCents, s.TotalSeats,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// AllocateSeats appends seats to booked_seats and decrements
// available_seats in one conditional update. The WHERE clause re-asserts
// inside the transaction that none of the requested seats is taken and
// that enough seats remain; zero rows affected means the snapshot the
// caller validated against is stale.
//
// Returns:
//   - error: repository.ErrSeatsUnavailable when the guard fails.
func (r *ShowRepo) AllocateSeats(ctx context.Context, showID int64, seats []string) error {
	const op = "postgres.ShowRepo.AllocateSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE shows
		 SET booked_seats = booked_seats || $2,
		     available_seats = available_seats - cardinality($2)
		 WHERE id = $1
		   AND NOT (booked_seats && $2)
		   AND available_seats >= cardinality($2)`,
		showID, seats,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s:%w", op, repository.ErrSeatsUnavailable)
	}

	return nil
}

// ReleaseSeats removes exactly the given seats from booked_seats and
// increments available_seats by their count. The containment guard keeps
// the release idempotence-safe: a booking whose seats are no longer all
// present cannot be double-released.
func (r *ShowRepo) ReleaseSeats(ctx context.Context, showID int64, seats []string) error {
	const op = "postgres.ShowRepo.ReleaseSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE shows
		 SET booked_seats = array(
		         SELECT s FROM unnest(booked_seats) AS s WHERE s <> ALL($2)
		     ),
		     available_seats = available_seats + cardinality($2)
		 WHERE id = $1
		   AND booked_seats @> $2`,
		showID, seats,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	return nil
}

// Counts returns the availability counters for a show.
func (r *ShowRepo) Counts(ctx context.Context, showID int64) (*domain.ShowCounts, error) {
	const op = "postgres.ShowRepo.Counts"

	db := r.handle()

	var c domain.ShowCounts
	err := db.QueryRow(ctx,
		`SELECT total_seats, cardinality(booked_seats), available_seats
		 FROM shows WHERE id = $1`,
		showID,
	).Scan(&c.Total, &c.Booked, &c.Available)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

// ListUpcoming lists active shows from today onward with their movie
// summary, ordered by date then time. show_time is canonical 12-hour
// text, so ordering parses it back to a timestamp; sorting the raw text
// would put "1:00 PM" before "9:30 AM".
func (r *ShowRepo) ListUpcoming(ctx context.Context, limit int) ([]domain.ShowWithMovie, error) {
	const op = "postgres.ShowRepo.ListUpcoming"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.movie_id, s.show_date, s.show_time, s.price_cents,
		        s.total_seats, s.available_seats, s.booked_seats, s.is_active,
		        s.created_at,
		        m.id, m.title, m.poster, m.duration_min
		 FROM shows s
		 JOIN movies m ON m.id = s.movie_id
		 WHERE s.is_active AND s.show_date >= current_date
		 ORDER BY s.show_date, to_timestamp(s.show_time, 'HH12:MI AM')
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.ShowWithMovie
	for rows.Next() {
		var sw domain.ShowWithMovie
		if err := rows.Scan(
			&sw.ID, &sw.MovieID, &sw.ShowDate, &sw.ShowTime, &sw.PriceCents,
			&sw.TotalSeats, &sw.AvailableSeats, &sw.BookedSeats, &sw.IsActive,
			&sw.CreatedAt,
			&sw.Movie.ID, &sw.Movie.Title, &sw.Movie.Poster, &sw.Movie.DurationMin,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListAll lists every show regardless of activity, for the admin surface.
func (r *ShowRepo) ListAll(ctx context.Context) ([]domain.ShowWithMovie, error) {
	const op = "postgres.ShowRepo.ListAll"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.movie_id, s.show_date, s.show_time, s.price_cents,
		        s.total_seats, s.available_seats, s.booked_seats, s.is_active,
		        s.created_at,
		        m.id, m.title, m.poster, m.duration_min
		 FROM shows s
		 JOIN movies m ON m.id = s.movie_id
		 ORDER BY s.show_date, to_timestamp(s.show_time, 'HH12:MI AM')`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.ShowWithMovie
	for rows.Next() {
		var sw domain.ShowWithMovie
		if err := rows.Scan(
			&sw.ID, &sw.MovieID, &sw.ShowDate, &sw.ShowTime, &sw.PriceCents,
			&sw.TotalSeats, &sw.AvailableSeats, &sw.BookedSeats, &sw.IsActive,
			&sw.CreatedAt,
			&sw.Movie.ID, &sw.Movie.Title, &sw.Movie.Poster, &sw.Movie.DurationMin,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Deactivate soft-disables a show. The reservation engine never hard
// deletes shows.
func (r *ShowRepo) Deactivate(ctx context.Context, id int64) error {
	const op = "postgres.ShowRepo.Deactivate"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE shows SET is_active = false WHERE id = $1`,
		id,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
