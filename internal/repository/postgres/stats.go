package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook-go/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *StatsRepo) With(db DB) *StatsRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *StatsRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Counters returns the dashboard totals in one round trip. Revenue sums
// only non-cancelled bookings.
func (r *StatsRepo) Counters(ctx context.Context) (bookings, revenueCents, users, movies int64, err error) {
	const op = "postgres.StatsRepo.Counters"

	db := r.handle()

	err = db.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM bookings),
			(SELECT COALESCE(sum(total_amount_cents), 0) FROM bookings
			  WHERE booking_status <> 'cancelled'),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM movies)`,
	).Scan(&bookings, &revenueCents, &users, &movies)
	if err != nil {
		return 0, 0, 0, 0, wrapDBErr(op, err)
	}

	return bookings, revenueCents, users, movies, nil
}

// ActiveShowOccupancy lists upcoming active shows with their seat
// occupancy, ordered by date then time.
func (r *StatsRepo) ActiveShowOccupancy(ctx context.Context, limit int) ([]domain.ShowOccupancy, error) {
	const op = "postgres.StatsRepo.ActiveShowOccupancy"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, m.title, m.poster, s.show_date, s.show_time,
		        s.price_cents, cardinality(s.booked_seats), s.total_seats
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

	var out []domain.ShowOccupancy
	for rows.Next() {
		var o domain.ShowOccupancy
		if err := rows.Scan(
			&o.ShowID, &o.MovieTitle, &o.Poster, &o.ShowDate, &o.ShowTime,
			&o.PriceCents, &o.BookedSeats, &o.TotalSeats,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		if o.TotalSeats > 0 {
			o.OccupancyPercent = o.BookedSeats * 100 / o.TotalSeats
		}

		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
