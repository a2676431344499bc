package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook-go/internal/domain"
)

type MovieRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *MovieRepo) With(db DB) *MovieRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *MovieRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Get retrieves a movie by ID.
//
// Returns:
//   - error: repository.ErrNotFound when the movie does not exist.
func (r *MovieRepo) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	const op = "postgres.MovieRepo.Get"

	db := r.handle()

	var m domain.Movie
	err := db.QueryRow(ctx,
		`SELECT id, COALESCE(tmdb_id, 0), title, slug, description,
		        duration_min, release_date, poster, rating, is_released,
		        created_at
		 FROM movies WHERE id = $1`,
		id,
	).Scan(
		&m.ID, &m.TMDBID, &m.Title, &m.Slug, &m.Description,
		&m.DurationMin, &m.ReleaseDate, &m.Poster, &m.Rating, &m.IsReleased,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &m, nil
}

// List lists all movies with catalog display fields.
func (r *MovieRepo) List(ctx context.Context) ([]domain.Movie, error) {
	const op = "postgres.MovieRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, COALESCE(tmdb_id, 0), title, slug, description,
		        duration_min, release_date, poster, rating, is_released,
		        created_at
		 FROM movies
		 ORDER BY title`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(
			&m.ID, &m.TMDBID, &m.Title, &m.Slug, &m.Description,
			&m.DurationMin, &m.ReleaseDate, &m.Poster, &m.Rating, &m.IsReleased,
			&m.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ExistsByTMDBID reports whether a movie ingested from the external
// catalog is already present.
func (r *MovieRepo) ExistsByTMDBID(ctx context.Context, tmdbID int64) (bool, error) {
	const op = "postgres.MovieRepo.ExistsByTMDBID"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM movies WHERE tmdb_id = $1)`,
		tmdbID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// Create inserts a movie. The unique index on slug turns a duplicate
// insert into repository.ErrConflict.
func (r *MovieRepo) Create(ctx context.Context, m *domain.Movie) (int64, error) {
	const op = "postgres.MovieRepo.Create"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO movies(
			tmdb_id, title, slug, description, duration_min,
			release_date, poster, rating, is_released)
		 VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		m.TMDBID, m.Title, m.Slug, m.Description, m.DurationMin,
		m.ReleaseDate, m.Poster, m.Rating, m.IsReleased,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}
