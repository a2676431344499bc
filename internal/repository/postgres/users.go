package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinebook/cinebook-go/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Upsert creates or refreshes a user keyed by its identity-provider ID.
// Webhook deliveries are at-least-once, so the write must be idempotent.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	const op = "postgres.UserRepo.Upsert"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO users(id, email, first_name, last_name, image)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET email = EXCLUDED.email,
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     image = EXCLUDED.image,
		     updated_at = now()`,
		u.ID, u.Email, u.FirstName, u.LastName, u.Image,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get retrieves a user by its identity-provider ID.
func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	const op = "postgres.UserRepo.Get"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, image, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Image, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}
