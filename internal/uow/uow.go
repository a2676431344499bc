package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/cinebook/cinebook-go/internal/repository/postgres"
)

// AfterCommit is a side effect deferred until the transaction commits:
// cache invalidation, pubsub notification, queue publication. Hooks
// registered by an aborted transaction never run.
type AfterCommit func(ctx context.Context)

// UoW runs a booking mutation as one transaction. The reservation engine
// funnels every show/booking write through here so the seat arrays and
// the booking rows can never diverge.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction and fires the registered
// after-commit hooks once the commit succeeds.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
