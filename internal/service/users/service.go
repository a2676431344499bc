package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/repository"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
)

var (
	ErrMissingID    = errors.New("missing identity id")
	ErrUserNotFound = errors.New("user not found")
)

// Service provisions local user rows from identity-provider webhook
// events. The provider is the source of truth; this service only mirrors
// it.
type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// UpsertFromIdentity records or refreshes a user from a user.created or
// user.updated event. Deliveries are at-least-once, so the operation is
// idempotent.
func (s *Service) UpsertFromIdentity(ctx context.Context, u domain.User) error {
	const op = "service.users.UpsertFromIdentity"

	if u.ID == "" {
		return fmt.Errorf("%s:%w", op, ErrMissingID)
	}

	if err := s.store.Users().Upsert(ctx, &u); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Get retrieves a provisioned user.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	const op = "service.users.Get"

	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}
