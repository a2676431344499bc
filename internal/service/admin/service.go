package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cinebook/cinebook-go/internal/domain"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	"github.com/cinebook/cinebook-go/internal/service/booking"
)

const (
	dashboardShowLimit   = 50
	dashboardRecentLimit = 10
)

// Service backs the administrative surface. The only capability check is
// membership in the configured allow-list of identity IDs; no identity is
// ever special-cased in code.
type Service struct {
	store    *postgresrepo.Store
	bookings *booking.Service
	adminIDs map[string]struct{}
}

func New(store *postgresrepo.Store, bookings *booking.Service, adminUserIDs []string) *Service {
	ids := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		ids[id] = struct{}{}
	}

	return &Service{
		store:    store,
		bookings: bookings,
		adminIDs: ids,
	}
}

// IsAdmin reports whether the identity holds the administrative
// capability.
func (s *Service) IsAdmin(userID string) bool {
	_, ok := s.adminIDs[userID]
	return ok
}

// DashboardStats aggregates the admin dashboard counters, active shows
// with occupancy, and the newest bookings.
func (s *Service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	const op = "service.admin.DashboardStats"

	bookings, revenue, users, movies, err := s.store.Stats().Counters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	active, err := s.store.Stats().ActiveShowOccupancy(ctx, dashboardShowLimit)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	recent, err := s.store.Bookings().ListRecent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.DashboardStats{
		TotalBookings:     bookings,
		TotalRevenueCents: revenue,
		TotalUsers:        users,
		TotalMovies:       movies,
		ActiveShows:       active,
		RecentBookings:    recent,
	}, nil
}

// ListAllBookings lists every booking newest first.
func (s *Service) ListAllBookings(ctx context.Context) ([]domain.BookingWithDetails, error) {
	const op = "service.admin.ListAllBookings"

	out, err := s.store.Bookings().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// CancelAnyBooking cancels a booking regardless of ownership. It is the
// reservation engine's cancel path with the admin override set; the seat
// release and status flip stay atomic.
func (s *Service) CancelAnyBooking(ctx context.Context, bookingID uuid.UUID, adminID string) error {
	return s.bookings.CancelBooking(ctx, bookingID, adminID, true)
}
