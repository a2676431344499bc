package booking_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-go/internal/domain"
	"github.com/cinebook/cinebook-go/internal/postgres"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	"github.com/cinebook/cinebook-go/internal/service/booking"
)

// newTestStore connects to the database named by TEST_DATABASE_URL,
// applies the schema and starts from empty tables. Tests are skipped
// when the variable is unset.
func newTestStore(t *testing.T) *postgresrepo.Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := postgres.New(ctx, postgres.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(schema), pgx.QueryExecModeSimpleProtocol)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE bookings, shows, movies, users CASCADE`)
	require.NoError(t, err)

	return postgresrepo.NewStore(pool)
}

func createTestMovie(t *testing.T, store *postgresrepo.Store, slug string) int64 {
	t.Helper()

	id, err := store.Movies().Create(context.Background(), &domain.Movie{
		Title:       "Integration Feature",
		Slug:        slug,
		Description: "test fixture",
		DurationMin: 120,
		ReleaseDate: time.Now().UTC(),
		IsReleased:  true,
	})
	require.NoError(t, err)

	return id
}

// Walks the engine through its core sequential scenario: book, conflict,
// insufficient availability, ownership, cancel, double cancel, rebook.
func TestCreateAndCancelBooking(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movieID := createTestMovie(t, store, "integration-feature-1")

	svc := booking.New(store, nil, nil, nil, nil, booking.Config{
		DefaultTotalSeats: 5,
		DefaultPriceCents: 25000,
		MaxTxAttempts:     3,
	})

	showDate := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)

	created, err := svc.CreateBooking(ctx, booking.CreateParams{
		UserID:   "user_alice",
		MovieID:  movieID,
		ShowDate: showDate,
		ShowTime: "18:45",
		Seats:    []string{"A1", "A2"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, created.Seats)
	assert.Equal(t, "6:45 PM", created.ShowTime)
	assert.Equal(t, int64(50000), created.TotalAmountCents)
	assert.Equal(t, domain.PaymentPaid, created.PaymentStatus)
	assert.Equal(t, domain.BookingBooked, created.BookingStatus)

	// The show was created on demand with the default capacity and the
	// two seats held.
	show, err := store.Shows().Get(ctx, created.ShowID)
	require.NoError(t, err)
	assert.Equal(t, 3, show.AvailableSeats)
	assert.ElementsMatch(t, []string{"A1", "A2"}, show.BookedSeats)

	// Overlapping request: rejected with the conflicting seats named,
	// and nothing written.
	_, err = svc.CreateBooking(ctx, booking.CreateParams{
		UserID:   "user_bob",
		MovieID:  movieID,
		ShowDate: showDate,
		ShowTime: "6:45 PM",
		Seats:    []string{"A2", "A3"},
	}, "")
	var conflict booking.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)

	show, err = store.Shows().Get(ctx, created.ShowID)
	require.NoError(t, err)
	assert.Equal(t, 3, show.AvailableSeats)
	assert.ElementsMatch(t, []string{"A1", "A2"}, show.BookedSeats)

	bobBookings, err := svc.ListUserBookings(ctx, "user_bob")
	require.NoError(t, err)
	assert.Empty(t, bobBookings)

	// Asking for more seats than remain: rejected with the remaining
	// count named.
	_, err = svc.CreateBooking(ctx, booking.CreateParams{
		UserID:   "user_bob",
		MovieID:  movieID,
		ShowDate: showDate,
		ShowTime: "6:45 PM",
		Seats:    []string{"A3", "A4", "B1", "B2"},
	}, "")
	var insufficient booking.InsufficientSeatsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Available)

	// Only the owner (or an admin) may cancel.
	err = svc.CancelBooking(ctx, created.ID, "user_bob", false)
	require.ErrorIs(t, err, booking.ErrNotOwner)

	// Cancel returns exactly the held seats to the show.
	err = svc.CancelBooking(ctx, created.ID, "user_alice", false)
	require.NoError(t, err)

	show, err = store.Shows().Get(ctx, created.ShowID)
	require.NoError(t, err)
	assert.Equal(t, 5, show.AvailableSeats)
	assert.Empty(t, show.BookedSeats)

	cancelled, err := store.Bookings().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.BookingStatus)
	assert.Equal(t, domain.PaymentFailed, cancelled.PaymentStatus)

	// Cancelled is terminal.
	err = svc.CancelBooking(ctx, created.ID, "user_alice", false)
	require.ErrorIs(t, err, booking.ErrAlreadyCancelled)

	// The freed seats are bookable again.
	rebooked, err := svc.CreateBooking(ctx, booking.CreateParams{
		UserID:   "user_bob",
		MovieID:  movieID,
		ShowDate: showDate,
		ShowTime: "6:45 PM",
		Seats:    []string{"A1", "A2"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, created.ShowID, rebooked.ShowID)
	assert.Equal(t, []string{"A1", "A2"}, rebooked.Seats)
}

// The admin override cancels on behalf of another user.
func TestCancelBooking_AdminOverride(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movieID := createTestMovie(t, store, "integration-feature-2")

	svc := booking.New(store, nil, nil, nil, nil, booking.Config{})

	showDate := time.Now().UTC().AddDate(0, 0, 3).Truncate(24 * time.Hour)

	created, err := svc.CreateBooking(ctx, booking.CreateParams{
		UserID:   "user_alice",
		MovieID:  movieID,
		ShowDate: showDate,
		ShowTime: "9:30",
		Seats:    []string{"C1"},
	}, "")
	require.NoError(t, err)

	err = svc.CancelBooking(ctx, created.ID, "user_admin", true)
	require.NoError(t, err)

	cancelled, err := store.Bookings().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.BookingStatus)
	assert.Equal(t, "user_admin", cancelled.CancelledBy)
}

func TestCreateBooking_UnknownMovie(t *testing.T) {
	store := newTestStore(t)

	svc := booking.New(store, nil, nil, nil, nil, booking.Config{})

	_, err := svc.CreateBooking(context.Background(), booking.CreateParams{
		UserID:   "user_alice",
		MovieID:  999999,
		ShowDate: time.Now().UTC().AddDate(0, 0, 1),
		ShowTime: "18:45",
		Seats:    []string{"A1"},
	}, "")
	require.ErrorIs(t, err, booking.ErrMovieNotFound)
}
