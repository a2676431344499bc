package postgres_test

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
)

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

// Canonical show times are 12-hour text; listing must still come back in
// chronological order, not the text order that puts "1:00 PM" before
// "9:30 AM".
func TestListUpcoming_ChronologicalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movieID, err := store.Movies().Create(ctx, &domain.Movie{
		Title:       "Order Fixture",
		Slug:        "order-fixture",
		DurationMin: 120,
		ReleaseDate: time.Now().UTC(),
		IsReleased:  true,
	})
	require.NoError(t, err)

	showDate := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)

	// Insert out of chronological order on purpose.
	for _, raw := range []string{"9:30", "10:30", "13:00", "00:15"} {
		canonical, err := domain.ParseShowTime(raw)
		require.NoError(t, err)

		_, err = store.Shows().Create(ctx, &domain.Show{
			MovieID:    movieID,
			ShowDate:   showDate,
			ShowTime:   canonical,
			PriceCents: 25000,
			TotalSeats: 100,
		})
		require.NoError(t, err)
	}

	list, err := store.Shows().ListUpcoming(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 4)

	got := make([]string, 0, len(list))
	for _, s := range list {
		got = append(got, s.ShowTime)
	}

	assert.Equal(t, []string{"12:15 AM", "9:30 AM", "10:30 AM", "1:00 PM"}, got)
}

func TestActiveShowOccupancy_ChronologicalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movieID, err := store.Movies().Create(ctx, &domain.Movie{
		Title:       "Occupancy Fixture",
		Slug:        "occupancy-fixture",
		DurationMin: 120,
		ReleaseDate: time.Now().UTC(),
		IsReleased:  true,
	})
	require.NoError(t, err)

	showDate := time.Now().UTC().AddDate(0, 0, 2).Truncate(24 * time.Hour)

	for _, canonical := range []string{"1:00 PM", "9:30 AM"} {
		_, err = store.Shows().Create(ctx, &domain.Show{
			MovieID:    movieID,
			ShowDate:   showDate,
			ShowTime:   canonical,
			PriceCents: 25000,
			TotalSeats: 100,
		})
		require.NoError(t, err)
	}

	occ, err := store.Stats().ActiveShowOccupancy(ctx, 10)
	require.NoError(t, err)
	require.Len(t, occ, 2)

	assert.Equal(t, "9:30 AM", occ[0].ShowTime)
	assert.Equal(t, "1:00 PM", occ[1].ShowTime)
}
