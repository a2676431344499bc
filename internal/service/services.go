package service

import (
	"github.com/cinebook/cinebook-go/internal/queue"
	postgres "github.com/cinebook/cinebook-go/internal/repository/postgres"
	redis "github.com/cinebook/cinebook-go/internal/repository/redis"
	"github.com/cinebook/cinebook-go/internal/service/admin"
	"github.com/cinebook/cinebook-go/internal/service/booking"
	"github.com/cinebook/cinebook-go/internal/service/catalog"
	"github.com/cinebook/cinebook-go/internal/service/shows"
	"github.com/cinebook/cinebook-go/internal/service/users"
	"github.com/cinebook/cinebook-go/internal/tmdb"
)

type Services struct {
	Booking *booking.Service
	Catalog *catalog.Service
	Shows   *shows.Service
	Users   *users.Service
	Admin   *admin.Service
}

type Config struct {
	Booking      booking.Config
	AdminUserIDs []string
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.ShowsPubSub,
	events *queue.Publisher,
	limiter *redis.SlidingWindowLimiter,
	tmdbClient *tmdb.Client,
	cfg Config,
) *Services {
	bookingSvc := booking.New(store, cache, pubsub, events, limiter, cfg.Booking)

	return &Services{
		Booking: bookingSvc,
		Catalog: catalog.New(store, cache, tmdbClient),
		Shows:   shows.New(store, cache),
		Users:   users.New(store),
		Admin:   admin.New(store, bookingSvc, cfg.AdminUserIDs),
	}
}
