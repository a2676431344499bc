package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinebook/cinebook-go/internal/config"
	"github.com/cinebook/cinebook-go/internal/postgres"
	"github.com/cinebook/cinebook-go/internal/queue"
	"github.com/cinebook/cinebook-go/internal/redis"
	postgresrepo "github.com/cinebook/cinebook-go/internal/repository/postgres"
	redisrepo "github.com/cinebook/cinebook-go/internal/repository/redis"
	"github.com/cinebook/cinebook-go/internal/service"
	"github.com/cinebook/cinebook-go/internal/service/booking"
	"github.com/cinebook/cinebook-go/internal/tmdb"
	httpgin "github.com/cinebook/cinebook-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	events     *queue.Publisher
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewShowsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "rl:bookings", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	events := queue.NewPublisher(cfg.Rabbit.URL)
	tmdbClient := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.AccessToken)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, events, limiter, tmdbClient, service.Config{
		Booking: booking.Config{
			DefaultTotalSeats: cfg.Booking.DefaultTotalSeats,
			DefaultPriceCents: cfg.Booking.DefaultPriceCents,
			MaxTxAttempts:     cfg.Booking.MaxTxAttempts,
		},
		AdminUserIDs: cfg.Auth.AdminUserIDs,
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger, cfg.Auth.JWTSecret)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		events: events,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.events.Close(); err != nil {
			a.logger.Warn("failed to close queue publisher", "error", err)
		}
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
