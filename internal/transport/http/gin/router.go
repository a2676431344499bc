package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cinebook/cinebook-go/internal/domain"
	redisrepo "github.com/cinebook/cinebook-go/internal/repository/redis"
	"github.com/cinebook/cinebook-go/internal/service"
	"github.com/cinebook/cinebook-go/internal/service/booking"
	"github.com/cinebook/cinebook-go/internal/service/catalog"
	"github.com/cinebook/cinebook-go/internal/service/shows"
	"github.com/cinebook/cinebook-go/internal/service/users"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	jwtSecret string,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	r.GET("/movies", handleListMovies(svcs))
	r.GET("/movies/:id", handleGetMovie(svcs))
	r.GET("/shows", handleListShows(svcs))
	r.GET("/shows/:id/availability", handleShowAvailability(svcs))

	// Identity-provider webhook
	r.POST("/webhooks/identity", handleIdentityWebhook(svcs))

	// Authenticated API
	auth := r.Group("/", AuthRequired(jwtSecret))
	{
		auth.POST("/bookings", handleCreateBooking(svcs, idem))
		auth.GET("/bookings", handleListMyBookings(svcs))
		auth.POST("/bookings/:id/cancel", handleCancelBooking(svcs))
	}

	// Admin API
	admin := r.Group("/admin", AuthRequired(jwtSecret), AdminRequired(svcs.Admin.IsAdmin))
	{
		admin.GET("/dashboard", handleDashboard(svcs))
		admin.GET("/bookings", handleListAllBookings(svcs))
		admin.POST("/bookings/:id/cancel", handleCancelAnyBooking(svcs))
		admin.POST("/shows", handleCreateShow(svcs))
		admin.GET("/shows", handleListAllShows(svcs))
		admin.POST("/shows/:id/deactivate", handleDeactivateShow(svcs))
		admin.POST("/sync/now-playing", handleSyncNowPlaying(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List movies
// @Success  200  {array}  MovieResponse
// @Router   /movies [get]
func handleListMovies(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movies, err := svcs.Catalog.ListMovies(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]MovieResponse, 0, len(movies))
		for _, m := range movies {
			out = append(out, toMovieResponse(m))
		}

		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  Get movie
// @Param    id  path  int  true  "Movie ID"
// @Success  200  {object}  MovieResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /movies/{id} [get]
func handleGetMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		movieID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		m, err := svcs.Catalog.GetMovie(c.Request.Context(), movieID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, toMovieResponse(*m), "public, max-age=60", true)
	}
}

// @Summary  List upcoming shows
// @Success  200  {array}  ShowResponse
// @Router   /shows [get]
func handleListShows(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Shows.ListUpcoming(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, toShowResponses(list), "public, max-age=15", true)
	}
}

// @Summary  Show availability counters
// @Param    id  path  int  true  "Show ID"
// @Success  200  {object}  domain.ShowCounts
// @Failure  404  {object}  ErrorResponse
// @Router   /shows/{id}/availability [get]
func handleShowAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		counts, err := svcs.Booking.ShowAvailability(c.Request.Context(), showID)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, counts, "public, max-age=15", true)
	}
}

// @Summary  Create booking (idempotent)
// @Param    req body  CreateBookingRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} BookingResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "movie not found"
// @Failure  409 {object} ConflictResponse "seat conflict / not enough seats"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)

		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		showDate, err := parseDate(req.ShowDate)
		if err != nil {
			badRequest(c, "invalid show_date (expected YYYY-MM-DD)")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(userID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		created, err := svcs.Booking.CreateBooking(
			c.Request.Context(),
			booking.CreateParams{
				UserID:             userID,
				MovieID:            req.MovieID,
				ShowDate:           showDate,
				ShowTime:           req.ShowTime,
				Seats:              req.Seats,
				PriceCentsOverride: req.PricePerSeatCents,
			},
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
			respondErr(c, err)
			return
		}

		resp := toBookingResponse(*created)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List my bookings (newest first)
// @Success  200  {array}  BookingResponse
// @Router   /bookings [get]
func handleListMyBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Booking.ListUserBookings(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, toBookingResponses(list))
	}
}

// @Summary  Cancel my booking
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200  {object}  map[string]string
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "already cancelled"
// @Router   /bookings/{id}/cancel [post]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid booking id")
			return
		}

		err = svcs.Booking.CancelBooking(
			c.Request.Context(),
			bookingID,
			c.GetString(ctxUserID),
			false,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}

// @Summary  Identity webhook (user.created / user.updated)
// @Param    req body IdentityWebhookRequest true "event"
// @Success  200 {object} map[string]string
// @Router   /webhooks/identity [post]
func handleIdentityWebhook(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IdentityWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		switch req.Type {
		case "user.created", "user.updated":
		default:
			// Unknown event types are acknowledged, not failed, so the
			// provider does not retry them forever.
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}

		email := ""
		if len(req.Data.EmailAddresses) > 0 {
			email = req.Data.EmailAddresses[0].EmailAddress
		}

		err := svcs.Users.UpsertFromIdentity(c.Request.Context(), domain.User{
			ID:        req.Data.ID,
			Email:     email,
			FirstName: req.Data.FirstName,
			LastName:  req.Data.LastName,
			Image:     req.Data.ImageURL,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "synced"})
	}
}

// @Summary  Admin dashboard stats
// @Success  200  {object}  domain.DashboardStats
// @Router   /admin/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svcs.Admin.DashboardStats(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// @Summary  List all bookings
// @Success  200  {array}  BookingResponse
// @Router   /admin/bookings [get]
func handleListAllBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.ListAllBookings(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, toBookingResponses(list))
	}
}

// @Summary  Cancel any booking (admin override)
// @Param    id  path  string  true  "Booking ID (uuid)"
// @Success  200  {object}  map[string]string
// @Router   /admin/bookings/{id}/cancel [post]
func handleCancelAnyBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid booking id")
			return
		}

		err = svcs.Admin.CancelAnyBooking(c.Request.Context(), bookingID, c.GetString(ctxUserID))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}

// @Summary  Create show
// @Param    req body  CreateShowRequest true "payload"
// @Success  201 {object} ShowResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "slot taken"
// @Router   /admin/shows [post]
func handleCreateShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateShowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		showDate, err := parseDate(req.ShowDate)
		if err != nil {
			badRequest(c, "invalid show_date (expected YYYY-MM-DD)")
			return
		}

		show, err := svcs.Shows.CreateShow(c.Request.Context(), shows.CreateParams{
			MovieID:    req.MovieID,
			ShowDate:   showDate,
			ShowTime:   req.ShowTime,
			PriceCents: req.PriceCents,
			TotalSeats: req.TotalSeats,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":              show.ID,
			"show_date":       show.ShowDate.Format("2006-01-02"),
			"show_time":       show.ShowTime,
			"price_cents":     show.PriceCents,
			"total_seats":     show.TotalSeats,
			"available_seats": show.AvailableSeats,
		})
	}
}

// @Summary  List all shows
// @Success  200  {array}  ShowResponse
// @Router   /admin/shows [get]
func handleListAllShows(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Shows.ListAll(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, toShowResponses(list))
	}
}

// @Summary  Deactivate show
// @Param    id  path  int  true  "Show ID"
// @Success  200  {object}  map[string]string
// @Router   /admin/shows/{id}/deactivate [post]
func handleDeactivateShow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		showID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		if err := svcs.Shows.Deactivate(c.Request.Context(), showID); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
	}
}

// @Summary  Sync now-playing movies from the external catalog
// @Success  200 {object} SyncResponse
// @Router   /admin/sync/now-playing [post]
func handleSyncNowPlaying(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		created, err := svcs.Catalog.SyncNowPlaying(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, SyncResponse{Created: created})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var seatConflict booking.SeatConflictError
	if errors.As(err, &seatConflict) {
		c.JSON(http.StatusConflict, ConflictResponse{
			Error:         "seats already booked",
			ConflictSeats: seatConflict.Seats,
		})
		return
	}

	var insufficient booking.InsufficientSeatsError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, ConflictResponse{
			Error:          "not enough seats available",
			AvailableSeats: &insufficient.Available,
		})
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking input"})
	case errors.Is(err, booking.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "movie not found"})
	case errors.Is(err, booking.ErrShowNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "show not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
	case errors.Is(err, booking.ErrNotOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "booking belongs to another user"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "booking already cancelled"})
	case errors.Is(err, booking.ErrTxRetryExhausted):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "temporary conflict, retry the request"})
	// catalog service
	case errors.Is(err, catalog.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "movie not found"})
	case errors.Is(err, catalog.ErrSyncDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "catalog sync is not configured"})
	// shows service
	case errors.Is(err, shows.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid show input"})
	case errors.Is(err, shows.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "movie not found"})
	case errors.Is(err, shows.ErrShowNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "show not found"})
	case errors.Is(err, shows.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "show already exists for this slot"})
	// users service
	case errors.Is(err, users.ErrMissingID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing identity id"})
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
