package httpgin

import (
	"time"

	"github.com/cinebook/cinebook-go/internal/domain"
)

type CreateBookingRequest struct {
	MovieID           int64    `json:"movie_id" binding:"required"`
	ShowDate          string   `json:"show_date" binding:"required"` // "2006-01-02"
	ShowTime          string   `json:"show_time" binding:"required"`
	Seats             []string `json:"seats" binding:"required,min=1,dive,required"`
	PricePerSeatCents int64    `json:"price_per_seat_cents"`
}

type BookingResponse struct {
	ID                string               `json:"id"`
	UserID            string               `json:"user_id"`
	Movie             domain.MovieSummary  `json:"movie"`
	ShowID            int64                `json:"show_id"`
	ShowDate          string               `json:"show_date"`
	ShowTime          string               `json:"show_time"`
	Seats             []string             `json:"seats"`
	PricePerSeatCents int64                `json:"price_per_seat_cents"`
	TotalAmountCents  int64                `json:"total_amount_cents"`
	PaymentStatus     domain.PaymentStatus `json:"payment_status"`
	BookingStatus     domain.BookingStatus `json:"booking_status"`
	CreatedAt         time.Time            `json:"created_at"`
}

func toBookingResponse(d domain.BookingWithDetails) BookingResponse {
	return BookingResponse{
		ID:                d.ID.String(),
		UserID:            d.UserID,
		Movie:             d.Movie,
		ShowID:            d.ShowID,
		ShowDate:          d.ShowDate.Format("2006-01-02"),
		ShowTime:          d.ShowTime,
		Seats:             d.Seats,
		PricePerSeatCents: d.PricePerSeatCents,
		TotalAmountCents:  d.TotalAmountCents,
		PaymentStatus:     d.PaymentStatus,
		BookingStatus:     d.BookingStatus,
		CreatedAt:         d.CreatedAt,
	}
}

func toBookingResponses(ds []domain.BookingWithDetails) []BookingResponse {
	out := make([]BookingResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toBookingResponse(d))
	}

	return out
}

type ShowResponse struct {
	ID             int64               `json:"id"`
	Movie          domain.MovieSummary `json:"movie"`
	ShowDate       string              `json:"show_date"`
	ShowTime       string              `json:"show_time"`
	PriceCents     int64               `json:"price_cents"`
	TotalSeats     int                 `json:"total_seats"`
	AvailableSeats int                 `json:"available_seats"`
	BookedSeats    []string            `json:"booked_seats"`
	IsActive       bool                `json:"is_active"`
}

func toShowResponse(s domain.ShowWithMovie) ShowResponse {
	return ShowResponse{
		ID:             s.ID,
		Movie:          s.Movie,
		ShowDate:       s.ShowDate.Format("2006-01-02"),
		ShowTime:       s.ShowTime,
		PriceCents:     s.PriceCents,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
		BookedSeats:    s.BookedSeats,
		IsActive:       s.IsActive,
	}
}

func toShowResponses(ss []domain.ShowWithMovie) []ShowResponse {
	out := make([]ShowResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, toShowResponse(s))
	}

	return out
}

type CreateShowRequest struct {
	MovieID    int64  `json:"movie_id" binding:"required"`
	ShowDate   string `json:"show_date" binding:"required"` // "2006-01-02"
	ShowTime   string `json:"show_time" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
	TotalSeats int    `json:"total_seats" binding:"required,gt=0"`
}

type MovieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min"`
	ReleaseDate string  `json:"release_date"`
	Poster      string  `json:"poster"`
	Rating      float64 `json:"rating"`
	IsReleased  bool    `json:"is_released"`
}

func toMovieResponse(m domain.Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		DurationMin: m.DurationMin,
		ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
		Poster:      m.Poster,
		Rating:      m.Rating,
		IsReleased:  m.IsReleased,
	}
}

// IdentityWebhookRequest is the identity provider's user.created /
// user.updated event envelope.
type IdentityWebhookRequest struct {
	Type string              `json:"type" binding:"required"`
	Data IdentityWebhookUser `json:"data" binding:"required"`
}

type IdentityWebhookUser struct {
	ID             string `json:"id" binding:"required"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

type SyncResponse struct {
	Created int `json:"created"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse carries the actionable detail for seat conflicts:
// which seats are taken, or how many remain.
type ConflictResponse struct {
	Error          string   `json:"error"`
	ConflictSeats  []string `json:"conflict_seats,omitempty"`
	AvailableSeats *int     `json:"available_seats,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
