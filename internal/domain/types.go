package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

// There is no payment-capture step: bookings are recorded as paid at
// creation and flipped to failed on cancellation, matching the schema's
// payment_status constraint.
const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
)

type Movie struct {
	ID          int64
	TMDBID      int64
	Title       string
	Slug        string
	Description string
	DurationMin int
	ReleaseDate time.Time
	Poster      string
	Rating      float64
	IsReleased  bool
	CreatedAt   time.Time
}

// MovieSummary is the subset of movie fields embedded in booking and
// show responses.
type MovieSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Poster      string `json:"poster"`
	DurationMin int    `json:"duration_min"`
}

// Show is one scheduled screening of a movie. BookedSeats together with
// AvailableSeats is the single source of truth for occupancy:
// available_seats + len(booked_seats) == total_seats after every commit.
type Show struct {
	ID             int64
	MovieID        int64
	ShowDate       time.Time
	ShowTime       string // canonical "H:MM AM/PM"
	PriceCents     int64
	TotalSeats     int
	AvailableSeats int
	BookedSeats    []string
	IsActive       bool
	CreatedAt      time.Time
}

type ShowWithMovie struct {
	Show
	Movie MovieSummary
}

// ShowCounts are the availability counters exposed on the public
// availability endpoint.
type ShowCounts struct {
	Total     int `json:"total"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

// Booking holds a denormalized copy of its seats and a price snapshot
// taken at creation time; show state is never recomputed from bookings.
type Booking struct {
	ID                uuid.UUID
	UserID            string
	MovieID           int64
	ShowID            int64
	Seats             []string
	PricePerSeatCents int64
	TotalAmountCents  int64
	PaymentStatus     PaymentStatus
	BookingStatus     BookingStatus
	CancelledBy       string
	CancelledAt       *time.Time
	CreatedAt         time.Time
}

type BookingWithDetails struct {
	Booking
	Movie    MovieSummary
	ShowDate time.Time
	ShowTime string
}

// User is provisioned from identity-provider webhook events. ID is the
// opaque identifier issued by the provider.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalBookings     int64                `json:"total_bookings"`
	TotalRevenueCents int64                `json:"total_revenue_cents"`
	TotalUsers        int64                `json:"total_users"`
	TotalMovies       int64                `json:"total_movies"`
	ActiveShows       []ShowOccupancy      `json:"active_shows"`
	RecentBookings    []BookingWithDetails `json:"recent_bookings"`
}

// ShowOccupancy is one row of the dashboard's active-show table.
type ShowOccupancy struct {
	ShowID           int64     `json:"show_id"`
	MovieTitle       string    `json:"movie_title"`
	Poster           string    `json:"poster"`
	ShowDate         time.Time `json:"show_date"`
	ShowTime         string    `json:"show_time"`
	PriceCents       int64     `json:"price_cents"`
	BookedSeats      int       `json:"booked_seats"`
	TotalSeats       int       `json:"total_seats"`
	OccupancyPercent int       `json:"occupancy_percent"`
}
