// Package queue defines the booking events published to the message broker
// and the publisher that delivers them.
package queue

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingConfirmedEvent is published after a booking commits. It carries
// enough for downstream consumers (notifications, analytics) to act
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        string   `json:"booking_id"`
	UserID           string   `json:"user_id"`
	MovieID          int64    `json:"movie_id"`
	MovieTitle       string   `json:"movie_title"`
	ShowID           int64    `json:"show_id"`
	ShowDate         string   `json:"show_date"`
	ShowTime         string   `json:"show_time"`
	Seats            []string `json:"seats"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a cancellation commits.
type BookingCancelledEvent struct {
	BookingID   string   `json:"booking_id"`
	UserID      string   `json:"user_id"`
	ShowID      int64    `json:"show_id"`
	Seats       []string `json:"seats"`
	CancelledBy string   `json:"cancelled_by"`
	CancelledAt string   `json:"cancelled_at"`
}
