package models

import "time"

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a paid mentorship commitment between a student and a
// mentor. Created only after the payment intent has succeeded; exactly one
// booking may exist per payment intent (unique index on payment_intent_id).
// Bookings are never deleted, only status-transitioned.
type Booking struct {
	ID              string        `json:"id" db:"id"`
	StudentID       string        `json:"student_id" db:"student_id"`
	MentorID        string        `json:"mentor_id" db:"mentor_id"`
	Topic           string        `json:"topic" db:"topic"`
	Description     string        `json:"description" db:"description"`
	PreferredDate   string        `json:"preferred_date" db:"preferred_date"`
	PreferredTime   string        `json:"preferred_time" db:"preferred_time"`
	DurationMinutes int           `json:"duration_minutes" db:"duration_minutes"`
	Amount          float64       `json:"amount" db:"amount"`
	Status          BookingStatus `json:"status" db:"status"`
	PaymentIntentID string        `json:"payment_intent_id" db:"payment_intent_id"`
	PaymentStatus   PaymentStatus `json:"payment_status" db:"payment_status"`
	VideoRoomID     *string       `json:"video_room_id,omitempty" db:"video_room_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPaid checks if the booking is paid
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// IsProvisioned checks if a video room has been attached to the booking
func (b *Booking) IsProvisioned() bool {
	return b.VideoRoomID != nil && *b.VideoRoomID != ""
}

// BookingSummary is returned from finalization. The same summary comes back
// on repeat finalize calls for the same payment intent.
type BookingSummary struct {
	BookingID       string        `json:"booking_id"`
	SessionID       string        `json:"session_id,omitempty"`
	Status          BookingStatus `json:"status"`
	Amount          float64       `json:"amount"`
	VideoRoomURL    string        `json:"video_room_url,omitempty"`
	AlreadyExisted  bool          `json:"-"`
	PaymentIntentID string        `json:"payment_intent_id"`
}

// CompleteBookingRequest is the body of POST /complete-booking
type CompleteBookingRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}
