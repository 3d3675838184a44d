package services

import (
	"context"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/mentorlink/booking-backend/pkg/video"
)

// Store contracts the orchestration services depend on. The sqlx repositories
// in internal/database satisfy these; tests substitute mocks.

// MentorStore reads mentor records
type MentorStore interface {
	GetMentorByID(ctx context.Context, mentorID string) (*models.Mentor, error)
}

// BookingStore persists bookings
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookingsByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Booking, error)
}

// SessionStore persists sessions and their coupled booking updates
type SessionStore interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetSessionByBookingID(ctx context.Context, bookingID string) (*models.Session, error)
	CreateSessionAndConfirmBooking(ctx context.Context, session *models.Session) error
	RescheduleSessionAndBooking(ctx context.Context, sessionID, bookingID, newDate, newTime string) error
	GetScheduledSessionsByMentorOnDate(ctx context.Context, mentorID, date, excludeSessionID string) ([]models.Session, error)
}

// RoomProvider reserves video rooms with the conferencing backend
type RoomProvider interface {
	CreateRoom(ctx context.Context, name string) (*video.Room, error)
}
