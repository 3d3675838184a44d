package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mentorlink/booking-backend/internal/models"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The bookings table carries a unique index on payment_intent_id,
// so a concurrent duplicate finalize surfaces here rather than as a second row.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateBooking inserts a new booking. The unique index on payment_intent_id
// makes this the race-free idempotency point for finalization.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	booking.ID = uuid.New().String()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	query := `
		INSERT INTO bookings (
			id, student_id, mentor_id, topic, description,
			preferred_date, preferred_time, duration_minutes, amount,
			status, payment_intent_id, payment_status, video_room_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.StudentID, booking.MentorID, booking.Topic, booking.Description,
		booking.PreferredDate, booking.PreferredTime, booking.DurationMinutes, booking.Amount,
		booking.Status, booking.PaymentIntentID, booking.PaymentStatus, booking.VideoRoomID,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetBookingByPaymentIntentID retrieves a booking by its payment intent ID.
// Returns nil, nil when no booking exists for the intent.
func (r *BookingRepository) GetBookingByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	var booking models.Booking

	query := `
		SELECT id, student_id, mentor_id, topic, description,
			preferred_date, preferred_time, duration_minutes, amount,
			status, payment_intent_id, payment_status, video_room_id,
			created_at, updated_at
		FROM bookings
		WHERE payment_intent_id = $1`

	err := r.db.GetContext(ctx, &booking, query, paymentIntentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by payment intent: %w", err)
	}

	return &booking, nil
}

// GetBookingByID retrieves a booking by ID. Returns nil, nil when not found.
func (r *BookingRepository) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking

	query := `
		SELECT id, student_id, mentor_id, topic, description,
			preferred_date, preferred_time, duration_minutes, amount,
			status, payment_intent_id, payment_status, video_room_id,
			created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// GetBookingsByStudentID retrieves all bookings for a student, newest first
func (r *BookingRepository) GetBookingsByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Booking, error) {
	bookings := []models.Booking{}

	query := `
		SELECT id, student_id, mentor_id, topic, description,
			preferred_date, preferred_time, duration_minutes, amount,
			status, payment_intent_id, payment_status, video_room_id,
			created_at, updated_at
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &bookings, query, studentID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// GetUnprovisionedPaidBookings lists bookings that were paid but never got a
// session attached (room provisioning failed mid-finalize). These are the
// bookings worth retrying or inspecting, never silently stuck rows.
func (r *BookingRepository) GetUnprovisionedPaidBookings(ctx context.Context, limit int) ([]models.Booking, error) {
	bookings := []models.Booking{}

	query := `
		SELECT id, student_id, mentor_id, topic, description,
			preferred_date, preferred_time, duration_minutes, amount,
			status, payment_intent_id, payment_status, video_room_id,
			created_at, updated_at
		FROM bookings
		WHERE payment_status = 'paid' AND status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &bookings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unprovisioned bookings: %w", err)
	}

	return bookings, nil
}
