package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mentorlink/booking-backend/internal/models"
)

// SessionRepository handles session database operations
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, booking_id, mentor_id, student_id, topic,
	scheduled_date, scheduled_time, duration_minutes,
	video_room_id, video_room_url, status,
	started_at, ended_at, created_at, updated_at`

// GetSessionByID retrieves a session by ID. Returns nil, nil when not found.
func (r *SessionRepository) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	err := r.db.GetContext(ctx, &session, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// GetSessionByBookingID retrieves the session derived from a booking.
// Returns nil, nil when the booking has no session yet.
func (r *SessionRepository) GetSessionByBookingID(ctx context.Context, bookingID string) (*models.Session, error) {
	var session models.Session

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE booking_id = $1`

	err := r.db.GetContext(ctx, &session, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by booking: %w", err)
	}

	return &session, nil
}

// CreateSessionAndConfirmBooking inserts the session and flips the parent
// booking to confirmed with its video room attached, in one transaction.
// Either both records land or neither does.
func (r *SessionRepository) CreateSessionAndConfirmBooking(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New().String()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO sessions (
			id, booking_id, mentor_id, student_id, topic,
			scheduled_date, scheduled_time, duration_minutes,
			video_room_id, video_room_url, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err = tx.ExecContext(ctx, insertQuery,
		session.ID, session.BookingID, session.MentorID, session.StudentID, session.Topic,
		session.ScheduledDate, session.ScheduledTime, session.DurationMinutes,
		session.VideoRoomID, session.VideoRoomURL, session.Status,
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	updateQuery := `
		UPDATE bookings
		SET video_room_id = $1, status = $2, updated_at = $3
		WHERE id = $4`

	_, err = tx.ExecContext(ctx, updateQuery,
		session.VideoRoomID, models.BookingStatusConfirmed, time.Now(), session.BookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session creation: %w", err)
	}

	return nil
}

// RescheduleSessionAndBooking moves the session and the linked booking to the
// new slot in one transaction, so a crash can never leave the pair torn.
func (r *SessionRepository) RescheduleSessionAndBooking(ctx context.Context, sessionID, bookingID, newDate, newTime string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	sessionQuery := `
		UPDATE sessions
		SET scheduled_date = $1, scheduled_time = $2, updated_at = $3
		WHERE id = $4`

	result, err := tx.ExecContext(ctx, sessionQuery, newDate, newTime, now, sessionID)
	if err != nil {
		return fmt.Errorf("failed to reschedule session: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return models.ErrSessionNotFound
	}

	bookingQuery := `
		UPDATE bookings
		SET preferred_date = $1, preferred_time = $2, updated_at = $3
		WHERE id = $4`

	if _, err := tx.ExecContext(ctx, bookingQuery, newDate, newTime, now, bookingID); err != nil {
		return fmt.Errorf("failed to update booking schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reschedule: %w", err)
	}

	return nil
}

// GetScheduledSessionsByMentorOnDate lists a mentor's scheduled sessions on a
// date, excluding one session ID. Used for overlap detection when rescheduling.
func (r *SessionRepository) GetScheduledSessionsByMentorOnDate(ctx context.Context, mentorID, date, excludeSessionID string) ([]models.Session, error) {
	sessions := []models.Session{}

	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE mentor_id = $1 AND scheduled_date = $2 AND status = $3 AND id != $4`

	err := r.db.SelectContext(ctx, &sessions, query, mentorID, date, models.SessionStatusScheduled, excludeSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentor sessions: %w", err)
	}

	return sessions, nil
}
