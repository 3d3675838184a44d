package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SessionSchedulerService reschedules a session/booking pair. Both records
// move in one transaction, and the new slot is checked against the mentor's
// other scheduled sessions before anything is written.
type SessionSchedulerService struct {
	sessionStore SessionStore
	logger       *logrus.Logger
}

// NewSessionSchedulerService creates a new SessionSchedulerService
func NewSessionSchedulerService(sessionStore SessionStore, logger *logrus.Logger) *SessionSchedulerService {
	return &SessionSchedulerService{
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// Reschedule moves a session and its linked booking to a new date and time
func (s *SessionSchedulerService) Reschedule(ctx context.Context, sessionID, newDate, newTime string) error {
	if _, err := time.Parse("2006-01-02", newDate); err != nil {
		return models.NewValidationError("newDate", "must be in YYYY-MM-DD format")
	}
	newStart, err := parseClock(newTime)
	if err != nil {
		return models.NewValidationError("newTime", "must be in HH:MM format")
	}

	session, err := s.sessionStore.GetSessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return models.ErrSessionNotFound
	}
	if session.Status != models.SessionStatusScheduled {
		return models.NewValidationError("sessionId", fmt.Sprintf("session in status %s cannot be rescheduled", session.Status))
	}

	// Reject slots that overlap another scheduled session of the same mentor
	others, err := s.sessionStore.GetScheduledSessionsByMentorOnDate(ctx, session.MentorID, newDate, session.ID)
	if err != nil {
		return fmt.Errorf("failed to check mentor schedule: %w", err)
	}
	newEnd := newStart + session.DurationMinutes
	for _, other := range others {
		otherStart, err := parseClock(other.ScheduledTime)
		if err != nil {
			continue
		}
		otherEnd := otherStart + other.DurationMinutes
		if newStart < otherEnd && otherStart < newEnd {
			return models.ErrScheduleConflict
		}
	}

	if err := s.sessionStore.RescheduleSessionAndBooking(ctx, session.ID, session.BookingID, newDate, newTime); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"booking_id": session.BookingID,
		"new_date":   newDate,
		"new_time":   newTime,
	}).Info("Session rescheduled")

	return nil
}

// parseClock converts "HH:MM" to minutes since midnight
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
