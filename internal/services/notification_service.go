package services

import (
	"context"
	"fmt"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/mentorlink/booking-backend/pkg/mailer"
	"github.com/sirupsen/logrus"
)

// Contact is an email recipient for booking notifications
type Contact struct {
	Name  string
	Email string
}

// NotificationService sends booking confirmation emails to both parties.
// It is a best-effort side effect: the finalizer logs its errors and moves
// on, a confirmed booking is never rolled back over a failed email.
type NotificationService struct {
	gateway mailer.EmailGateway
	logger  *logrus.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(gateway mailer.EmailGateway, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		gateway: gateway,
		logger:  logger,
	}
}

// NotifyBookingConfirmed emails the student and the mentor about a confirmed
// booking. Returns an error only for the caller to log; by the time this
// runs the booking is already committed.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, student, mentor Contact, booking *models.Booking, session *models.Session) error {
	var firstErr error

	if student.Email != "" {
		msg := mailer.Message{
			To:      []string{student.Email},
			Subject: fmt.Sprintf("Your mentorship session with %s is confirmed", mentor.Name),
			Text: fmt.Sprintf(
				"Hi %s,\n\nYour session %q with %s is confirmed for %s at %s (%d minutes).\nAmount paid: %.2f\nJoin link: %s\n\nSee you there!",
				student.Name, booking.Topic, mentor.Name,
				session.ScheduledDate, session.ScheduledTime, session.DurationMinutes,
				booking.Amount, session.VideoRoomURL,
			),
		}
		if _, err := s.gateway.Send(ctx, msg); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"recipient":  "student",
			}).Warn("Failed to send booking confirmation email")
			firstErr = err
		}
	}

	if mentor.Email != "" {
		msg := mailer.Message{
			To:      []string{mentor.Email},
			Subject: fmt.Sprintf("New booking: %s on %s", booking.Topic, session.ScheduledDate),
			Text: fmt.Sprintf(
				"Hi %s,\n\n%s booked a session %q for %s at %s (%d minutes).\nJoin link: %s",
				mentor.Name, student.Name, booking.Topic,
				session.ScheduledDate, session.ScheduledTime, session.DurationMinutes,
				session.VideoRoomURL,
			),
		}
		if _, err := s.gateway.Send(ctx, msg); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"recipient":  "mentor",
			}).Warn("Failed to send booking notification email")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
