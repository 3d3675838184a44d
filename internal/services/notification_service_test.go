package services

import (
	"context"
	"testing"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/mentorlink/booking-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway records sent messages and can fail selected recipients
type fakeGateway struct {
	sent    []mailer.Message
	failFor map[string]error
}

func (g *fakeGateway) Send(ctx context.Context, msg mailer.Message) (string, error) {
	for _, to := range msg.To {
		if err, ok := g.failFor[to]; ok {
			return "", err
		}
	}
	g.sent = append(g.sent, msg)
	return "msg-1", nil
}

func (g *fakeGateway) GetName() string { return "fake" }

func confirmedBookingPair() (*models.Booking, *models.Session) {
	booking := &models.Booking{
		ID:              "booking-1",
		Topic:           "Go interfaces",
		Amount:          30.0,
		DurationMinutes: 30,
		Status:          models.BookingStatusConfirmed,
	}
	session := &models.Session{
		ID:              "session-1",
		BookingID:       "booking-1",
		ScheduledDate:   "2026-10-01",
		ScheduledTime:   "14:00",
		DurationMinutes: 30,
		VideoRoomURL:    "https://mentorlink.daily.co/session-1",
	}
	return booking, session
}

func TestNotifyBookingConfirmed_EmailsBothParties(t *testing.T) {
	gateway := &fakeGateway{}
	service := NewNotificationService(gateway, newTestLogger())

	booking, session := confirmedBookingPair()
	student := Contact{Name: "Sam Student", Email: "sam@example.com"}
	mentor := Contact{Name: "Ada Mentor", Email: "ada@example.com"}

	err := service.NotifyBookingConfirmed(context.Background(), student, mentor, booking, session)

	require.NoError(t, err)
	require.Len(t, gateway.sent, 2)
	assert.Equal(t, []string{"sam@example.com"}, gateway.sent[0].To)
	assert.Contains(t, gateway.sent[0].Subject, "Ada Mentor")
	assert.Contains(t, gateway.sent[0].Text, session.VideoRoomURL)
	assert.Equal(t, []string{"ada@example.com"}, gateway.sent[1].To)
	assert.Contains(t, gateway.sent[1].Subject, "Go interfaces")
}

func TestNotifyBookingConfirmed_SkipsMissingAddresses(t *testing.T) {
	gateway := &fakeGateway{}
	service := NewNotificationService(gateway, newTestLogger())

	booking, session := confirmedBookingPair()
	student := Contact{Name: "Sam Student", Email: "sam@example.com"}
	mentor := Contact{Name: "Ada Mentor"} // no address on file

	err := service.NotifyBookingConfirmed(context.Background(), student, mentor, booking, session)

	require.NoError(t, err)
	require.Len(t, gateway.sent, 1)
	assert.Equal(t, []string{"sam@example.com"}, gateway.sent[0].To)
}

func TestNotifyBookingConfirmed_PartialFailureStillSendsRest(t *testing.T) {
	gateway := &fakeGateway{failFor: map[string]error{"sam@example.com": assert.AnError}}
	service := NewNotificationService(gateway, newTestLogger())

	booking, session := confirmedBookingPair()
	student := Contact{Name: "Sam Student", Email: "sam@example.com"}
	mentor := Contact{Name: "Ada Mentor", Email: "ada@example.com"}

	err := service.NotifyBookingConfirmed(context.Background(), student, mentor, booking, session)

	// The error comes back for logging, but the mentor email still went out
	assert.Error(t, err)
	require.Len(t, gateway.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, gateway.sent[0].To)
}
