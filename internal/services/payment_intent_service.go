package services

import (
	"context"
	"fmt"
	"math"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// PaymentIntentService creates payment intents for booking requests. The
// full booking draft travels inside the intent metadata, so an abandoned
// payment leaves nothing behind in the store.
type PaymentIntentService struct {
	mentorStore MentorStore
	gateway     PaymentGateway
	currency    string
	logger      *logrus.Logger
}

// NewPaymentIntentService creates a new PaymentIntentService
func NewPaymentIntentService(
	mentorStore MentorStore,
	gateway PaymentGateway,
	currency string,
	logger *logrus.Logger,
) *PaymentIntentService {
	return &PaymentIntentService{
		mentorStore: mentorStore,
		gateway:     gateway,
		currency:    currency,
		logger:      logger,
	}
}

// CreateIntent validates the booking request, prices it from the mentor's
// stored hourly rate and creates the gateway intent. The client never
// supplies the amount; the submitted duration only selects the multiplier.
func (s *PaymentIntentService) CreateIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.CreatePaymentIntentResponse, error) {
	// 1. Validate duration granularity
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Load the authoritative mentor record
	mentor, err := s.mentorStore.GetMentorByID(ctx, req.MentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor: %w", err)
	}
	if mentor == nil || !mentor.Active {
		return nil, models.ErrMentorNotFound
	}
	if mentor.HourlyRate <= 0 {
		return nil, models.NewValidationError("mentorId", "mentor has no hourly rate configured")
	}

	// 3. Price server-side
	amount := mentor.HourlyRate * float64(req.DurationMinutes) / 60
	amountCents := int64(math.Round(amount * 100))

	// 4. Build the draft that finalization will decode back out of metadata
	draft := &models.BookingDraft{
		StudentID:       req.StudentID,
		StudentName:     req.StudentName,
		StudentEmail:    req.StudentEmail,
		MentorID:        mentor.ID,
		MentorName:      mentor.Name,
		Topic:           req.Topic,
		Description:     req.Description,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		DurationMinutes: req.DurationMinutes,
	}

	// 5. Create the intent with the draft as metadata
	intent, err := s.gateway.CreateIntent(ctx, amountCents, s.currency, draft.ToMetadata())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"intent_id":        intent.ID,
		"mentor_id":        mentor.ID,
		"student_id":       req.StudentID,
		"duration_minutes": req.DurationMinutes,
		"amount":           amount,
	}).Info("Payment intent created for booking draft")

	return &models.CreatePaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        intent.Currency,
	}, nil
}
