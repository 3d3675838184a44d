package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorlink/booking-backend/internal/database"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Notifier informs both parties after a booking is confirmed
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, student, mentor Contact, booking *models.Booking, session *models.Session) error
}

// FinalizerConfig holds configuration for the finalizer
type FinalizerConfig struct {
	LockTTL     time.Duration // How long a finalize lock is held (default 30s)
	CallTimeout time.Duration // Per-external-call timeout (default 5s)
}

// DefaultFinalizerConfig returns default configuration
func DefaultFinalizerConfig() FinalizerConfig {
	return FinalizerConfig{
		LockTTL:     30 * time.Second,
		CallTimeout: 5 * time.Second,
	}
}

// BookingFinalizerService turns a succeeded payment intent into persisted
// Booking and Session records. The flow is
//
//	payment succeeded -> booking created -> session provisioned -> notified
//
// and must tolerate at-least-once invocation: a reloaded success page or a
// redelivered webhook finds the existing booking and returns the same
// summary. The gateway's succeeded status is the single gate in front of
// all persistence; nothing is written for an unpaid intent.
type BookingFinalizerService struct {
	bookingStore BookingStore
	sessionStore SessionStore
	mentorStore  MentorStore
	gateway      PaymentGateway
	rooms        RoomProvider
	notifier     Notifier
	locks        *redis.Client
	config       FinalizerConfig
	logger       *logrus.Logger
}

// NewBookingFinalizerService creates a new BookingFinalizerService
func NewBookingFinalizerService(
	bookingStore BookingStore,
	sessionStore SessionStore,
	mentorStore MentorStore,
	gateway PaymentGateway,
	rooms RoomProvider,
	notifier Notifier,
	locks *redis.Client,
	config FinalizerConfig,
	logger *logrus.Logger,
) *BookingFinalizerService {
	return &BookingFinalizerService{
		bookingStore: bookingStore,
		sessionStore: sessionStore,
		mentorStore:  mentorStore,
		gateway:      gateway,
		rooms:        rooms,
		notifier:     notifier,
		locks:        locks,
		config:       config,
		logger:       logger,
	}
}

// Finalize converts the given payment intent into a confirmed booking with a
// provisioned session. Safe to call any number of times for the same intent.
func (s *BookingFinalizerService) Finalize(ctx context.Context, intentID string) (*models.BookingSummary, error) {
	if intentID == "" {
		return nil, models.NewValidationError("paymentIntentId", "is required")
	}

	// 1. Serialize concurrent finalize calls for the same intent. The unique
	// index on payment_intent_id stays the authoritative guard; the lock only
	// keeps a duplicate request from racing through room provisioning.
	release, err := s.acquireLock(ctx, intentID)
	if err != nil {
		return nil, err
	}
	defer release()

	// 2. Retrieve the intent and gate on payment status
	intent, err := s.getIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded() {
		s.logger.WithFields(logrus.Fields{
			"intent_id": intentID,
			"status":    intent.Status,
		}).Warn("Finalize rejected: payment not succeeded")
		return nil, models.ErrPaymentNotSucceeded
	}

	// 3. Decode and validate the draft carried in intent metadata
	draft := models.DraftFromMetadata(intent.Metadata)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// 4. Idempotency check: one booking per payment intent
	booking, err := s.bookingStore.GetBookingByPaymentIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing booking: %w", err)
	}

	if booking != nil {
		session, err := s.sessionStore.GetSessionByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session for booking: %w", err)
		}
		if session != nil {
			// Fully finalized earlier; return the same summary
			return s.buildSummary(booking, session, true), nil
		}
		// Paid booking without a session: a previous finalize died after the
		// booking insert. Resume at room provisioning.
		s.logger.WithField("booking_id", booking.ID).Info("Resuming finalization for unprovisioned booking")
	} else {
		booking, err = s.createBooking(ctx, intentID, intent, draft)
		if err != nil {
			return nil, err
		}
	}

	// 5. Provision the video room and create the session. A provisioning
	// failure leaves the booking pending+paid, which a retried finalize call
	// picks up again above.
	session, err := s.provisionSession(ctx, booking)
	if err != nil {
		return nil, err
	}

	// 6. Notify both parties. Failures are logged and swallowed: a booking
	// with a failed notification is still a valid, confirmed booking.
	s.notify(ctx, draft, booking, session)

	s.logger.WithFields(logrus.Fields{
		"intent_id":  intentID,
		"booking_id": booking.ID,
		"session_id": session.ID,
	}).Info("Booking finalized")

	return s.buildSummary(booking, session, false), nil
}

// acquireLock takes the per-intent finalize lock. A Redis outage degrades to
// lock-free operation rather than blocking bookings.
func (s *BookingFinalizerService) acquireLock(ctx context.Context, intentID string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	key := "finalize:intent:" + intentID
	acquired, err := s.locks.SetNX(ctx, key, "1", s.config.LockTTL).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Finalize lock unavailable, relying on store uniqueness only")
		return func() {}, nil
	}
	if !acquired {
		return nil, models.ErrFinalizeInProgress
	}

	return func() {
		if err := s.locks.Del(context.Background(), key).Err(); err != nil {
			s.logger.WithError(err).WithField("intent_id", intentID).Warn("Failed to release finalize lock")
		}
	}, nil
}

func (s *BookingFinalizerService) getIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	intent, err := s.gateway.GetIntent(callCtx, intentID)
	if err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *BookingFinalizerService) createBooking(ctx context.Context, intentID string, intent *models.PaymentIntent, draft *models.BookingDraft) (*models.Booking, error) {
	booking := &models.Booking{
		StudentID:       draft.StudentID,
		MentorID:        draft.MentorID,
		Topic:           draft.Topic,
		Description:     draft.Description,
		PreferredDate:   draft.PreferredDate,
		PreferredTime:   draft.PreferredTime,
		DurationMinutes: draft.DurationMinutes,
		// Amount comes from the intent the gateway settled, never from
		// anything the client resubmits at completion time
		Amount:          intent.Amount(),
		Status:          models.BookingStatusPending,
		PaymentIntentID: intentID,
		PaymentStatus:   models.PaymentStatusPaid,
	}

	err := s.bookingStore.CreateBooking(ctx, booking)
	if err == nil {
		return booking, nil
	}

	if database.IsUniqueViolation(err) {
		// A concurrent finalize won the insert race; adopt its booking
		existing, lookupErr := s.bookingStore.GetBookingByPaymentIntentID(ctx, intentID)
		if lookupErr != nil || existing == nil {
			return nil, fmt.Errorf("booking exists but could not be loaded: %w", err)
		}
		return existing, nil
	}

	return nil, fmt.Errorf("failed to create booking: %w", err)
}

func (s *BookingFinalizerService) provisionSession(ctx context.Context, booking *models.Booking) (*models.Session, error) {
	roomName := fmt.Sprintf("session-%s", booking.ID[:8])

	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	room, err := s.rooms.CreateRoom(callCtx, roomName)
	if err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Error("Room provisioning failed, booking left retriable")
		return nil, err
	}

	session := &models.Session{
		BookingID:       booking.ID,
		MentorID:        booking.MentorID,
		StudentID:       booking.StudentID,
		Topic:           booking.Topic,
		ScheduledDate:   booking.PreferredDate,
		ScheduledTime:   booking.PreferredTime,
		DurationMinutes: booking.DurationMinutes,
		VideoRoomID:     room.Name,
		VideoRoomURL:    room.URL,
		Status:          models.SessionStatusScheduled,
	}

	if err := s.sessionStore.CreateSessionAndConfirmBooking(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	booking.Status = models.BookingStatusConfirmed
	booking.VideoRoomID = &session.VideoRoomID

	return session, nil
}

func (s *BookingFinalizerService) notify(ctx context.Context, draft *models.BookingDraft, booking *models.Booking, session *models.Session) {
	student := Contact{Name: draft.StudentName, Email: draft.StudentEmail}
	mentor := Contact{Name: draft.MentorName}

	if record, err := s.mentorStore.GetMentorByID(ctx, booking.MentorID); err == nil && record != nil {
		mentor.Name = record.Name
		mentor.Email = record.Email
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()

	if err := s.notifier.NotifyBookingConfirmed(callCtx, student, mentor, booking, session); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Warn("Booking confirmed but notification failed")
	}
}

func (s *BookingFinalizerService) buildSummary(booking *models.Booking, session *models.Session, existed bool) *models.BookingSummary {
	summary := &models.BookingSummary{
		BookingID:       booking.ID,
		Status:          models.BookingStatusConfirmed,
		Amount:          booking.Amount,
		PaymentIntentID: booking.PaymentIntentID,
		AlreadyExisted:  existed,
	}
	if session != nil {
		summary.SessionID = session.ID
		summary.VideoRoomURL = session.VideoRoomURL
	}
	return summary
}
