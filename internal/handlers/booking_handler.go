package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/mentorlink/booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// intentCreator creates payment intents for booking requests
type intentCreator interface {
	CreateIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.CreatePaymentIntentResponse, error)
}

// bookingFinalizer converts succeeded intents into bookings
type bookingFinalizer interface {
	Finalize(ctx context.Context, intentID string) (*models.BookingSummary, error)
}

// BookingHandler handles the booking payment and completion endpoints
type BookingHandler struct {
	intents   intentCreator
	finalizer bookingFinalizer
	bookings  services.BookingStore
	logger    *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	intents intentCreator,
	finalizer bookingFinalizer,
	bookings services.BookingStore,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		intents:   intents,
		finalizer: finalizer,
		bookings:  bookings,
		logger:    logger,
	}
}

// CreatePaymentIntent starts the booking flow.
// POST /api/v1/create-payment-intent
func (h *BookingHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	response, err := h.intents.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// CompleteBooking finalizes a paid intent into a booking and session.
// Clients land here after the gateway redirect reports redirect_status ==
// succeeded; duplicate calls for the same intent return the same booking.
// POST /api/v1/complete-booking
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	var req models.CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	summary, err := h.finalizer.Finalize(c.Request.Context(), req.PaymentIntentID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": summary.BookingID,
		"sessionId": summary.SessionID,
		"status":    summary.Status,
	})
}

// GetBooking returns a single booking.
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get booking"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrBookingNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings returns a student's bookings, newest first.
// GET /api/v1/bookings?studentId=...
func (h *BookingHandler) ListBookings(c *gin.Context) {
	studentID := c.Query("studentId")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	limit := 20
	offset := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	bookings, err := h.bookings.GetBookingsByStudentID(c.Request.Context(), studentID, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"limit":    limit,
		"offset":   offset,
	})
}
