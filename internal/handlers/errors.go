package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// handleServiceError maps service-layer errors onto HTTP responses.
// Validation and payment-state problems go back verbatim so the client can
// act; provider and configuration failures are logged with full detail and
// returned as a generic message.
func handleServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	switch {
	case errors.Is(err, models.ErrPaymentNotSucceeded):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "payment_not_succeeded",
			"message": "payment has not completed, please retry payment",
		})
	case errors.Is(err, models.ErrMentorNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrScheduleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "schedule_conflict", "message": err.Error()})
	case errors.Is(err, models.ErrFinalizeInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "finalize_in_progress", "message": err.Error()})
	case errors.Is(err, models.ErrTokenConfig):
		logger.WithError(err).Error("Video token issuer misconfigured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "video access is temporarily unavailable"})
	default:
		var providerErr *models.ProviderError
		if errors.As(err, &providerErr) {
			logger.WithError(err).WithFields(logrus.Fields{
				"provider": providerErr.Provider,
				"op":       providerErr.Op,
				"status":   providerErr.Status,
			}).Error("External provider call failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "a required external service is unavailable, please retry"})
			return
		}

		logger.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
