package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubIntentCreator returns a fixed response or error
type stubIntentCreator struct {
	resp *models.CreatePaymentIntentResponse
	err  error
}

func (s *stubIntentCreator) CreateIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.CreatePaymentIntentResponse, error) {
	return s.resp, s.err
}

// stubFinalizer records calls and returns a fixed summary or error
type stubFinalizer struct {
	summary *models.BookingSummary
	err     error
	calls   []string
}

func (s *stubFinalizer) Finalize(ctx context.Context, intentID string) (*models.BookingSummary, error) {
	s.calls = append(s.calls, intentID)
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

// stubBookingStore serves bookings from a map
type stubBookingStore struct {
	bookings map[string]*models.Booking
	byStudent map[string][]models.Booking
	err      error
}

func (s *stubBookingStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.err
}

func (s *stubBookingStore) GetBookingByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	return nil, s.err
}

func (s *stubBookingStore) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bookings[bookingID], nil
}

func (s *stubBookingStore) GetBookingsByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byStudent[studentID], nil
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bookingTestRouter(h *BookingHandler) *gin.Engine {
	router := gin.New()
	router.POST("/create-payment-intent", h.CreatePaymentIntent)
	router.POST("/complete-booking", h.CompleteBooking)
	router.GET("/bookings", h.ListBookings)
	router.GET("/bookings/:id", h.GetBooking)
	return router
}

func TestCreatePaymentIntentEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{
			resp: &models.CreatePaymentIntentResponse{
				PaymentIntentID: "pi_123",
				ClientSecret:    "pi_123_secret",
				Amount:          30.0,
				Currency:        "usd",
			},
		}, &stubFinalizer{}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/create-payment-intent", gin.H{
			"mentorId":        "mentor-1",
			"durationMinutes": 30,
			"studentId":       "student-1",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp models.CreatePaymentIntentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "pi_123", resp.PaymentIntentID)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		assert.Equal(t, 30.0, resp.Amount)
	})

	t.Run("Missing Required Fields", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{}, &stubFinalizer{}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/create-payment-intent", gin.H{
			"mentorId": "mentor-1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid Duration", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{
			err: models.NewValidationError("durationMinutes", "must be 30, 60 or 90"),
		}, &stubFinalizer{}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/create-payment-intent", gin.H{
			"mentorId":        "mentor-1",
			"durationMinutes": 45,
			"studentId":       "student-1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Mentor Not Found", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{
			err: models.ErrMentorNotFound,
		}, &stubFinalizer{}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/create-payment-intent", gin.H{
			"mentorId":        "missing",
			"durationMinutes": 30,
			"studentId":       "student-1",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Gateway Down", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{
			err: &models.ProviderError{Provider: "stripe", Op: "create_intent", Status: 503},
		}, &stubFinalizer{}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/create-payment-intent", gin.H{
			"mentorId":        "mentor-1",
			"durationMinutes": 30,
			"studentId":       "student-1",
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		// Provider detail stays in the logs, not in the response body
		assert.NotContains(t, w.Body.String(), "stripe")
	})
}

func TestCompleteBookingEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		finalizer := &stubFinalizer{
			summary: &models.BookingSummary{
				BookingID: "booking-1",
				SessionID: "session-1",
				Status:    models.BookingStatusConfirmed,
				Amount:    30.0,
			},
		}
		handler := NewBookingHandler(&stubIntentCreator{}, finalizer, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/complete-booking", gin.H{
			"paymentIntentId": "pi_123",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"pi_123"}, finalizer.calls)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "booking-1", resp["bookingId"])
		assert.Equal(t, "session-1", resp["sessionId"])
		assert.Equal(t, "confirmed", resp["status"])
	})

	t.Run("Missing Intent ID", func(t *testing.T) {
		finalizer := &stubFinalizer{}
		handler := NewBookingHandler(&stubIntentCreator{}, finalizer, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/complete-booking", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, finalizer.calls)
	})

	t.Run("Payment Not Succeeded", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{}, &stubFinalizer{
			err: models.ErrPaymentNotSucceeded,
		}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/complete-booking", gin.H{
			"paymentIntentId": "pi_unpaid",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "payment_not_succeeded")
	})

	t.Run("Finalize In Progress", func(t *testing.T) {
		handler := NewBookingHandler(&stubIntentCreator{}, &stubFinalizer{
			err: models.ErrFinalizeInProgress,
		}, &stubBookingStore{}, newHandlerTestLogger())

		w := performRequest(bookingTestRouter(handler), http.MethodPost, "/complete-booking", gin.H{
			"paymentIntentId": "pi_racing",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGetBookingEndpoint(t *testing.T) {
	store := &stubBookingStore{
		bookings: map[string]*models.Booking{
			"booking-1": {ID: "booking-1", StudentID: "student-1", Status: models.BookingStatusConfirmed},
		},
	}
	handler := NewBookingHandler(&stubIntentCreator{}, &stubFinalizer{}, store, newHandlerTestLogger())
	router := bookingTestRouter(handler)

	t.Run("Found", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/bookings/booking-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var booking models.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
		assert.Equal(t, "booking-1", booking.ID)
	})

	t.Run("Not Found", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/bookings/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListBookingsEndpoint(t *testing.T) {
	store := &stubBookingStore{
		byStudent: map[string][]models.Booking{
			"student-1": {
				{ID: "booking-2", StudentID: "student-1"},
				{ID: "booking-1", StudentID: "student-1"},
			},
		},
	}
	handler := NewBookingHandler(&stubIntentCreator{}, &stubFinalizer{}, store, newHandlerTestLogger())
	router := bookingTestRouter(handler)

	t.Run("Success", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/bookings?studentId=student-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Bookings []models.Booking `json:"bookings"`
			Limit    int              `json:"limit"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Bookings, 2)
		assert.Equal(t, 20, resp.Limit)
	})

	t.Run("Student ID Required", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/bookings", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
