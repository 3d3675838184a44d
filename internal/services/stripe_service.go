package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mentorlink/booking-backend/internal/config"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// PaymentGateway is the payment provider contract the orchestrator depends on.
// The intent record is owned by the provider; this service only creates it and
// reads it back by ID.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*models.PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error)
}

// StripeService handles payment gateway integration with the Stripe API
type StripeService struct {
	config *config.StripeConfig
	logger *logrus.Logger
	client *http.Client
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(cfg *config.StripeConfig, logger *logrus.Logger) *StripeService {
	return &StripeService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// IsConfigured returns true if the payment gateway is properly configured
func (s *StripeService) IsConfigured() bool {
	return s.config.SecretKey != ""
}

// stripeIntent mirrors the fields of Stripe's payment intent object this
// service reads
type stripeIntent struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	ClientSecret string            `json:"client_secret"`
	Metadata     map[string]string `json:"metadata"`
	Error        *stripeError      `json:"error,omitempty"`
}

type stripeError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateIntent creates a payment intent carrying the booking draft as
// metadata. The draft lives only on the gateway side until finalization.
func (s *StripeService) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*models.PaymentIntent, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("payment gateway not configured: missing secret key")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	intent, err := s.do(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()), "create_intent")
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"intent_id": intent.ID,
		"amount":    intent.AmountCents,
		"currency":  intent.Currency,
	}).Info("Payment intent created")

	return intent, nil
}

// GetIntent retrieves a payment intent by ID for validation at finalize time
func (s *StripeService) GetIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("payment gateway not configured: missing secret key")
	}
	if intentID == "" {
		return nil, models.NewValidationError("paymentIntentId", "is required")
	}

	return s.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(intentID), nil, "get_intent")
}

func (s *StripeService) do(ctx context.Context, method, path string, body io.Reader, op string) (*models.PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.config.APIURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to call payment gateway")
		return nil, &models.ProviderError{Provider: "stripe", Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	var parsed stripeIntent
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMsg := "unknown gateway error"
		if parsed.Error != nil {
			errMsg = parsed.Error.Message
		}
		s.logger.WithFields(logrus.Fields{
			"op":          op,
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		}).Error("Payment gateway rejected request")
		return nil, &models.ProviderError{
			Provider: "stripe",
			Op:       op,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("gateway response: %s", errMsg),
		}
	}

	return &models.PaymentIntent{
		ID:           parsed.ID,
		Status:       parsed.Status,
		AmountCents:  parsed.Amount,
		Currency:     parsed.Currency,
		ClientSecret: parsed.ClientSecret,
		Metadata:     parsed.Metadata,
	}, nil
}
