package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services and mapped to HTTP statuses in handlers
var (
	ErrMentorNotFound      = errors.New("mentor not found or inactive")
	ErrPaymentNotSucceeded = errors.New("payment intent has not succeeded")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrScheduleConflict    = errors.New("mentor already has a session in that slot")
	ErrFinalizeInProgress  = errors.New("finalization already in progress for this payment intent")
	ErrTokenConfig         = errors.New("video token credentials not configured")
)

// ValidationError reports a request field that failed validation
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ProviderError wraps a failure from an external provider (payment gateway,
// video API, email API) with enough context to log and map to a 502
type ProviderError struct {
	Provider string // stripe, video, mail
	Op       string
	Status   int // HTTP status from the provider, 0 if the call never completed
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Provider, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
