package models

import "strconv"

// AllowedDurations are the bookable session lengths in minutes
var AllowedDurations = []int{30, 60, 90}

// BookingDraft is the not-yet-persisted booking carried inside payment intent
// metadata. Nothing is written to the store until the payment succeeds, so an
// abandoned checkout never leaves an orphan booking behind.
type BookingDraft struct {
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name"`
	StudentEmail    string `json:"student_email"`
	MentorID        string `json:"mentor_id"`
	MentorName      string `json:"mentor_name"`
	Topic           string `json:"topic"`
	Description     string `json:"description"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Validate checks the fields finalization depends on
func (d *BookingDraft) Validate() error {
	if d.StudentID == "" {
		return NewValidationError("student_id", "is required")
	}
	if d.MentorID == "" {
		return NewValidationError("mentor_id", "is required")
	}
	return nil
}

// ToMetadata flattens the draft into the string map the payment gateway stores
func (d *BookingDraft) ToMetadata() map[string]string {
	return map[string]string{
		"student_id":       d.StudentID,
		"student_name":     d.StudentName,
		"student_email":    d.StudentEmail,
		"mentor_id":        d.MentorID,
		"mentor_name":      d.MentorName,
		"topic":            d.Topic,
		"description":      d.Description,
		"preferred_date":   d.PreferredDate,
		"preferred_time":   d.PreferredTime,
		"duration_minutes": strconv.Itoa(d.DurationMinutes),
	}
}

// DraftFromMetadata rebuilds a BookingDraft from intent metadata
func DraftFromMetadata(meta map[string]string) *BookingDraft {
	duration, _ := strconv.Atoi(meta["duration_minutes"])
	return &BookingDraft{
		StudentID:       meta["student_id"],
		StudentName:     meta["student_name"],
		StudentEmail:    meta["student_email"],
		MentorID:        meta["mentor_id"],
		MentorName:      meta["mentor_name"],
		Topic:           meta["topic"],
		Description:     meta["description"],
		PreferredDate:   meta["preferred_date"],
		PreferredTime:   meta["preferred_time"],
		DurationMinutes: duration,
	}
}

// PaymentIntent is this service's view of the gateway's intent record.
// Owned by the gateway; referenced here by ID only.
type PaymentIntent struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"` // succeeded, requires_payment_method, ...
	AmountCents  int64             `json:"amount"`
	Currency     string            `json:"currency"`
	ClientSecret string            `json:"client_secret"`
	Metadata     map[string]string `json:"metadata"`
}

// Succeeded reports whether the intent has completed payment
func (p *PaymentIntent) Succeeded() bool {
	return p.Status == "succeeded"
}

// Amount returns the intent amount in currency units
func (p *PaymentIntent) Amount() float64 {
	return float64(p.AmountCents) / 100
}

// CreatePaymentIntentRequest is the body of POST /create-payment-intent.
// The client selects a mentor and a duration; the amount is always computed
// server-side from the mentor's stored hourly rate.
type CreatePaymentIntentRequest struct {
	MentorID        string `json:"mentorId" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required"`
	StudentID       string `json:"studentId" binding:"required"`
	StudentName     string `json:"studentName"`
	StudentEmail    string `json:"studentEmail"`
	Topic           string `json:"topic"`
	Description     string `json:"description"`
	PreferredDate   string `json:"preferredDate"`
	PreferredTime   string `json:"preferredTime"`
}

// Validate validates the create payment intent request
func (r *CreatePaymentIntentRequest) Validate() error {
	for _, d := range AllowedDurations {
		if r.DurationMinutes == d {
			return nil
		}
	}
	return NewValidationError("durationMinutes", "must be 30, 60 or 90")
}

// CreatePaymentIntentResponse is returned to the client so it can complete
// payment with the gateway's client SDK
type CreatePaymentIntentResponse struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
