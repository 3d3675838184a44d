package models

import "time"

// Mentor is the authoritative mentor record. The booking flow only reads it:
// profile management lives in the main platform, not in this service.
type Mentor struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	HourlyRate float64   `json:"hourly_rate" db:"hourly_rate"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
