package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mentorlink/booking-backend/internal/models"
)

// MentorRepository reads mentor records. Mentor profiles are managed by the
// main platform; this service only needs the authoritative hourly rate and
// contact details.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository creates a new MentorRepository
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// GetMentorByID retrieves a mentor by ID. Returns nil, nil when not found.
func (r *MentorRepository) GetMentorByID(ctx context.Context, mentorID string) (*models.Mentor, error) {
	var mentor models.Mentor

	query := `
		SELECT id, name, email, hourly_rate, active, created_at, updated_at
		FROM mentors
		WHERE id = $1`

	err := r.db.GetContext(ctx, &mentor, query, mentorID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}

	return &mentor, nil
}
