package models

import "time"

// SessionStatus represents the lifecycle status of a video session
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// Session is the scheduled video occurrence derived from a confirmed booking.
// A booking has at most one session (unique index on booking_id).
type Session struct {
	ID              string        `json:"id" db:"id"`
	BookingID       string        `json:"booking_id" db:"booking_id"`
	MentorID        string        `json:"mentor_id" db:"mentor_id"`
	StudentID       string        `json:"student_id" db:"student_id"`
	Topic           string        `json:"topic" db:"topic"`
	ScheduledDate   string        `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime   string        `json:"scheduled_time" db:"scheduled_time"`
	DurationMinutes int           `json:"duration_minutes" db:"duration_minutes"`
	VideoRoomID     string        `json:"video_room_id" db:"video_room_id"`
	VideoRoomURL    string        `json:"video_room_url" db:"video_room_url"`
	Status          SessionStatus `json:"status" db:"status"`
	StartedAt       *time.Time    `json:"started_at,omitempty" db:"started_at"`
	EndedAt         *time.Time    `json:"ended_at,omitempty" db:"ended_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// RescheduleRequest is the body of PUT /sessions/:id/reschedule
type RescheduleRequest struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
}

// JoinSessionResponse carries everything a client needs to enter the room
type JoinSessionResponse struct {
	RoomURL   string `json:"roomUrl"`
	RoomName  string `json:"roomName"`
	Token     string `json:"token"`
	Moderator bool   `json:"moderator"`
}
