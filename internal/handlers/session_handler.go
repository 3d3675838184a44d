package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/mentorlink/booking-backend/internal/services"
	"github.com/mentorlink/booking-backend/pkg/video"
	"github.com/sirupsen/logrus"
)

// sessionScheduler moves session/booking pairs to a new slot
type sessionScheduler interface {
	Reschedule(ctx context.Context, sessionID, newDate, newTime string) error
}

// SessionHandler handles session scheduling and join endpoints
type SessionHandler struct {
	scheduler sessionScheduler
	sessions  services.SessionStore
	tokens    tokenIssuer
	logger    *logrus.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	scheduler sessionScheduler,
	sessions services.SessionStore,
	tokens tokenIssuer,
	logger *logrus.Logger,
) *SessionHandler {
	return &SessionHandler{
		scheduler: scheduler,
		sessions:  sessions,
		tokens:    tokens,
		logger:    logger,
	}
}

// GetSession returns a single session.
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrSessionNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Reschedule moves a session and its booking to a new date and time.
// PUT /api/v1/sessions/:id/reschedule
func (h *SessionHandler) Reschedule(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := h.scheduler.Reschedule(c.Request.Context(), c.Param("id"), req.NewDate, req.NewTime); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "session rescheduled",
		"sessionId": c.Param("id"),
	})
}

// JoinSessionRequest identifies who wants to enter the session room
type JoinSessionRequest struct {
	UserID    string `json:"userId" binding:"required"`
	UserName  string `json:"userName" binding:"required"`
	UserEmail string `json:"userEmail"`
}

// JoinSession returns the room URL and an entry token for a session
// participant. The moderator role is granted only when the joining user is
// the session's mentor; it is never client-asserted here.
// POST /api/v1/sessions/:id/join
func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	session, err := h.sessions.GetSessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrSessionNotFound.Error()})
		return
	}

	if req.UserID != session.MentorID && req.UserID != session.StudentID {
		c.JSON(http.StatusForbidden, gin.H{"error": "user is not a participant of this session"})
		return
	}

	isModerator := req.UserID == session.MentorID

	subject := video.Subject{
		ID:    req.UserID,
		Name:  req.UserName,
		Email: req.UserEmail,
	}

	token, err := h.tokens.IssueToken(session.VideoRoomID, subject, isModerator)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.JoinSessionResponse{
		RoomURL:   session.VideoRoomURL,
		RoomName:  session.VideoRoomID,
		Token:     token,
		Moderator: isModerator,
	})
}
