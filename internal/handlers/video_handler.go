package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/booking-backend/internal/services"
	"github.com/mentorlink/booking-backend/pkg/video"
	"github.com/sirupsen/logrus"
)

// tokenIssuer mints room entry tokens
type tokenIssuer interface {
	IssueToken(roomName string, subject video.Subject, isModerator bool) (string, error)
}

// VideoHandler handles video room and access token endpoints
type VideoHandler struct {
	rooms  services.RoomProvider
	tokens tokenIssuer
	logger *logrus.Logger
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(rooms services.RoomProvider, tokens tokenIssuer, logger *logrus.Logger) *VideoHandler {
	return &VideoHandler{
		rooms:  rooms,
		tokens: tokens,
		logger: logger,
	}
}

// CreateRoomRequest is the body of POST /create-video-room
type CreateRoomRequest struct {
	RoomName string `json:"roomName" binding:"required"`
}

// CreateVideoRoom reserves a room with the conferencing provider.
// POST /api/v1/create-video-room
func (h *VideoHandler) CreateVideoRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), req.RoomName)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomUrl":  room.URL,
		"roomName": room.Name,
	})
}

// GenerateTokenRequest is the body of POST /generate-video-token
type GenerateTokenRequest struct {
	RoomName    string `json:"roomName" binding:"required"`
	UserName    string `json:"userName" binding:"required"`
	UserEmail   string `json:"userEmail"`
	UserID      string `json:"userId" binding:"required"`
	IsModerator bool   `json:"isModerator"`
}

// GenerateVideoToken mints a room entry token for the named identity.
// POST /api/v1/generate-video-token
func (h *VideoHandler) GenerateVideoToken(c *gin.Context) {
	var req GenerateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	subject := video.Subject{
		ID:    req.UserID,
		Name:  req.UserName,
		Email: req.UserEmail,
	}

	token, err := h.tokens.IssueToken(req.RoomName, subject, req.IsModerator)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
