package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Room is the provider's handle for a created video room
type Room struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RoomConfig is the fixed configuration policy applied to every session room
type RoomConfig struct {
	EnableScreenshare bool  `json:"enable_screenshare"`
	EnableChat        bool  `json:"enable_chat"`
	EnableRecording   bool  `json:"enable_recording"`
	MaxParticipants   int   `json:"max_participants"`
	ExpiresAt         int64 `json:"exp"` // Unix seconds; provider reclaims the room after this
}

type createRoomRequest struct {
	Name       string     `json:"name"`
	Privacy    string     `json:"privacy"`
	Properties RoomConfig `json:"properties"`
}

type createRoomResponse struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
	Info  string `json:"info,omitempty"`
}

// RoomProvisioner creates rooms against the video provider's REST API
type RoomProvisioner struct {
	apiURL          string
	apiKey          string
	domain          string
	maxParticipants int
	logger          *logrus.Logger
	client          *http.Client
}

// NewRoomProvisioner creates a new RoomProvisioner
func NewRoomProvisioner(apiURL, apiKey, domain string, maxParticipants int, timeout time.Duration, logger *logrus.Logger) *RoomProvisioner {
	if maxParticipants <= 0 {
		maxParticipants = 2
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RoomProvisioner{
		apiURL:          apiURL,
		apiKey:          apiKey,
		domain:          domain,
		maxParticipants: maxParticipants,
		logger:          logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRoom reserves a room with the provider and returns its handle.
// A non-2xx response is fatal to the caller's current request; retrying is
// the caller's decision, not done inline here.
func (p *RoomProvisioner) CreateRoom(ctx context.Context, name string) (*Room, error) {
	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}

	reqBody := createRoomRequest{
		Name:    name,
		Privacy: "private",
		Properties: RoomConfig{
			EnableScreenshare: true,
			EnableChat:        true,
			EnableRecording:   true,
			MaxParticipants:   p.maxParticipants,
			ExpiresAt:         time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal room request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/rooms", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build room request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: "video", Op: "create_room", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read room response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.WithFields(logrus.Fields{
			"room_name":   name,
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("Video provider rejected room creation")
		return nil, &models.ProviderError{
			Provider: "video",
			Op:       "create_room",
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("provider response: %s", string(body)),
		}
	}

	var roomResp createRoomResponse
	if err := json.Unmarshal(body, &roomResp); err != nil {
		return nil, fmt.Errorf("failed to parse room response: %w", err)
	}

	room := &Room{
		Name: roomResp.Name,
		URL:  roomResp.URL,
	}
	if room.URL == "" {
		room.URL = fmt.Sprintf("https://%s/%s", p.domain, room.Name)
	}

	p.logger.WithFields(logrus.Fields{
		"room_name": room.Name,
		"room_url":  room.URL,
	}).Info("Video room provisioned")

	return room, nil
}
