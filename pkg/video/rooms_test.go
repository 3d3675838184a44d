package video

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mentorlink/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoomLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCreateRoom_Success(t *testing.T) {
	var gotAuth string
	var gotReq createRoomRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rooms", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "session-abcdef12", "url": "https://mentorlink.daily.co/session-abcdef12"}`))
	}))
	defer server.Close()

	provisioner := NewRoomProvisioner(server.URL, "daily-key", "mentorlink.daily.co", 2, 5*time.Second, newTestRoomLogger())

	room, err := provisioner.CreateRoom(context.Background(), "session-abcdef12")

	require.NoError(t, err)
	assert.Equal(t, "session-abcdef12", room.Name)
	assert.Equal(t, "https://mentorlink.daily.co/session-abcdef12", room.URL)

	assert.Equal(t, "Bearer daily-key", gotAuth)
	assert.Equal(t, "session-abcdef12", gotReq.Name)
	assert.Equal(t, "private", gotReq.Privacy)
	assert.True(t, gotReq.Properties.EnableScreenshare)
	assert.True(t, gotReq.Properties.EnableChat)
	assert.True(t, gotReq.Properties.EnableRecording)
	assert.Equal(t, 2, gotReq.Properties.MaxParticipants)
	assert.Greater(t, gotReq.Properties.ExpiresAt, time.Now().Unix())
}

func TestCreateRoom_URLFallsBackToDomain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "session-abcdef12"}`))
	}))
	defer server.Close()

	provisioner := NewRoomProvisioner(server.URL, "daily-key", "mentorlink.daily.co", 2, 5*time.Second, newTestRoomLogger())

	room, err := provisioner.CreateRoom(context.Background(), "session-abcdef12")

	require.NoError(t, err)
	assert.Equal(t, "https://mentorlink.daily.co/session-abcdef12", room.URL)
}

func TestCreateRoom_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate-limited", "info": "too many rooms"}`))
	}))
	defer server.Close()

	provisioner := NewRoomProvisioner(server.URL, "daily-key", "mentorlink.daily.co", 2, 5*time.Second, newTestRoomLogger())

	room, err := provisioner.CreateRoom(context.Background(), "session-abcdef12")

	assert.Nil(t, room)
	var providerErr *models.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "video", providerErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.Status)
}

func TestCreateRoom_NetworkErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	provisioner := NewRoomProvisioner(server.URL, "daily-key", "mentorlink.daily.co", 2, time.Second, newTestRoomLogger())

	room, err := provisioner.CreateRoom(context.Background(), "session-abcdef12")

	assert.Nil(t, room)
	var providerErr *models.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, 0, providerErr.Status)
}

func TestCreateRoom_RequiresName(t *testing.T) {
	provisioner := NewRoomProvisioner("http://localhost:0", "k", "d", 2, time.Second, newTestRoomLogger())

	_, err := provisioner.CreateRoom(context.Background(), "")
	assert.Error(t, err)
}
