package video

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mentorlink/booking-backend/internal/models"
)

const (
	// nbfSkew backdates the not-before claim to tolerate clock drift between
	// this server and the video provider
	nbfSkew = 10 * time.Second

	tokenIssuer = "mentorlink-api"
)

// Subject identifies the person a room token is minted for
type Subject struct {
	ID    string
	Name  string
	Email string
}

// UserContext carries the subject identity inside the token
type UserContext struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Moderator bool   `json:"moderator"`
}

// FeatureFlags declares what the token holder may do inside the room.
// Recording is on by policy; transcription and live streaming stay off.
type FeatureFlags struct {
	Recording     bool `json:"recording"`
	Transcription bool `json:"transcription"`
	LiveStreaming bool `json:"livestreaming"`
}

// RoomClaims is the JWT claim set granting entry to a single video room.
// The room claim is scoped to the exact room being joined; an earlier
// revision of this system granted a wildcard here, which let any valid
// token open any room.
type RoomClaims struct {
	Room     string       `json:"room"`
	User     UserContext  `json:"user"`
	Features FeatureFlags `json:"features"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed, time-boxed, role-scoped room credentials
type TokenIssuer struct {
	appID    string
	secret   string
	tokenTTL time.Duration
}

// NewTokenIssuer creates a new TokenIssuer. appID and secret may be empty
// here; IssueToken refuses to sign until both are configured.
func NewTokenIssuer(appID, secret string, tokenTTL time.Duration) *TokenIssuer {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}
	return &TokenIssuer{
		appID:    appID,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// IsConfigured reports whether signing credentials are present
func (i *TokenIssuer) IsConfigured() bool {
	return i.appID != "" && i.secret != ""
}

// IssueToken mints a token admitting subject into roomName. isModerator must
// be true only when the subject is the mentor for the session held in that
// room. Tokens are never persisted; validity is time- and signature-based.
func (i *TokenIssuer) IssueToken(roomName string, subject Subject, isModerator bool) (string, error) {
	if !i.IsConfigured() {
		return "", models.ErrTokenConfig
	}
	if roomName == "" {
		return "", fmt.Errorf("room name is required")
	}

	now := time.Now()
	claims := RoomClaims{
		Room: roomName,
		User: UserContext{
			ID:        subject.ID,
			Name:      subject.Name,
			Email:     subject.Email,
			Moderator: isModerator,
		},
		Features: FeatureFlags{
			Recording:     true,
			Transcription: false,
			LiveStreaming: false,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{i.appID},
			Issuer:    tokenIssuer,
			Subject:   subject.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-nbfSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign room token: %w", err)
	}

	return signed, nil
}

// ValidateToken validates and parses a room token
func (i *TokenIssuer) ValidateToken(tokenString string) (*RoomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(i.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*RoomClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
