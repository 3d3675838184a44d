package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendGateway implements email sending via the Resend REST API
type ResendGateway struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// ResendConfig holds configuration for the Resend gateway
type ResendConfig struct {
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

// NewResendGateway creates a new Resend email gateway client
func NewResendGateway(config ResendConfig) *ResendGateway {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ResendGateway{
		apiURL: config.APIURL,
		apiKey: config.APIKey,
		from:   config.From,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type sendEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// Send delivers a single message through the Resend API
func (g *ResendGateway) Send(ctx context.Context, msg Message) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("email gateway not configured: missing API key")
	}
	if len(msg.To) == 0 {
		return "", fmt.Errorf("email message has no recipients")
	}

	reqBody := sendEmailRequest{
		From:    g.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call email gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var sendResp sendEmailResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return "", fmt.Errorf("failed to parse email response: %w", err)
	}

	return sendResp.ID, nil
}

// GetName returns the gateway name
func (g *ResendGateway) GetName() string {
	return "resend"
}
