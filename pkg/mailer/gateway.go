package mailer

import "context"

// Message is a single outbound email
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// EmailGateway defines the interface for sending transactional email
type EmailGateway interface {
	// Send delivers a single message
	// Returns the provider's message ID and an error if the send failed
	Send(ctx context.Context, msg Message) (string, error)

	// GetName returns the name of the email gateway implementation
	GetName() string
}
