package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DevGateway logs messages instead of sending them. Used outside production
// so local bookings do not email real people.
type DevGateway struct {
	logger *logrus.Logger
}

// NewDevGateway creates a new development email gateway
func NewDevGateway(logger *logrus.Logger) *DevGateway {
	return &DevGateway{logger: logger}
}

// Send logs the message and reports success
func (g *DevGateway) Send(_ context.Context, msg Message) (string, error) {
	g.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email send skipped (dev mode)")
	return "dev-" + msg.Subject, nil
}

// GetName returns the gateway name
func (g *DevGateway) GetName() string {
	return "dev"
}
