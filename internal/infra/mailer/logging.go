package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/infra/logger"
)

type noopDispatcher struct{}

func (noopDispatcher) SendOTP(context.Context, port.OTPNotification) error { return nil }

// LoggingDispatcher records code dispatch events without delivering them.
// It is the default in development and the permanent sink for SMS contacts.
type LoggingDispatcher struct {
	logger *zap.Logger
}

// NewLoggingDispatcher constructs a dispatcher backed by structured logging.
func NewLoggingDispatcher(log *zap.Logger) port.NotificationDispatcher {
	if log == nil {
		return noopDispatcher{}
	}
	return &LoggingDispatcher{logger: log}
}

// SendOTP logs the dispatch with the contact masked. The code itself is
// logged so local development can complete verification flows.
func (d *LoggingDispatcher) SendOTP(_ context.Context, n port.OTPNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	contact := n.Contact
	if n.Delivery == domain.DeliveryEmail {
		contact = logger.MaskEmail(contact)
	} else {
		contact = logger.MaskPhone(contact)
	}

	d.logger.Info("dispatch one-time code",
		zap.String("purpose", string(n.Purpose)),
		zap.String("delivery", n.Delivery),
		zap.String("contact", contact),
		zap.String("code", n.Code),
		zap.Time("expires_at", n.ExpiresAt),
	)

	return nil
}

var _ port.NotificationDispatcher = (*LoggingDispatcher)(nil)
