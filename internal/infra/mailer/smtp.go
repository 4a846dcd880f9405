package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/infra/config"
)

// messageSender abstracts gomail's dialer so tests can capture outgoing mail.
type messageSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPDispatcher delivers one-time codes over email. Phone contacts have no
// SMS provider wired, so they fall through to the logging dispatcher supplied
// as fallback.
type SMTPDispatcher struct {
	sender   messageSender
	from     string
	fallback port.NotificationDispatcher
}

// NewSMTPDispatcher builds a dispatcher backed by a real SMTP connection.
func NewSMTPDispatcher(cfg config.SMTPSettings, fallback port.NotificationDispatcher) *SMTPDispatcher {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPDispatcher{
		sender:   dialer,
		from:     cfg.From,
		fallback: fallback,
	}
}

// SendOTP emails the code for email contacts and defers to the fallback for
// everything else.
func (d *SMTPDispatcher) SendOTP(ctx context.Context, n port.OTPNotification) error {
	if n.Delivery != domain.DeliveryEmail {
		if d.fallback != nil {
			return d.fallback.SendOTP(ctx, n)
		}
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", n.Contact)
	m.SetHeader("Subject", subjectFor(n.Purpose))
	m.SetBody("text/plain", bodyFor(n))

	if err := d.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}

	return nil
}

func subjectFor(purpose port.OTPPurpose) string {
	switch purpose {
	case port.OTPPurposePasswordReset, port.OTPPurposePasswordChange:
		return "Your password reset code"
	default:
		return "Your verification code"
	}
}

func bodyFor(n port.OTPNotification) string {
	name := n.FullName
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(
		"Hi %s,\n\nYour code is %s. It expires at %s.\n\nIf you did not request this, you can ignore this message.\n",
		name,
		n.Code,
		n.ExpiresAt.UTC().Format("15:04 MST, Jan 2 2006"),
	)
}

var _ port.NotificationDispatcher = (*SMTPDispatcher)(nil)
