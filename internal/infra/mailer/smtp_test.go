package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

type captureFallback struct {
	notifications []port.OTPNotification
}

func (c *captureFallback) SendOTP(_ context.Context, n port.OTPNotification) error {
	c.notifications = append(c.notifications, n)
	return nil
}

func TestSMTPDispatcherSendsEmail(t *testing.T) {
	sender := &captureSender{}
	dispatcher := &SMTPDispatcher{sender: sender, from: "no-reply@mirriora.app"}

	err := dispatcher.SendOTP(context.Background(), port.OTPNotification{
		Purpose:   port.OTPPurposeVerification,
		Delivery:  domain.DeliveryEmail,
		Contact:   "jane@example.com",
		FullName:  "Jane",
		Code:      "1234",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.messages))
	}

	to := sender.messages[0].GetHeader("To")
	if len(to) != 1 || to[0] != "jane@example.com" {
		t.Fatalf("unexpected recipient: %v", to)
	}

	subject := sender.messages[0].GetHeader("Subject")
	if len(subject) != 1 || !strings.Contains(subject[0], "verification") {
		t.Fatalf("unexpected subject: %v", subject)
	}
}

func TestSMTPDispatcherResetSubject(t *testing.T) {
	sender := &captureSender{}
	dispatcher := &SMTPDispatcher{sender: sender, from: "no-reply@mirriora.app"}

	err := dispatcher.SendOTP(context.Background(), port.OTPNotification{
		Purpose:  port.OTPPurposePasswordReset,
		Delivery: domain.DeliveryEmail,
		Contact:  "jane@example.com",
		Code:     "4321",
	})
	if err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	subject := sender.messages[0].GetHeader("Subject")
	if len(subject) != 1 || !strings.Contains(subject[0], "password reset") {
		t.Fatalf("unexpected subject: %v", subject)
	}
}

func TestSMTPDispatcherFallsBackForSMS(t *testing.T) {
	sender := &captureSender{}
	fallback := &captureFallback{}
	dispatcher := &SMTPDispatcher{sender: sender, from: "no-reply@mirriora.app", fallback: fallback}

	err := dispatcher.SendOTP(context.Background(), port.OTPNotification{
		Purpose:  port.OTPPurposeVerification,
		Delivery: domain.DeliverySMS,
		Contact:  "+15550001111",
		Code:     "9876",
	})
	if err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	if len(sender.messages) != 0 {
		t.Fatal("expected no mail for sms delivery")
	}
	if len(fallback.notifications) != 1 {
		t.Fatalf("expected fallback dispatch, got %d", len(fallback.notifications))
	}
}

func TestSMTPDispatcherWrapsSendError(t *testing.T) {
	sender := &captureSender{err: errors.New("connection refused")}
	dispatcher := &SMTPDispatcher{sender: sender, from: "no-reply@mirriora.app"}

	err := dispatcher.SendOTP(context.Background(), port.OTPNotification{
		Purpose:  port.OTPPurposeVerification,
		Delivery: domain.DeliveryEmail,
		Contact:  "jane@example.com",
		Code:     "1234",
	})
	if err == nil {
		t.Fatal("expected error when dial fails")
	}
}
