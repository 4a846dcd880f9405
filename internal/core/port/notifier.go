package port

import (
	"context"
	"time"
)

// OTPPurpose distinguishes the template and subject used for delivery.
type OTPPurpose string

const (
	OTPPurposeVerification   OTPPurpose = "verification"
	OTPPurposePasswordReset  OTPPurpose = "password_reset"
	OTPPurposePasswordChange OTPPurpose = "password_change"
)

// OTPNotification carries everything needed to deliver a one-time code.
type OTPNotification struct {
	Purpose   OTPPurpose
	Delivery  string
	Contact   string
	FullName  string
	Code      string
	ExpiresAt time.Time
}

// NotificationDispatcher delivers OTP codes to the user's contact channel.
// Delivery is an external collaborator: implementations may fail, and the
// caller decides whether the failure is fatal.
type NotificationDispatcher interface {
	SendOTP(ctx context.Context, notification OTPNotification) error
}
