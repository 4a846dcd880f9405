package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrUserNotFound indicates no account matches the supplied identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountNotVerified indicates the account has not completed OTP verification.
	ErrAccountNotVerified = errors.New("account is not verified")
	// ErrAccountDeactivated indicates the account is deactivated and blocked from the flow.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrPasswordInvalid indicates the supplied password fails validation rules.
	ErrPasswordInvalid = errors.New("password is invalid")
	// ErrPasswordMismatch indicates newPassword and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// RateLimitedError reports a resend attempt made while a live code still exists.
type RateLimitedError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s rate limited, retry in %d minute(s)", e.Scope, e.RetryAfterMinutes())
}

// RetryAfterMinutes rounds the remaining cooldown up to whole minutes for
// client-facing messages.
func (e *RateLimitedError) RetryAfterMinutes() int {
	minutes := int((e.RetryAfter + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// looksLikeEmail routes an identifier to the email column when it is
// email-shaped, and to the phone column otherwise.
func looksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone strips formatting characters and keeps digits only.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stringPtrOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
