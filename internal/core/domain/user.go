package domain

import "time"

// User mirrors the persisted representation in the users table.
// Email and Phone are both optional, but at least one is always present.
type User struct {
	ID           string
	FullName     string
	Email        *string
	Phone        *string
	PasswordHash string
	PasswordAlgo string
	IsVerified   bool

	// IsDeactivated blocks login, password reset, and account deletion.
	IsDeactivated bool

	// Verification state, populated only while an email/phone OTP is outstanding.
	VerificationCodeHash *string
	VerificationExpires  *time.Time

	// Reset state, populated only during an in-flight password reset.
	ResetTokenHash     *string
	ResetTokenExpires  *time.Time
	ResetTokenVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOutstandingVerification reports whether an unexpired verification OTP exists.
func (u User) HasOutstandingVerification(at time.Time) bool {
	return u.VerificationCodeHash != nil && u.VerificationExpires != nil && at.Before(*u.VerificationExpires)
}

// HasOutstandingReset reports whether an unexpired reset OTP exists.
func (u User) HasOutstandingReset(at time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpires != nil && at.Before(*u.ResetTokenExpires)
}

// ResetSessionValid reports whether the reset state machine allows a password commit.
// The token must exist, have been verified, and still be inside its window.
func (u User) ResetSessionValid(at time.Time) bool {
	if u.ResetTokenHash == nil || !u.ResetTokenVerified {
		return false
	}
	if u.ResetTokenExpires != nil && at.After(*u.ResetTokenExpires) {
		return false
	}
	return true
}

// ContactEmail returns the email contact or an empty string.
func (u User) ContactEmail() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// ContactPhone returns the phone contact or an empty string.
func (u User) ContactPhone() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

// PrimaryContact returns the preferred delivery address: email when present, phone otherwise.
func (u User) PrimaryContact() (contact, channel string) {
	if email := u.ContactEmail(); email != "" {
		return email, DeliveryEmail
	}
	return u.ContactPhone(), DeliverySMS
}

// Delivery channels for OTP dispatch.
const (
	DeliveryEmail = "email"
	DeliverySMS   = "sms"
)
