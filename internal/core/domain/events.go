package domain

import "time"

// UserRegisteredEvent is emitted after a new unverified account is persisted.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	FullName     string
	Email        *string
	Phone        *string
	RegisteredAt time.Time
	Delivery     string
	Metadata     map[string]any
}

// UserVerifiedEvent is emitted when an account completes OTP verification.
type UserVerifiedEvent struct {
	EventID    string
	UserID     string
	VerifiedAt time.Time
	Delivery   string
}

// PasswordResetRequestedEvent is emitted when a reset OTP is generated.
type PasswordResetRequestedEvent struct {
	EventID           string
	UserID            string
	RequestedAt       time.Time
	DeliveryMethod    string
	MaskedDestination string
	ExpiresAt         time.Time
	Metadata          map[string]any
}

// PasswordChangedEvent is emitted after any successful password update
// (reset commit or authenticated change).
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
	Source    string
	Metadata  map[string]any
}

// UserDeletedEvent is emitted after permanent account deletion.
type UserDeletedEvent struct {
	EventID   string
	UserID    string
	DeletedAt time.Time
}
