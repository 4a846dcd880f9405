package port

import (
	"context"
	"time"

	"github.com/lambojac/mirriora/internal/core/domain"
)

// UserRepository owns persistence of user records. Flow services never touch
// storage directly; every lookup and mutation goes through these operations.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// GetByResetTokenHash resolves the user holding an outstanding reset OTP.
	// Used by the legacy, identifier-less verify path.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)

	// SetVerificationCode stores a fresh verification OTP hash and expiry.
	SetVerificationCode(ctx context.Context, id, codeHash string, expires time.Time) error

	// MarkVerified flips is_verified and clears the verification fields.
	MarkVerified(ctx context.Context, id string) error

	// SetResetToken stores a fresh reset OTP hash and expiry and resets the
	// verified flag.
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error

	// MarkResetVerified records that the reset OTP was presented successfully.
	MarkResetVerified(ctx context.Context, id string) error

	// CommitPassword stores a new password hash and clears all reset fields
	// in a single statement.
	CommitPassword(ctx context.Context, id, passwordHash, passwordAlgo string) error

	// UpdatePassword stores a new password hash without touching reset state.
	UpdatePassword(ctx context.Context, id, passwordHash, passwordAlgo string) error

	Delete(ctx context.Context, id string) error
}
