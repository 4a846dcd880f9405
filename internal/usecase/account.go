package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/infra/security"
	"github.com/lambojac/mirriora/internal/repository"
)

var (
	// ErrCurrentPasswordRequired indicates the current password must accompany the request.
	ErrCurrentPasswordRequired = errors.New("current password is required")
	// ErrCurrentPasswordInvalid indicates the provided current password is incorrect.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	// ErrNewPasswordInvalid indicates the desired password fails validation (e.g., matches existing).
	ErrNewPasswordInvalid = errors.New("new password is invalid")
)

// ChangePasswordInput captures the payload for an authenticated password change.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// AccountService handles the authenticated account lifecycle: profile reads,
// password changes, and permanent deletion.
type AccountService struct {
	users     port.UserRepository
	publisher port.EventPublisher
	validator *security.PasswordValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(users port.UserRepository, publisher port.EventPublisher, validator *security.PasswordValidator, log *zap.Logger) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		users:     users,
		publisher: publisher,
		validator: validator,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	if now != nil {
		s.now = now
	}
	return s
}

// Profile returns the sanitized account projection.
func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := sanitizeUser(*user)

	return &sanitized, nil
}

// ChangePassword rotates the password after re-verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if input.CurrentPassword == "" {
		return ErrCurrentPasswordRequired
	}
	if input.NewPassword == "" {
		return fmt.Errorf("new password is required")
	}
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.validator.Validate(input.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrNewPasswordInvalid, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	validCurrent, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !validCurrent {
		return ErrCurrentPasswordInvalid
	}

	// The current password is verified above, so a plaintext comparison is
	// enough to reject a no-op rotation.
	if err := security.RequireDifferentFrom(input.CurrentPassword).Validate(input.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrNewPasswordInvalid, err)
	}

	hashed, err := security.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hashed, "argon2id"); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	if s.publisher != nil {
		event := domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			ChangedAt: s.now(),
			Source:    "change",
		}
		if err := s.publisher.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("publish password changed event failed", zap.Error(err))
		}
	}

	return nil
}

// DeleteAccount permanently removes the account after password re-entry.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, password string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if password == "" {
		return ErrCurrentPasswordRequired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.IsDeactivated {
		return ErrAccountDeactivated
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrCurrentPasswordInvalid
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserDeletedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			DeletedAt: s.now(),
		}
		if err := s.publisher.PublishUserDeleted(ctx, event); err != nil {
			s.logger.Warn("publish user deleted event failed", zap.Error(err))
		}
	}

	return nil
}
