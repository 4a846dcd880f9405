package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/infra/config"
	"github.com/lambojac/mirriora/internal/infra/security"
	"github.com/lambojac/mirriora/internal/repository"
)

var (
	// ErrResetOTPExpired covers both an expired reset code and a code that
	// matches no outstanding request. Collapsed so callers cannot distinguish.
	ErrResetOTPExpired = errors.New("reset code is expired or invalid")
	// ErrResetSessionInvalid indicates a commit arrived without a verified,
	// unexpired reset in flight.
	ErrResetSessionInvalid = errors.New("reset session is invalid or expired")
)

// ResetVerification identifies the account whose reset code was accepted.
type ResetVerification struct {
	UserID     string
	Identifier string
}

// CommitResetInput carries the final step of the reset state machine.
type CommitResetInput struct {
	Identifier      string
	NewPassword     string
	ConfirmPassword string
}

// PasswordResetService drives the three-step reset state machine:
// request stores a hashed code, verify flips the verified flag, commit writes
// the new hash and clears all reset fields in one statement.
type PasswordResetService struct {
	otp        config.OTPSettings
	users      port.UserRepository
	dispatcher port.NotificationDispatcher
	publisher  port.EventPublisher
	validator  *security.PasswordValidator
	logger     *zap.Logger
	now        func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	otp config.OTPSettings,
	users port.UserRepository,
	dispatcher port.NotificationDispatcher,
	publisher port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		otp:        otp,
		users:      users,
		dispatcher: dispatcher,
		publisher:  publisher,
		validator:  validator,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	if now != nil {
		s.now = now
	}
	return s
}

// RequestReset stores a fresh hashed reset code for the account and dispatches
// it on the contact channel. Returns the masked destination for the response.
func (s *PasswordResetService) RequestReset(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", fmt.Errorf("identifier is required")
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return "", err
	}

	if user.IsDeactivated {
		return "", ErrAccountDeactivated
	}
	if !user.IsVerified {
		return "", ErrAccountNotVerified
	}

	code, expires, err := s.issueResetCode(ctx, user)
	if err != nil {
		return "", err
	}

	contact, channel := user.PrimaryContact()
	masked := maskIdentifier(contact)

	err = s.dispatcher.SendOTP(ctx, port.OTPNotification{
		Purpose:   port.OTPPurposePasswordReset,
		Delivery:  channel,
		Contact:   contact,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: expires,
	})
	if err != nil {
		return "", fmt.Errorf("dispatch reset code: %w", err)
	}

	if s.publisher != nil {
		event := domain.PasswordResetRequestedEvent{
			EventID:           uuid.NewString(),
			UserID:            user.ID,
			RequestedAt:       s.now(),
			DeliveryMethod:    channel,
			MaskedDestination: masked,
			ExpiresAt:         expires,
		}
		if err := s.publisher.PublishPasswordResetRequested(ctx, event); err != nil {
			s.logger.Warn("publish reset requested event failed", zap.Error(err))
		}
	}

	return masked, nil
}

// VerifyResetOTP checks the presented code and marks the reset session
// verified. When the identifier is supplied the lookup is scoped to that
// account; otherwise the code hash alone resolves the user, which keeps older
// clients working.
func (s *PasswordResetService) VerifyResetOTP(ctx context.Context, identifier, code string) (*ResetVerification, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("reset code is required")
	}

	codeHash := security.HashToken(code)

	var (
		user *domain.User
		err  error
	)

	identifier = strings.TrimSpace(identifier)
	if identifier != "" {
		user, err = resolveByIdentifier(ctx, s.users, identifier)
		if err != nil {
			return nil, err
		}
		if user.ResetTokenHash == nil || *user.ResetTokenHash != codeHash {
			return nil, ErrResetOTPExpired
		}
	} else {
		user, err = s.users.GetByResetTokenHash(ctx, codeHash)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrResetOTPExpired
			}
			return nil, fmt.Errorf("lookup reset code: %w", err)
		}
	}

	if user.ResetTokenExpires == nil || s.now().After(*user.ResetTokenExpires) {
		return nil, ErrResetOTPExpired
	}

	if err := s.users.MarkResetVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("mark reset verified: %w", err)
	}

	contact, _ := user.PrimaryContact()

	return &ResetVerification{UserID: user.ID, Identifier: contact}, nil
}

// CommitReset finalizes the state machine: validates the new password,
// re-checks the verified window, and swaps the hash while clearing all reset
// fields in a single update.
func (s *PasswordResetService) CommitReset(ctx context.Context, input CommitResetInput) error {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	if input.NewPassword == "" {
		return fmt.Errorf("new password is required")
	}
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.validator.Validate(input.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordInvalid, err)
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return err
	}

	if !user.ResetSessionValid(s.now()) {
		return ErrResetSessionInvalid
	}

	hashed, err := security.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.CommitPassword(ctx, user.ID, hashed, "argon2id"); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("commit password: %w", err)
	}

	if s.publisher != nil {
		event := domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			ChangedAt: s.now(),
			Source:    "reset",
		}
		if err := s.publisher.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("publish password changed event failed", zap.Error(err))
		}
	}

	return nil
}

// ResendResetOTP issues a fresh reset code unless an unexpired one is still
// outstanding.
func (s *PasswordResetService) ResendResetOTP(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("identifier is required")
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return err
	}

	if user.IsDeactivated {
		return ErrAccountDeactivated
	}
	if !user.IsVerified {
		return ErrAccountNotVerified
	}

	now := s.now()
	if user.HasOutstandingReset(now) {
		return &RateLimitedError{
			Scope:      "reset resend",
			RetryAfter: user.ResetTokenExpires.Sub(now),
		}
	}

	code, expires, err := s.issueResetCode(ctx, user)
	if err != nil {
		return err
	}

	contact, channel := user.PrimaryContact()
	err = s.dispatcher.SendOTP(ctx, port.OTPNotification{
		Purpose:   port.OTPPurposePasswordReset,
		Delivery:  channel,
		Contact:   contact,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: expires,
	})
	if err != nil {
		return fmt.Errorf("dispatch reset code: %w", err)
	}

	return nil
}

func (s *PasswordResetService) issueResetCode(ctx context.Context, user *domain.User) (string, time.Time, error) {
	code, err := security.GenerateNumericCode(s.otp.Length)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate reset code: %w", err)
	}

	expires := s.now().Add(s.otp.ResetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, security.HashToken(code), expires); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, fmt.Errorf("store reset code: %w", err)
	}

	return code, expires, nil
}
