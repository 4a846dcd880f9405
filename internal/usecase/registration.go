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
	// ErrContactRequired indicates neither email nor phone was supplied.
	ErrContactRequired = errors.New("email or phone is required")
	// ErrEmailInvalid indicates the supplied email does not look like an address.
	ErrEmailInvalid = errors.New("email is invalid")
	// ErrPhoneInvalid indicates the supplied phone has too few digits.
	ErrPhoneInvalid = errors.New("phone is invalid")
	// ErrContactTaken indicates another account already owns the contact.
	ErrContactTaken = errors.New("account with this contact already exists")
	// ErrAlreadyVerified indicates the account has already completed verification.
	ErrAlreadyVerified = errors.New("account is already verified")
	// ErrOTPInvalid indicates the presented code does not match the stored one.
	ErrOTPInvalid = errors.New("verification code is invalid")
	// ErrOTPExpired indicates the stored code expired before it was presented.
	ErrOTPExpired = errors.New("verification code has expired")
)

const minPhoneDigits = 10

// RegisterInput captures the payload for account creation.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// RegisterOutput reports the created account and whether the code left the
// building. Dispatch failure after the row is committed degrades to success
// with VerificationSent=false so the client can fall back to resend.
type RegisterOutput struct {
	User             domain.User
	VerificationSent bool
}

// RegistrationService owns account creation and the verification code lifecycle.
type RegistrationService struct {
	otp        config.OTPSettings
	users      port.UserRepository
	dispatcher port.NotificationDispatcher
	publisher  port.EventPublisher
	validator  *security.PasswordValidator
	logger     *zap.Logger
	now        func() time.Time
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	otp config.OTPSettings,
	users port.UserRepository,
	dispatcher port.NotificationDispatcher,
	publisher port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
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
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Register validates the payload, persists an unverified account, and
// dispatches a one-time verification code on the contact channel.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if err := s.validator.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordInvalid, err)
	}

	email := normalizeEmail(input.Email)
	phone := normalizePhone(input.Phone)
	if email == "" && phone == "" {
		return nil, ErrContactRequired
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if phone != "" && len(phone) < minPhoneDigits {
		return nil, ErrPhoneInvalid
	}

	if email != "" {
		if err := s.ensureContactFree(ctx, email, ""); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		if err := s.ensureContactFree(ctx, "", phone); err != nil {
			return nil, err
		}
	}

	hashed, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := security.GenerateNumericCode(s.otp.Length)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now()
	expires := now.Add(s.otp.VerificationTTL)
	codeHash := security.HashToken(code)

	user := domain.User{
		ID:                   uuid.NewString(),
		FullName:             fullName,
		Email:                stringPtrOrNil(email),
		Phone:                stringPtrOrNil(phone),
		PasswordHash:         hashed,
		PasswordAlgo:         "argon2id",
		VerificationCodeHash: &codeHash,
		VerificationExpires:  &expires,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the unique index between the
		// pre-check above and this insert.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrContactTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	contact, channel := user.PrimaryContact()

	if score := security.PasswordStrengthScore(input.Password, fullName, email, phone); score < 2 {
		s.logger.Warn("weak password accepted at registration",
			zap.String("user_id", user.ID),
			zap.Int("strength_score", score),
		)
	}

	sent := true
	err = s.dispatcher.SendOTP(ctx, port.OTPNotification{
		Purpose:   port.OTPPurposeVerification,
		Delivery:  channel,
		Contact:   contact,
		FullName:  fullName,
		Code:      code,
		ExpiresAt: expires,
	})
	if err != nil {
		// The account row is already committed; the client retries via resend.
		sent = false
		s.logger.Warn("verification code dispatch failed",
			zap.String("user_id", user.ID),
			zap.String("delivery", channel),
			zap.Error(err),
		)
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			FullName:     fullName,
			Email:        user.Email,
			Phone:        user.Phone,
			RegisteredAt: now,
			Delivery:     channel,
		}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed", zap.Error(err))
		}
	}

	return &RegisterOutput{User: sanitizeUser(user), VerificationSent: sent}, nil
}

// VerifyOTP confirms ownership of the contact channel and activates the account.
func (s *RegistrationService) VerifyOTP(ctx context.Context, identifier, code string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("verification code is required")
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}
	if user.VerificationCodeHash == nil {
		return ErrOTPInvalid
	}
	if user.VerificationExpires == nil || s.now().After(*user.VerificationExpires) {
		return ErrOTPExpired
	}
	if security.HashToken(code) != *user.VerificationCodeHash {
		return ErrOTPInvalid
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("mark verified: %w", err)
	}

	if s.publisher != nil {
		_, channel := user.PrimaryContact()
		event := domain.UserVerifiedEvent{
			EventID:    uuid.NewString(),
			UserID:     user.ID,
			VerifiedAt: s.now(),
			Delivery:   channel,
		}
		if err := s.publisher.PublishUserVerified(ctx, event); err != nil {
			s.logger.Warn("publish user verified event failed", zap.Error(err))
		}
	}

	return nil
}

// ResendVerificationOTP issues a fresh code unless an unexpired one is still
// outstanding, in which case the caller must wait out the remaining window.
func (s *RegistrationService) ResendVerificationOTP(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("identifier is required")
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	now := s.now()
	if user.HasOutstandingVerification(now) {
		return &RateLimitedError{
			Scope:      "verification resend",
			RetryAfter: user.VerificationExpires.Sub(now),
		}
	}

	code, err := security.GenerateNumericCode(s.otp.Length)
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	expires := now.Add(s.otp.VerificationTTL)
	if err := s.users.SetVerificationCode(ctx, user.ID, security.HashToken(code), expires); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("store verification code: %w", err)
	}

	contact, channel := user.PrimaryContact()
	err = s.dispatcher.SendOTP(ctx, port.OTPNotification{
		Purpose:   port.OTPPurposeVerification,
		Delivery:  channel,
		Contact:   contact,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: expires,
	})
	if err != nil {
		return fmt.Errorf("dispatch verification code: %w", err)
	}

	return nil
}

func (s *RegistrationService) ensureContactFree(ctx context.Context, email, phone string) error {
	var err error
	if email != "" {
		_, err = s.users.GetByEmail(ctx, email)
	} else {
		_, err = s.users.GetByPhone(ctx, phone)
	}
	if err == nil {
		return ErrContactTaken
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("check contact: %w", err)
}
