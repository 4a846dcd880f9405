package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/infra/logger"
	"github.com/lambojac/mirriora/internal/infra/security"
	"github.com/lambojac/mirriora/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthorized covers every bearer-token failure. Handlers surface a
	// single generic message so callers cannot probe which check failed.
	ErrNotAuthorized = errors.New("not authorized")
)

// AuthService coordinates login and bearer-token authorization.
type AuthService struct {
	users  port.UserRepository
	tokens *security.TokenManager
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, tokens *security.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// TokenTTL exposes the access-token lifetime so the transport layer can align
// cookie expiry with it.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Login validates credentials and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", domain.User{}, fmt.Errorf("identifier is required")
	}
	if password == "" {
		return "", domain.User{}, fmt.Errorf("password is required")
	}

	user, err := resolveByIdentifier(ctx, s.users, identifier)
	if err != nil {
		return "", domain.User{}, err
	}

	if user.IsDeactivated {
		return "", domain.User{}, ErrAccountDeactivated
	}
	if !user.IsVerified {
		return "", domain.User{}, ErrAccountNotVerified
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Warn("login rejected",
			zap.String("user_id", user.ID),
			zap.String("identifier", maskIdentifier(identifier)),
		)
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	sanitized := sanitizeUser(*user)

	return token, sanitized, nil
}

// Authorize validates a bearer token and resolves its subject. Every failure
// collapses into ErrNotAuthorized.
func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotAuthorized
	}

	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrNotAuthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsDeactivated {
		return nil, ErrNotAuthorized
	}

	sanitized := sanitizeUser(*user)

	return &sanitized, nil
}

// resolveByIdentifier looks a user up by email when the identifier is
// email-shaped and by phone otherwise.
func resolveByIdentifier(ctx context.Context, users port.UserRepository, identifier string) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)

	if looksLikeEmail(identifier) {
		user, err = users.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = users.GetByPhone(ctx, normalizePhone(identifier))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

// sanitizeUser strips the password hash and code material before the entity
// crosses the transport boundary.
func sanitizeUser(user domain.User) domain.User {
	user.PasswordHash = ""
	user.VerificationCodeHash = nil
	user.ResetTokenHash = nil
	return user
}

func maskIdentifier(identifier string) string {
	if looksLikeEmail(identifier) {
		return logger.MaskEmail(identifier)
	}
	return logger.MaskPhone(identifier)
}
