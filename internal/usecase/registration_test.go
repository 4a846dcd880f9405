package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/infra/config"
	"github.com/lambojac/mirriora/internal/infra/security"
	"github.com/lambojac/mirriora/internal/repository"
)

var testOTPSettings = config.OTPSettings{
	Length:          6,
	VerificationTTL: 10 * time.Minute,
	ResetTTL:        10 * time.Minute,
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func newRegistrationFixture() (*RegistrationService, *mockUserRepository, *mockDispatcher, *mockPublisher) {
	users := &mockUserRepository{}
	dispatcher := &mockDispatcher{}
	publisher := &mockPublisher{}
	service := NewRegistrationService(testOTPSettings, users, dispatcher, publisher, nil, nil)
	return service, users, dispatcher, publisher
}

func TestRegisterPersistsHashedCodeAndDispatches(t *testing.T) {
	service, users, dispatcher, publisher := newRegistrationFixture()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service.WithClock(fixedClock(now))

	out, err := service.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "Jane@Example.COM",
		Password: "orange-tree-42",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if users.createCalls != 1 {
		t.Fatalf("expected 1 create, got %d", users.createCalls)
	}
	created := users.createdUser
	if created.Email == nil || *created.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %v", created.Email)
	}
	if created.IsVerified {
		t.Fatal("new account must start unverified")
	}
	if created.PasswordHash == "" || created.PasswordHash == "orange-tree-42" {
		t.Fatal("password must be stored hashed")
	}

	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(dispatcher.sent))
	}
	sent := dispatcher.sent[0]
	if sent.Delivery != domain.DeliveryEmail {
		t.Fatalf("unexpected delivery channel: %s", sent.Delivery)
	}
	if len(sent.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sent.Code)
	}
	if created.VerificationCodeHash == nil || *created.VerificationCodeHash != security.HashToken(sent.Code) {
		t.Fatal("stored code hash does not match dispatched code")
	}
	if created.VerificationExpires == nil || !created.VerificationExpires.Equal(now.Add(10*time.Minute)) {
		t.Fatalf("unexpected code expiry: %v", created.VerificationExpires)
	}

	if !out.VerificationSent {
		t.Fatal("expected VerificationSent=true")
	}
	if out.User.PasswordHash != "" || out.User.VerificationCodeHash != nil {
		t.Fatal("output user must be sanitized")
	}
	if len(publisher.registered) != 1 {
		t.Fatalf("expected registered event, got %d", len(publisher.registered))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, users, _, _ := newRegistrationFixture()
	existing := "existing"
	users.byEmail = &domain.User{ID: existing}

	_, err := service.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "orange-tree-42",
	})
	if !errors.Is(err, ErrContactTaken) {
		t.Fatalf("expected ErrContactTaken, got %v", err)
	}
	if users.createCalls != 0 {
		t.Fatal("create must not run on duplicate contact")
	}
}

func TestRegisterConcurrentDuplicateContact(t *testing.T) {
	service, users, _, _ := newRegistrationFixture()
	// The pre-check passes but the insert loses the race on the unique index.
	users.createErr = fmt.Errorf("insert user: %w", repository.ErrConflict)

	_, err := service.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "orange-tree-42",
	})
	if !errors.Is(err, ErrContactTaken) {
		t.Fatalf("expected ErrContactTaken, got %v", err)
	}
	if users.createCalls != 1 {
		t.Fatalf("expected create to be attempted once, got %d", users.createCalls)
	}
}

func TestRegisterValidation(t *testing.T) {
	service, _, _, _ := newRegistrationFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{FullName: "Jane", Password: "orange-tree-42"}); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("expected ErrContactRequired, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{FullName: "Jane", Email: "not-an-email", Password: "orange-tree-42"}); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("expected ErrEmailInvalid, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{FullName: "Jane", Phone: "555-1234", Password: "orange-tree-42"}); !errors.Is(err, ErrPhoneInvalid) {
		t.Fatalf("expected ErrPhoneInvalid, got %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{FullName: "Jane", Email: "jane@example.com", Password: "tiny"}); !errors.Is(err, ErrPasswordInvalid) {
		t.Fatalf("expected ErrPasswordInvalid, got %v", err)
	}
}

func TestRegisterDegradesWhenDispatchFails(t *testing.T) {
	service, users, dispatcher, _ := newRegistrationFixture()
	dispatcher.err = errors.New("smtp down")

	out, err := service.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "orange-tree-42",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if out.VerificationSent {
		t.Fatal("expected VerificationSent=false when dispatch fails")
	}
	if users.createCalls != 1 {
		t.Fatal("account must still be persisted")
	}
}

func TestVerifyOTP(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := "123456"
	codeHash := security.HashToken(code)
	expires := now.Add(5 * time.Minute)
	email := "jane@example.com"

	base := domain.User{
		ID:                   "user-1",
		Email:                &email,
		VerificationCodeHash: &codeHash,
		VerificationExpires:  &expires,
	}

	t.Run("success", func(t *testing.T) {
		service, users, _, publisher := newRegistrationFixture()
		service.WithClock(fixedClock(now))
		user := base
		users.byEmail = &user

		if err := service.VerifyOTP(context.Background(), email, code); err != nil {
			t.Fatalf("VerifyOTP returned error: %v", err)
		}
		if users.markVerifiedCalls != 1 || users.markVerifiedID != "user-1" {
			t.Fatal("expected MarkVerified for user-1")
		}
		if len(publisher.verified) != 1 {
			t.Fatalf("expected verified event, got %d", len(publisher.verified))
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		service, users, _, _ := newRegistrationFixture()
		service.WithClock(fixedClock(now))
		user := base
		users.byEmail = &user

		if err := service.VerifyOTP(context.Background(), email, "654321"); !errors.Is(err, ErrOTPInvalid) {
			t.Fatalf("expected ErrOTPInvalid, got %v", err)
		}
		if users.markVerifiedCalls != 0 {
			t.Fatal("MarkVerified must not run on mismatch")
		}
	})

	t.Run("expired", func(t *testing.T) {
		service, users, _, _ := newRegistrationFixture()
		service.WithClock(fixedClock(now.Add(6 * time.Minute)))
		user := base
		users.byEmail = &user

		if err := service.VerifyOTP(context.Background(), email, code); !errors.Is(err, ErrOTPExpired) {
			t.Fatalf("expected ErrOTPExpired, got %v", err)
		}
	})

	t.Run("already verified", func(t *testing.T) {
		service, users, _, _ := newRegistrationFixture()
		user := base
		user.IsVerified = true
		users.byEmail = &user

		if err := service.VerifyOTP(context.Background(), email, code); !errors.Is(err, ErrAlreadyVerified) {
			t.Fatalf("expected ErrAlreadyVerified, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		service, _, _, _ := newRegistrationFixture()

		if err := service.VerifyOTP(context.Background(), email, code); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestResendVerificationOTP(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	email := "jane@example.com"

	t.Run("rate limited while code outstanding", func(t *testing.T) {
		service, users, _, _ := newRegistrationFixture()
		service.WithClock(fixedClock(now))

		codeHash := security.HashToken("123456")
		expires := now.Add(3*time.Minute + 30*time.Second)
		users.byEmail = &domain.User{
			ID:                   "user-1",
			Email:                &email,
			VerificationCodeHash: &codeHash,
			VerificationExpires:  &expires,
		}

		err := service.ResendVerificationOTP(context.Background(), email)
		var rateErr *RateLimitedError
		if !errors.As(err, &rateErr) {
			t.Fatalf("expected RateLimitedError, got %v", err)
		}
		if rateErr.RetryAfterMinutes() != 4 {
			t.Fatalf("expected 4 minute retry, got %d", rateErr.RetryAfterMinutes())
		}
	})

	t.Run("issues fresh code after expiry", func(t *testing.T) {
		service, users, dispatcher, _ := newRegistrationFixture()
		service.WithClock(fixedClock(now))

		codeHash := security.HashToken("123456")
		expires := now.Add(-1 * time.Minute)
		users.byEmail = &domain.User{
			ID:                   "user-1",
			Email:                &email,
			VerificationCodeHash: &codeHash,
			VerificationExpires:  &expires,
		}

		if err := service.ResendVerificationOTP(context.Background(), email); err != nil {
			t.Fatalf("ResendVerificationOTP returned error: %v", err)
		}
		if users.setVerificationCalls != 1 {
			t.Fatal("expected SetVerificationCode call")
		}
		if len(dispatcher.sent) != 1 {
			t.Fatal("expected dispatch of fresh code")
		}
		if users.setVerificationHash != security.HashToken(dispatcher.sent[0].Code) {
			t.Fatal("stored hash does not match dispatched code")
		}
	})

	t.Run("dispatch failure is fatal", func(t *testing.T) {
		service, users, dispatcher, _ := newRegistrationFixture()
		service.WithClock(fixedClock(now))
		dispatcher.err = errors.New("smtp down")
		users.byEmail = &domain.User{ID: "user-1", Email: &email}

		if err := service.ResendVerificationOTP(context.Background(), email); err == nil {
			t.Fatal("expected error when dispatch fails")
		}
	})

	t.Run("already verified", func(t *testing.T) {
		service, users, _, _ := newRegistrationFixture()
		users.byEmail = &domain.User{ID: "user-1", Email: &email, IsVerified: true}

		if err := service.ResendVerificationOTP(context.Background(), email); !errors.Is(err, ErrAlreadyVerified) {
			t.Fatalf("expected ErrAlreadyVerified, got %v", err)
		}
	})
}
