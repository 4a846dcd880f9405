package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/lambojac/mirriora/internal/infra/security"
)

func newAccountFixture() (*AccountService, *mockUserRepository, *mockPublisher) {
	users := &mockUserRepository{}
	publisher := &mockPublisher{}
	return NewAccountService(users, publisher, nil, nil), users, publisher
}

func TestProfileSanitizes(t *testing.T) {
	service, users, _ := newAccountFixture()
	user := verifiedUser(t, "orange-tree-42")
	hash := security.HashToken("123456")
	user.VerificationCodeHash = &hash
	user.ResetTokenHash = &hash
	users.byID = &user

	got, err := service.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if got.PasswordHash != "" || got.VerificationCodeHash != nil || got.ResetTokenHash != nil {
		t.Fatal("profile must not expose credential material")
	}
	if got.FullName != "Jane Doe" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestProfileUnknownUser(t *testing.T) {
	service, _, _ := newAccountFixture()

	if _, err := service.Profile(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, users, publisher := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		users.byID = &user

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			CurrentPassword: "orange-tree-42",
			NewPassword:     "fresh-password-9",
			ConfirmPassword: "fresh-password-9",
		})
		if err != nil {
			t.Fatalf("ChangePassword returned error: %v", err)
		}
		if users.updatePasswordCalls != 1 {
			t.Fatal("expected UpdatePassword call")
		}
		ok, err := security.VerifyPassword("fresh-password-9", users.updatePasswordHash)
		if err != nil || !ok {
			t.Fatal("stored hash must verify against the new password")
		}
		if len(publisher.changed) != 1 || publisher.changed[0].Source != "change" {
			t.Fatalf("expected password changed event with source change, got %+v", publisher.changed)
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		service, users, _ := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		users.byID = &user

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			CurrentPassword: "wrong-password",
			NewPassword:     "fresh-password-9",
			ConfirmPassword: "fresh-password-9",
		})
		if !errors.Is(err, ErrCurrentPasswordInvalid) {
			t.Fatalf("expected ErrCurrentPasswordInvalid, got %v", err)
		}
	})

	t.Run("missing current password", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			NewPassword:     "fresh-password-9",
			ConfirmPassword: "fresh-password-9",
		})
		if !errors.Is(err, ErrCurrentPasswordRequired) {
			t.Fatalf("expected ErrCurrentPasswordRequired, got %v", err)
		}
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			CurrentPassword: "orange-tree-42",
			NewPassword:     "fresh-password-9",
			ConfirmPassword: "other-password-9",
		})
		if !errors.Is(err, ErrPasswordMismatch) {
			t.Fatalf("expected ErrPasswordMismatch, got %v", err)
		}
	})

	t.Run("new password equals current", func(t *testing.T) {
		service, users, _ := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		users.byID = &user

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			CurrentPassword: "orange-tree-42",
			NewPassword:     "orange-tree-42",
			ConfirmPassword: "orange-tree-42",
		})
		if !errors.Is(err, ErrNewPasswordInvalid) {
			t.Fatalf("expected ErrNewPasswordInvalid, got %v", err)
		}
	})

	t.Run("short new password", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		err := service.ChangePassword(context.Background(), "user-1", ChangePasswordInput{
			CurrentPassword: "orange-tree-42",
			NewPassword:     "tiny",
			ConfirmPassword: "tiny",
		})
		if !errors.Is(err, ErrNewPasswordInvalid) {
			t.Fatalf("expected ErrNewPasswordInvalid, got %v", err)
		}
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, users, publisher := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		users.byID = &user

		if err := service.DeleteAccount(context.Background(), "user-1", "orange-tree-42"); err != nil {
			t.Fatalf("DeleteAccount returned error: %v", err)
		}
		if users.deleteCalls != 1 || users.deleteID != "user-1" {
			t.Fatal("expected Delete for user-1")
		}
		if len(publisher.deleted) != 1 {
			t.Fatalf("expected user deleted event, got %d", len(publisher.deleted))
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		service, users, _ := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		users.byID = &user

		if err := service.DeleteAccount(context.Background(), "user-1", "wrong-password"); !errors.Is(err, ErrCurrentPasswordInvalid) {
			t.Fatalf("expected ErrCurrentPasswordInvalid, got %v", err)
		}
		if users.deleteCalls != 0 {
			t.Fatal("Delete must not run on wrong password")
		}
	})

	t.Run("deactivated", func(t *testing.T) {
		service, users, _ := newAccountFixture()
		user := verifiedUser(t, "orange-tree-42")
		user.IsDeactivated = true
		users.byID = &user

		if err := service.DeleteAccount(context.Background(), "user-1", "orange-tree-42"); !errors.Is(err, ErrAccountDeactivated) {
			t.Fatalf("expected ErrAccountDeactivated, got %v", err)
		}
	})

	t.Run("missing password", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		if err := service.DeleteAccount(context.Background(), "user-1", ""); !errors.Is(err, ErrCurrentPasswordRequired) {
			t.Fatalf("expected ErrCurrentPasswordRequired, got %v", err)
		}
	})
}
