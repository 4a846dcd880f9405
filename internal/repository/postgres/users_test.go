package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	user := domain.User{
		ID:           "user-123",
		FullName:     "Ada Lovelace",
		Email:        strPtr("ada@example.com"),
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=2$salt$hash",
		PasswordAlgo: "argon2id",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			user.ID,
			user.FullName,
			user.Email,
			nil,
			user.PasswordHash,
			user.PasswordAlgo,
			false,
			false,
			nil,
			nil,
			nil,
			nil,
			false,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicateContact(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	user := domain.User{
		ID:           "user-456",
		FullName:     "Grace Hopper",
		Email:        strPtr("grace@example.com"),
		PasswordHash: "hash",
		PasswordAlgo: "argon2id",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(
			user.ID,
			user.FullName,
			user.Email,
			nil,
			user.PasswordHash,
			user.PasswordAlgo,
			false,
			false,
			nil,
			nil,
			nil,
			nil,
			false,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})

	err = repo.Create(context.Background(), user)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for unique violation, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	expires := now.Add(10 * time.Minute)

	rows := pgxmock.NewRows(userColumns).AddRow(
		"user-1", "Ada Lovelace", strPtr("ada@example.com"), nil,
		"hash", "argon2id", true, false,
		strPtr("code-hash"), &expires, nil, nil, false,
		now, now,
	)

	mock.ExpectQuery(`SELECT .*FROM users`).WithArgs("ada@example.com").WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", user.ID)
	}
	if user.Email == nil || *user.Email != "ada@example.com" {
		t.Fatalf("expected email populated")
	}
	if !user.HasOutstandingVerification(now) {
		t.Fatalf("expected outstanding verification")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM users`).
		WithArgs("+15550001111").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err = repo.GetByPhone(context.Background(), "+15550001111")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_MarkVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(true, nil, nil, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkVerified(context.Background(), "user-1"); err != nil {
		t.Fatalf("MarkVerified returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CommitPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("new-hash", "argon2id", nil, nil, false, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.CommitPassword(context.Background(), "user-1", "new-hash", "argon2id"); err != nil {
		t.Fatalf("CommitPassword returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_DeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
