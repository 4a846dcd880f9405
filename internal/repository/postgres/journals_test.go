package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/repository"
)

func TestJournalRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewJournalRepository(mock)

	now := time.Now().UTC()
	journal := domain.Journal{
		ID:          "journal-1",
		UserID:      "user-1",
		Title:       "Morning routine",
		Description: strPtr("Felt great today"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO journals`).
		WithArgs(journal.ID, journal.UserID, journal.Title, journal.Description, journal.CreatedAt, journal.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), journal); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJournalRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewJournalRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_id", "title", "description", "created_at", "updated_at"}).
		AddRow("journal-2", "user-1", "Evening", strPtr("Wind down"), now, now).
		AddRow("journal-1", "user-1", "Morning", nil, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .*FROM journals`).WithArgs("user-1").WillReturnRows(rows)

	journals, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(journals) != 2 {
		t.Fatalf("expected 2 journals, got %d", len(journals))
	}
	if journals[1].Description != nil {
		t.Fatalf("expected nil description on second journal")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJournalRepository_UpdateScopedToOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewJournalRepository(mock)

	journal := domain.Journal{
		ID:     "journal-1",
		UserID: "someone-else",
		Title:  "Hijack",
	}

	mock.ExpectExec(`UPDATE journals`).
		WithArgs(journal.Title, nil, journal.ID, journal.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Update(context.Background(), journal)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJournalRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewJournalRepository(mock)

	mock.ExpectExec(`DELETE FROM journals`).
		WithArgs("journal-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "user-1", "journal-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
