package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lambojac/mirriora/internal/core/domain"
)

func TestJournalCreate(t *testing.T) {
	repo := &mockJournalRepository{}
	service := NewJournalService(repo)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service.WithClock(fixedClock(now))

	journal, err := service.Create(context.Background(), "user-1", CreateJournalInput{
		Title:       "  Morning pages  ",
		Description: "slept well",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(repo.created))
	}
	if journal.Title != "Morning pages" {
		t.Fatalf("expected trimmed title, got %q", journal.Title)
	}
	if journal.UserID != "user-1" || journal.ID == "" {
		t.Fatalf("unexpected journal: %+v", journal)
	}
	if journal.Description == nil || *journal.Description != "slept well" {
		t.Fatalf("unexpected description: %v", journal.Description)
	}
	if !journal.CreatedAt.Equal(now) {
		t.Fatalf("unexpected created_at: %v", journal.CreatedAt)
	}
}

func TestJournalCreateRequiresTitle(t *testing.T) {
	service := NewJournalService(&mockJournalRepository{})

	if _, err := service.Create(context.Background(), "user-1", CreateJournalInput{Title: "   "}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestJournalUpdate(t *testing.T) {
	repo := &mockJournalRepository{}
	desc := "old"
	repo.byID = &domain.Journal{ID: "j-1", UserID: "user-1", Title: "Old title", Description: &desc}
	service := NewJournalService(repo)

	newTitle := "New title"
	updated, err := service.Update(context.Background(), "user-1", "j-1", UpdateJournalInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "New title" {
		t.Fatalf("unexpected title: %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "old" {
		t.Fatal("untouched field must survive a partial update")
	}
	if len(repo.updated) != 1 {
		t.Fatal("expected repository update")
	}
}

func TestJournalUpdateUnknown(t *testing.T) {
	service := NewJournalService(&mockJournalRepository{})

	title := "x"
	if _, err := service.Update(context.Background(), "user-1", "ghost", UpdateJournalInput{Title: &title}); !errors.Is(err, ErrJournalNotFound) {
		t.Fatalf("expected ErrJournalNotFound, got %v", err)
	}
}

func TestJournalDelete(t *testing.T) {
	repo := &mockJournalRepository{}
	service := NewJournalService(repo)

	if err := service.Delete(context.Background(), "user-1", "j-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != "j-1" {
		t.Fatalf("unexpected deletes: %v", repo.deletedIDs)
	}

	repo.deleteErr = errors.New("boom")
	if err := service.Delete(context.Background(), "user-1", "j-1"); err == nil {
		t.Fatal("expected error from repository")
	}
}
