package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/repository"
)

// ErrJournalNotFound indicates no journal entry matches the id for this user.
var ErrJournalNotFound = errors.New("journal not found")

// CreateJournalInput captures the payload for a new journal entry.
type CreateJournalInput struct {
	Title       string
	Description string
}

// UpdateJournalInput carries a partial journal update; nil fields are untouched.
type UpdateJournalInput struct {
	Title       *string
	Description *string
}

// JournalService owns the journal entry lifecycle. All operations are scoped
// by the owning user.
type JournalService struct {
	journals port.JournalRepository
	now      func() time.Time
}

// NewJournalService constructs a JournalService.
func NewJournalService(journals port.JournalRepository) *JournalService {
	return &JournalService{
		journals: journals,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *JournalService) WithClock(now func() time.Time) *JournalService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create persists a new journal entry for the user.
func (s *JournalService) Create(ctx context.Context, userID string, input CreateJournalInput) (*domain.Journal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := s.now()
	journal := domain.Journal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: stringPtrOrNil(strings.TrimSpace(input.Description)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.journals.Create(ctx, journal); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	return &journal, nil
}

// Get returns a single entry owned by the user.
func (s *JournalService) Get(ctx context.Context, userID, id string) (*domain.Journal, error) {
	journal, err := s.journals.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return journal, nil
}

// List returns all entries owned by the user, newest first.
func (s *JournalService) List(ctx context.Context, userID string) ([]domain.Journal, error) {
	journals, err := s.journals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return journals, nil
}

// Update applies a partial update to an entry owned by the user.
func (s *JournalService) Update(ctx context.Context, userID, id string, input UpdateJournalInput) (*domain.Journal, error) {
	journal, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title is required")
		}
		journal.Title = title
	}
	if input.Description != nil {
		journal.Description = stringPtrOrNil(strings.TrimSpace(*input.Description))
	}
	journal.UpdatedAt = s.now()

	if err := s.journals.Update(ctx, *journal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, fmt.Errorf("update journal: %w", err)
	}

	return journal, nil
}

// Delete removes an entry owned by the user.
func (s *JournalService) Delete(ctx context.Context, userID, id string) error {
	if err := s.journals.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJournalNotFound
		}
		return fmt.Errorf("delete journal: %w", err)
	}
	return nil
}
