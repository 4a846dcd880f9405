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

var (
	// ErrChallengeNotFound indicates no challenge matches the id for this user.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrTaskIndexOutOfRange indicates the task position does not exist.
	ErrTaskIndexOutOfRange = errors.New("task index out of range")
)

// CreateChallengeInput captures the payload for a new challenge.
type CreateChallengeInput struct {
	Title       string
	Description string
	Tasks       []domain.ChallengeTask
	ScanResult  []map[string]any
}

// ChallengeService owns challenges and their task lists.
type ChallengeService struct {
	challenges port.ChallengeRepository
	now        func() time.Time
}

// NewChallengeService constructs a ChallengeService.
func NewChallengeService(challenges port.ChallengeRepository) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *ChallengeService) WithClock(now func() time.Time) *ChallengeService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create persists a new challenge for the user.
func (s *ChallengeService) Create(ctx context.Context, userID string, input CreateChallengeInput) (*domain.Challenge, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	tasks := input.Tasks
	if tasks == nil {
		tasks = []domain.ChallengeTask{}
	}

	now := s.now()
	challenge := domain.Challenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Tasks:       tasks,
		ScanResult:  input.ScanResult,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	return &challenge, nil
}

// Get returns a single challenge owned by the user.
func (s *ChallengeService) Get(ctx context.Context, userID, id string) (*domain.Challenge, error) {
	challenge, err := s.challenges.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return challenge, nil
}

// List returns all challenges owned by the user, newest first.
func (s *ChallengeService) List(ctx context.Context, userID string) ([]domain.Challenge, error) {
	challenges, err := s.challenges.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

// CompleteTask marks the task at the given position complete.
func (s *ChallengeService) CompleteTask(ctx context.Context, userID, id string, index int) (*domain.Challenge, error) {
	challenge, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(challenge.Tasks) {
		return nil, ErrTaskIndexOutOfRange
	}
	challenge.Tasks[index].Complete = true

	if err := s.challenges.UpdateTasks(ctx, userID, id, challenge.Tasks); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("update tasks: %w", err)
	}

	return challenge, nil
}

// DeleteTask removes the task at the given position.
func (s *ChallengeService) DeleteTask(ctx context.Context, userID, id string, index int) (*domain.Challenge, error) {
	challenge, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(challenge.Tasks) {
		return nil, ErrTaskIndexOutOfRange
	}
	challenge.Tasks = append(challenge.Tasks[:index], challenge.Tasks[index+1:]...)

	if err := s.challenges.UpdateTasks(ctx, userID, id, challenge.Tasks); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("update tasks: %w", err)
	}

	return challenge, nil
}

// UpdateNote replaces the personal note on the challenge.
func (s *ChallengeService) UpdateNote(ctx context.Context, userID, id, note string) error {
	if err := s.challenges.UpdatePersonalNote(ctx, userID, id, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// Delete removes a challenge owned by the user.
func (s *ChallengeService) Delete(ctx context.Context, userID, id string) error {
	if err := s.challenges.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
