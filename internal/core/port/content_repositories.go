package port

import (
	"context"

	"github.com/lambojac/mirriora/internal/core/domain"
)

// JournalRepository owns persistence of journal entries. All operations are
// scoped by the owning user id.
type JournalRepository interface {
	Create(ctx context.Context, journal domain.Journal) error
	GetByID(ctx context.Context, userID, id string) (*domain.Journal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Journal, error)
	Update(ctx context.Context, journal domain.Journal) error
	Delete(ctx context.Context, userID, id string) error
}

// ChallengeRepository owns persistence of challenges and their task lists.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge domain.Challenge) error
	GetByID(ctx context.Context, userID, id string) (*domain.Challenge, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Challenge, error)
	UpdateTasks(ctx context.Context, userID, id string, tasks []domain.ChallengeTask) error
	UpdatePersonalNote(ctx context.Context, userID, id, note string) error
	Delete(ctx context.Context, userID, id string) error
}

// SurveyRepository owns survey questions and per-user answers.
type SurveyRepository interface {
	ListQuestions(ctx context.Context) ([]domain.SurveyQuestion, error)
	ListUnanswered(ctx context.Context, userID string) ([]domain.SurveyQuestion, error)
	ListAnswers(ctx context.Context, userID string) ([]domain.SurveyAnswer, error)
	GetAnswer(ctx context.Context, userID, questionID string) (*domain.SurveyAnswer, error)
	CreateAnswer(ctx context.Context, answer domain.SurveyAnswer) error
}

// ScanRepository owns scan metadata rows.
type ScanRepository interface {
	Create(ctx context.Context, scan domain.Scan) error
	GetByID(ctx context.Context, userID, id string) (*domain.Scan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Scan, error)
	Delete(ctx context.Context, userID, id string) error
}
