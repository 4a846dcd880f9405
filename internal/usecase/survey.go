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
	// ErrQuestionNotFound indicates the survey question does not exist.
	ErrQuestionNotFound = errors.New("survey question not found")
	// ErrAnswerExists indicates the user already answered this question.
	ErrAnswerExists = errors.New("question already answered")
	// ErrSurveyComplete indicates the user has no unanswered questions left.
	ErrSurveyComplete = errors.New("survey complete")
)

// SurveyService serves onboarding questions and records per-user answers.
type SurveyService struct {
	surveys port.SurveyRepository
	now     func() time.Time
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(surveys port.SurveyRepository) *SurveyService {
	return &SurveyService{
		surveys: surveys,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *SurveyService) WithClock(now func() time.Time) *SurveyService {
	if now != nil {
		s.now = now
	}
	return s
}

// Questions returns every question in display order.
func (s *SurveyService) Questions(ctx context.Context) ([]domain.SurveyQuestion, error) {
	questions, err := s.surveys.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Unanswered returns the questions the user has not answered yet, in order.
func (s *SurveyService) Unanswered(ctx context.Context, userID string) ([]domain.SurveyQuestion, error) {
	questions, err := s.surveys.ListUnanswered(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unanswered questions: %w", err)
	}
	return questions, nil
}

// NextQuestion returns the lowest-ordered unanswered question, or
// ErrSurveyComplete when every question has an answer.
func (s *SurveyService) NextQuestion(ctx context.Context, userID string) (*domain.SurveyQuestion, error) {
	questions, err := s.surveys.ListUnanswered(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unanswered questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrSurveyComplete
	}
	return &questions[0], nil
}

// Answers returns the user's answers joined with their questions.
func (s *SurveyService) Answers(ctx context.Context, userID string) ([]domain.SurveyAnswer, error) {
	answers, err := s.surveys.ListAnswers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// SubmitAnswer records a single answer. A question can only be answered once.
func (s *SurveyService) SubmitAnswer(ctx context.Context, userID, questionID, answer string) (*domain.SurveyAnswer, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("answer is required")
	}
	if questionID == "" {
		return nil, fmt.Errorf("question id is required")
	}

	if err := s.ensureQuestionExists(ctx, questionID); err != nil {
		return nil, err
	}

	_, err := s.surveys.GetAnswer(ctx, userID, questionID)
	if err == nil {
		return nil, ErrAnswerExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing answer: %w", err)
	}

	record := domain.SurveyAnswer{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: questionID,
		Answer:     answer,
		CreatedAt:  s.now(),
	}

	if err := s.surveys.CreateAnswer(ctx, record); err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	return &record, nil
}

func (s *SurveyService) ensureQuestionExists(ctx context.Context, questionID string) error {
	questions, err := s.surveys.ListQuestions(ctx)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	for _, q := range questions {
		if q.ID == questionID {
			return nil
		}
	}
	return ErrQuestionNotFound
}
