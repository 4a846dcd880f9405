package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/repository"
)

// SurveyRepository implements port.SurveyRepository using PostgreSQL.
type SurveyRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSurveyRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewSurveyRepository(exec pgExecutor) *SurveyRepository {
	return &SurveyRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListQuestions returns all survey questions in presentation order.
func (r *SurveyRepository) ListQuestions(ctx context.Context) ([]domain.SurveyQuestion, error) {
	stmt, args, err := r.builder.
		Select("id", "question_text", "options", "order_number").
		From("survey_questions").
		OrderBy("order_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list questions sql: %w", err)
	}

	return r.queryQuestions(ctx, stmt, args)
}

// ListUnanswered returns questions the user has not answered yet, in presentation order.
func (r *SurveyRepository) ListUnanswered(ctx context.Context, userID string) ([]domain.SurveyQuestion, error) {
	stmt := `
		SELECT q.id, q.question_text, q.options, q.order_number
		  FROM survey_questions q
		 WHERE NOT EXISTS (
				SELECT 1
				  FROM survey_answers a
				 WHERE a.question_id = q.id
				   AND a.user_id = $1
		   )
		 ORDER BY q.order_number ASC
	`

	return r.queryQuestions(ctx, stmt, []any{userID})
}

func (r *SurveyRepository) queryQuestions(ctx context.Context, stmt string, args []any) ([]domain.SurveyQuestion, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query survey questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.SurveyQuestion, 0)
	for rows.Next() {
		var question domain.SurveyQuestion
		if err := rows.Scan(
			&question.ID,
			&question.QuestionText,
			&question.Options,
			&question.OrderNumber,
		); err != nil {
			return nil, fmt.Errorf("scan survey question: %w", err)
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey questions: %w", err)
	}

	return questions, nil
}

// ListAnswers returns the user's answers joined with their questions, in question order.
func (r *SurveyRepository) ListAnswers(ctx context.Context, userID string) ([]domain.SurveyAnswer, error) {
	stmt := `
		SELECT a.id, a.user_id, a.question_id, a.answer, a.created_at,
		       q.id, q.question_text, q.options, q.order_number
		  FROM survey_answers a
		  JOIN survey_questions q ON q.id = a.question_id
		 WHERE a.user_id = $1
		 ORDER BY q.order_number ASC
	`

	rows, err := r.exec.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("query survey answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.SurveyAnswer, 0)
	for rows.Next() {
		var (
			answer   domain.SurveyAnswer
			question domain.SurveyQuestion
		)
		if err := rows.Scan(
			&answer.ID,
			&answer.UserID,
			&answer.QuestionID,
			&answer.Answer,
			&answer.CreatedAt,
			&question.ID,
			&question.QuestionText,
			&question.Options,
			&question.OrderNumber,
		); err != nil {
			return nil, fmt.Errorf("scan survey answer: %w", err)
		}
		answer.Question = &question
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey answers: %w", err)
	}

	return answers, nil
}

// GetAnswer retrieves the user's answer to a single question.
func (r *SurveyRepository) GetAnswer(ctx context.Context, userID, questionID string) (*domain.SurveyAnswer, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "question_id", "answer", "created_at").
		From("survey_answers").
		Where(squirrel.Eq{"user_id": userID, "question_id": questionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select survey answer sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var answer domain.SurveyAnswer
	if err := row.Scan(
		&answer.ID,
		&answer.UserID,
		&answer.QuestionID,
		&answer.Answer,
		&answer.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan survey answer: %w", err)
	}

	return &answer, nil
}

// CreateAnswer inserts a new answer row. The (user_id, question_id) unique
// constraint rejects duplicate submissions.
func (r *SurveyRepository) CreateAnswer(ctx context.Context, answer domain.SurveyAnswer) error {
	stmt, args, err := r.builder.Insert("survey_answers").
		Columns("id", "user_id", "question_id", "answer", "created_at").
		Values(answer.ID, answer.UserID, answer.QuestionID, answer.Answer, answer.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert survey answer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert survey answer: %w", err)
	}

	return nil
}

var _ port.SurveyRepository = (*SurveyRepository)(nil)
