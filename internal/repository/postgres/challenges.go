package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/lambojac/mirriora/internal/core/domain"
	"github.com/lambojac/mirriora/internal/core/port"
	"github.com/lambojac/mirriora/internal/repository"
)

// ChallengeRepository implements port.ChallengeRepository using PostgreSQL.
// Tasks and scan results are stored as jsonb columns.
type ChallengeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewChallengeRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewChallengeRepository(exec pgExecutor) *ChallengeRepository {
	return &ChallengeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new challenge row.
func (r *ChallengeRepository) Create(ctx context.Context, challenge domain.Challenge) error {
	tasks, err := marshalTasks(challenge.Tasks)
	if err != nil {
		return err
	}

	scanResult, err := marshalScanResult(challenge.ScanResult)
	if err != nil {
		return err
	}

	stmt, args, err := r.builder.Insert("challenges").
		Columns("id", "user_id", "title", "description", "tasks", "personal_note", "scan_result", "created_at", "updated_at").
		Values(
			challenge.ID,
			challenge.UserID,
			challenge.Title,
			challenge.Description,
			tasks,
			challenge.PersonalNote,
			scanResult,
			challenge.CreatedAt,
			challenge.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert challenge sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}

	return nil
}

// GetByID retrieves a challenge owned by the given user.
func (r *ChallengeRepository) GetByID(ctx context.Context, userID, id string) (*domain.Challenge, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "title", "description", "tasks", "personal_note", "scan_result", "created_at", "updated_at").
		From("challenges").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select challenge sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	challenge, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return challenge, nil
}

// ListByUser returns all challenges owned by the user, newest first.
func (r *ChallengeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Challenge, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "title", "description", "tasks", "personal_note", "scan_result", "created_at", "updated_at").
		From("challenges").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list challenges sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]domain.Challenge, 0)
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, *challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate challenges: %w", err)
	}

	return challenges, nil
}

// UpdateTasks replaces the full task list of a challenge.
func (r *ChallengeRepository) UpdateTasks(ctx context.Context, userID, id string, tasks []domain.ChallengeTask) error {
	payload, err := marshalTasks(tasks)
	if err != nil {
		return err
	}

	stmt, args, err := r.builder.Update("challenges").
		Set("tasks", payload).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update challenge tasks sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update challenge tasks: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePersonalNote replaces the personal note of a challenge.
func (r *ChallengeRepository) UpdatePersonalNote(ctx context.Context, userID, id, note string) error {
	stmt, args, err := r.builder.Update("challenges").
		Set("personal_note", note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update challenge note sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update challenge note: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a challenge owned by the given user.
func (r *ChallengeRepository) Delete(ctx context.Context, userID, id string) error {
	stmt, args, err := r.builder.Delete("challenges").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete challenge sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func marshalTasks(tasks []domain.ChallengeTask) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.ChallengeTask{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal challenge tasks: %w", err)
	}
	return payload, nil
}

func marshalScanResult(result []map[string]any) ([]byte, error) {
	if result == nil {
		result = []map[string]any{}
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal challenge scan result: %w", err)
	}
	return payload, nil
}

func scanChallenge(row pgx.Row) (*domain.Challenge, error) {
	var (
		challenge  domain.Challenge
		tasks      []byte
		scanResult []byte
	)

	if err := row.Scan(
		&challenge.ID,
		&challenge.UserID,
		&challenge.Title,
		&challenge.Description,
		&tasks,
		&challenge.PersonalNote,
		&scanResult,
		&challenge.CreatedAt,
		&challenge.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan challenge: %w", err)
	}

	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &challenge.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal challenge tasks: %w", err)
		}
	}
	if len(scanResult) > 0 {
		if err := json.Unmarshal(scanResult, &challenge.ScanResult); err != nil {
			return nil, fmt.Errorf("unmarshal challenge scan result: %w", err)
		}
	}

	return &challenge, nil
}

var _ port.ChallengeRepository = (*ChallengeRepository)(nil)
