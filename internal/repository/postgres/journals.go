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

// JournalRepository implements port.JournalRepository using PostgreSQL.
type JournalRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewJournalRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewJournalRepository(exec pgExecutor) *JournalRepository {
	return &JournalRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new journal row.
func (r *JournalRepository) Create(ctx context.Context, journal domain.Journal) error {
	stmt, args, err := r.builder.Insert("journals").
		Columns("id", "user_id", "title", "description", "created_at", "updated_at").
		Values(journal.ID, journal.UserID, journal.Title, journal.Description, journal.CreatedAt, journal.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert journal sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert journal: %w", err)
	}

	return nil
}

// GetByID retrieves a journal owned by the given user.
func (r *JournalRepository) GetByID(ctx context.Context, userID, id string) (*domain.Journal, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "title", "description", "created_at", "updated_at").
		From("journals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select journal sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var journal domain.Journal
	if err := row.Scan(
		&journal.ID,
		&journal.UserID,
		&journal.Title,
		&journal.Description,
		&journal.CreatedAt,
		&journal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	return &journal, nil
}

// ListByUser returns all journals owned by the user, newest first.
func (r *JournalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Journal, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "title", "description", "created_at", "updated_at").
		From("journals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list journals sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query journals: %w", err)
	}
	defer rows.Close()

	journals := make([]domain.Journal, 0)
	for rows.Next() {
		var journal domain.Journal
		if err := rows.Scan(
			&journal.ID,
			&journal.UserID,
			&journal.Title,
			&journal.Description,
			&journal.CreatedAt,
			&journal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		journals = append(journals, journal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journals: %w", err)
	}

	return journals, nil
}

// Update modifies an existing journal's title and description.
func (r *JournalRepository) Update(ctx context.Context, journal domain.Journal) error {
	stmt, args, err := r.builder.Update("journals").
		Set("title", journal.Title).
		Set("description", journal.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": journal.ID, "user_id": journal.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update journal sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update journal: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a journal owned by the given user.
func (r *JournalRepository) Delete(ctx context.Context, userID, id string) error {
	stmt, args, err := r.builder.Delete("journals").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete journal sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.JournalRepository = (*JournalRepository)(nil)
