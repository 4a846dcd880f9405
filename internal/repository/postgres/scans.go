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

// ScanRepository implements port.ScanRepository using PostgreSQL.
type ScanRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewScanRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewScanRepository(exec pgExecutor) *ScanRepository {
	return &ScanRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new scan metadata row.
func (r *ScanRepository) Create(ctx context.Context, scan domain.Scan) error {
	stmt, args, err := r.builder.Insert("scans").
		Columns("id", "user_id", "object_key", "file_name", "content_type", "size_bytes", "created_at").
		Values(scan.ID, scan.UserID, scan.ObjectKey, scan.FileName, scan.ContentType, scan.SizeBytes, scan.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert scan sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	return nil
}

// GetByID retrieves a scan owned by the given user.
func (r *ScanRepository) GetByID(ctx context.Context, userID, id string) (*domain.Scan, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "object_key", "file_name", "content_type", "size_bytes", "created_at").
		From("scans").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select scan sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var scan domain.Scan
	if err := row.Scan(
		&scan.ID,
		&scan.UserID,
		&scan.ObjectKey,
		&scan.FileName,
		&scan.ContentType,
		&scan.SizeBytes,
		&scan.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan scan row: %w", err)
	}

	return &scan, nil
}

// ListByUser returns all scans owned by the user, newest first.
func (r *ScanRepository) ListByUser(ctx context.Context, userID string) ([]domain.Scan, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "object_key", "file_name", "content_type", "size_bytes", "created_at").
		From("scans").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scans sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	scans := make([]domain.Scan, 0)
	for rows.Next() {
		var scan domain.Scan
		if err := rows.Scan(
			&scan.ID,
			&scan.UserID,
			&scan.ObjectKey,
			&scan.FileName,
			&scan.ContentType,
			&scan.SizeBytes,
			&scan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan scan row: %w", err)
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}

	return scans, nil
}

// Delete removes a scan owned by the given user.
func (r *ScanRepository) Delete(ctx context.Context, userID, id string) error {
	stmt, args, err := r.builder.Delete("scans").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete scan sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete scan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ScanRepository = (*ScanRepository)(nil)
