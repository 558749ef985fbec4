package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/barkeep/barkeep/internal/domain/bar"
	"github.com/barkeep/barkeep/internal/repository"
)

// BarRepository implements bar.Repository for SQLite
type BarRepository struct {
	db *DB
}

// NewBarRepository creates a new BarRepository
func NewBarRepository(db *DB) *BarRepository {
	return &BarRepository{db: db}
}

// Insert persists a new bar
func (r *BarRepository) Insert(ctx context.Context, b *bar.TimeBasedBar) error {
	query := `
		INSERT INTO bars (
			id, title, description, bar_type, start_date, target_date,
			current_value, target_value, is_completed, is_overdue,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Title,
		b.Description,
		b.Type,
		b.StartDate,
		b.TargetDate,
		b.CurrentValue,
		b.TargetValue,
		b.IsCompleted,
		b.IsOverdue,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert bar: %w", err)
	}

	return nil
}

// Get retrieves a bar by ID
func (r *BarRepository) Get(ctx context.Context, id string) (*bar.TimeBasedBar, error) {
	query := `
		SELECT
			id, title, description, bar_type, start_date, target_date,
			current_value, target_value, is_completed, is_overdue,
			created_at, updated_at
		FROM bars
		WHERE id = ?
	`

	b, err := scanBar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bar: %w", err)
	}

	return b, nil
}

// UpdateDerived persists the calculator-derived fields of an existing bar
func (r *BarRepository) UpdateDerived(ctx context.Context, id string, fields bar.DerivedFields) error {
	query := `
		UPDATE bars
		SET current_value = ?, target_value = ?, is_completed = ?,
		    is_overdue = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		fields.CurrentValue,
		fields.TargetValue,
		fields.IsCompleted,
		fields.IsOverdue,
		fields.UpdatedAt,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update bar: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a bar by ID
func (r *BarRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bar: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListAll retrieves every bar, newest first
func (r *BarRepository) ListAll(ctx context.Context) ([]bar.TimeBasedBar, error) {
	query := `
		SELECT
			id, title, description, bar_type, start_date, target_date,
			current_value, target_value, is_completed, is_overdue,
			created_at, updated_at
		FROM bars
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bars: %w", err)
	}
	defer rows.Close()

	var bars []bar.TimeBasedBar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bars: %w", err)
	}

	return bars, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBar(row rowScanner) (*bar.TimeBasedBar, error) {
	var b bar.TimeBasedBar
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.Type,
		&b.StartDate,
		&b.TargetDate,
		&b.CurrentValue,
		&b.TargetValue,
		&b.IsCompleted,
		&b.IsOverdue,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
