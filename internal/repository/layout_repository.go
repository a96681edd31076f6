package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stitchpress/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSectionNotFound = errors.New("layout section not found")
)

// LayoutRepository defines the interface for shop-page layout section access
type LayoutRepository interface {
	Create(ctx context.Context, section *domain.LayoutSection) error
	Update(ctx context.Context, section *domain.LayoutSection) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, enabledOnly bool) ([]*domain.LayoutSection, error)
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
}

type layoutRepository struct {
	db *sql.DB
}

// NewLayoutRepository creates a new instance of LayoutRepository
func NewLayoutRepository(db *sql.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

// Create inserts a new layout section
func (r *layoutRepository) Create(ctx context.Context, section *domain.LayoutSection) error {
	query := `
		INSERT INTO layout_sections (id, kind, title, position, enabled, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		section.ID,
		section.Kind,
		section.Title,
		section.Position,
		section.Enabled,
		section.Config,
		section.CreatedAt,
		section.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create layout section: %w", err)
	}

	return nil
}

// Update updates an existing layout section
func (r *layoutRepository) Update(ctx context.Context, section *domain.LayoutSection) error {
	query := `
		UPDATE layout_sections
		SET kind = $2, title = $3, position = $4, enabled = $5, config = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		section.ID,
		section.Kind,
		section.Title,
		section.Position,
		section.Enabled,
		section.Config,
		section.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update layout section: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSectionNotFound
	}

	return nil
}

// Delete removes a layout section
func (r *layoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM layout_sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete layout section: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSectionNotFound
	}

	return nil
}

// List retrieves layout sections ordered by position. The storefront passes
// enabledOnly=true; the admin console sees everything.
func (r *layoutRepository) List(ctx context.Context, enabledOnly bool) ([]*domain.LayoutSection, error) {
	query := `
		SELECT id, kind, title, position, enabled, config, created_at, updated_at
		FROM layout_sections
	`
	if enabledOnly {
		query += " WHERE enabled = TRUE"
	}
	query += " ORDER BY position ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list layout sections: %w", err)
	}
	defer rows.Close()

	sections := []*domain.LayoutSection{}
	for rows.Next() {
		section := &domain.LayoutSection{}
		err := rows.Scan(
			&section.ID,
			&section.Kind,
			&section.Title,
			&section.Position,
			&section.Enabled,
			&section.Config,
			&section.CreatedAt,
			&section.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan layout section: %w", err)
		}
		sections = append(sections, section)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating layout sections: %w", err)
	}

	return sections, nil
}

// Reorder rewrites the position of every listed section inside one
// transaction, in the order given.
func (r *layoutRepository) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback()

	for position, id := range orderedIDs {
		result, err := tx.ExecContext(ctx,
			`UPDATE layout_sections SET position = $1, updated_at = NOW() WHERE id = $2`,
			position, id,
		)
		if err != nil {
			return fmt.Errorf("failed to reposition section %s: %w", id, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrSectionNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}
