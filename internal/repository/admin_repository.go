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
	ErrAdminNotFound = errors.New("admin not found")
)

// AdminRepository defines the interface for admin console user access.
// Admins are provisioned out of band; the API only reads them.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

// FindByEmail retrieves an admin by email
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.findOne(ctx, "email = $1", email)
}

// FindByID retrieves an admin by ID
func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *adminRepository) findOne(ctx context.Context, predicate string, arg any) (*domain.Admin, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admins
		WHERE %s
	`, predicate)

	admin := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Name,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return admin, nil
}
