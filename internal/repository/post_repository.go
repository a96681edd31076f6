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
	ErrPostNotFound = errors.New("post not found")
)

// PostRepository defines the interface for blog/case-study post data access
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, status string, page, pageSize int) ([]*domain.Post, int, error)
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new instance of PostRepository
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, slug, title, excerpt, content, cover_image, status, created_at, updated_at`

// Create inserts a new post
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, slug, title, excerpt, content, cover_image, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		post.ID,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.CoverImage,
		post.Status,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// Update updates an existing post
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET slug = $2, title = $3, excerpt = $4, content = $5,
		    cover_image = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		post.ID,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.CoverImage,
		post.Status,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// Delete removes a post
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// FindByID retrieves a post by ID
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a post by its URL slug
func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE slug = $1`, postColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postRepository) scanOne(row *sql.Row) (*domain.Post, error) {
	post := &domain.Post{}
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.CoverImage,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

// List retrieves posts with optional status filtering, newest first
func (r *postRepository) List(ctx context.Context, status string, page, pageSize int) ([]*domain.Post, int, error) {
	whereClause := ""
	args := []any{}

	if status != "" {
		whereClause = "WHERE status = $1"
		args = append(args, status)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM posts %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		post := &domain.Post{}
		err := rows.Scan(
			&post.ID,
			&post.Slug,
			&post.Title,
			&post.Excerpt,
			&post.Content,
			&post.CoverImage,
			&post.Status,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, total, nil
}
