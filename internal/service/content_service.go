package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stitchpress/internal/domain"
	"stitchpress/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidSectionKind = errors.New("invalid layout section kind")
)

// ContentService defines the CMS operations: blog/case-study posts and the
// shop-page layout sections.
type ContentService interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetPublishedPost(ctx context.Context, slug string) (*domain.Post, error)
	ListPosts(ctx context.Context, status string, page, pageSize int) ([]*domain.Post, int, error)

	CreateSection(ctx context.Context, section *domain.LayoutSection) error
	UpdateSection(ctx context.Context, section *domain.LayoutSection) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	ListSections(ctx context.Context, enabledOnly bool) ([]*domain.LayoutSection, error)
	ReorderSections(ctx context.Context, orderedIDs []uuid.UUID) error
}

type contentService struct {
	postRepo   repository.PostRepository
	layoutRepo repository.LayoutRepository
}

// NewContentService creates a new instance of ContentService
func NewContentService(postRepo repository.PostRepository, layoutRepo repository.LayoutRepository) ContentService {
	return &contentService{
		postRepo:   postRepo,
		layoutRepo: layoutRepo,
	}
}

// CreatePost stores a new post, defaulting to draft status
func (s *contentService) CreatePost(ctx context.Context, post *domain.Post) error {
	post.ID = uuid.New()
	if post.Status == "" {
		post.Status = domain.PostStatusDraft
	}
	if len(post.Content) == 0 {
		post.Content = json.RawMessage("[]")
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt

	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// UpdatePost rewrites an existing post
func (s *contentService) UpdatePost(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now()
	return s.postRepo.Update(ctx, post)
}

// DeletePost removes a post
func (s *contentService) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.postRepo.Delete(ctx, id)
}

// GetPost fetches a post for the admin console
func (s *contentService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

// GetPublishedPost fetches a post by slug for the public storefront; drafts
// behave as not found.
func (s *contentService) GetPublishedPost(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != domain.PostStatusPublished {
		return nil, repository.ErrPostNotFound
	}
	return post, nil
}

// ListPosts pages through posts, optionally filtered by status
func (s *contentService) ListPosts(ctx context.Context, status string, page, pageSize int) ([]*domain.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return s.postRepo.List(ctx, status, page, pageSize)
}

// CreateSection stores a new layout section after validating its kind
func (s *contentService) CreateSection(ctx context.Context, section *domain.LayoutSection) error {
	if !domain.ValidSectionKind(section.Kind) {
		return fmt.Errorf("%w: %s", ErrInvalidSectionKind, section.Kind)
	}

	section.ID = uuid.New()
	if len(section.Config) == 0 {
		section.Config = json.RawMessage("{}")
	}
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt

	if err := s.layoutRepo.Create(ctx, section); err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

// UpdateSection rewrites an existing layout section
func (s *contentService) UpdateSection(ctx context.Context, section *domain.LayoutSection) error {
	if !domain.ValidSectionKind(section.Kind) {
		return fmt.Errorf("%w: %s", ErrInvalidSectionKind, section.Kind)
	}
	section.UpdatedAt = time.Now()
	return s.layoutRepo.Update(ctx, section)
}

// DeleteSection removes a layout section
func (s *contentService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return s.layoutRepo.Delete(ctx, id)
}

// ListSections returns the shop-page sections in display order
func (s *contentService) ListSections(ctx context.Context, enabledOnly bool) ([]*domain.LayoutSection, error) {
	return s.layoutRepo.List(ctx, enabledOnly)
}

// ReorderSections rewrites section positions to match the given order
func (s *contentService) ReorderSections(ctx context.Context, orderedIDs []uuid.UUID) error {
	return s.layoutRepo.Reorder(ctx, orderedIDs)
}
