package service

import (
	"context"

	"stitchpress/internal/domain"
	"stitchpress/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// CatalogService defines the storefront browsing operations.
type CatalogService interface {
	Search(ctx context.Context, filters domain.ProductFilters, page, pageSize int) *domain.SearchResult
	SizeGroups(ctx context.Context, productTypes []string) ([]domain.SizeGroup, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(catalogRepo repository.CatalogRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Search runs a filtered, paginated catalog query and groups the returned
// page by style. A data-store failure degrades to an empty result rather
// than an error: the storefront treats it as "no products found".
func (s *catalogService) Search(ctx context.Context, filters domain.ProductFilters, page, pageSize int) *domain.SearchResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	filters.Normalize()

	variants, total, err := s.catalogRepo.Search(ctx, filters, page, pageSize)
	if err != nil {
		s.logger.Error("Catalog search failed, returning empty result",
			zap.Error(err),
			zap.Int("page", page),
		)
		return emptySearchResult(page)
	}

	totalPages, hasNext, hasPrev := paginate(total, page, pageSize)

	return &domain.SearchResult{
		Products:    variants,
		Groups:      GroupProducts(variants),
		TotalCount:  total,
		TotalPages:  totalPages,
		Page:        page,
		HasNextPage: hasNext,
		HasPrevPage: hasPrev,
	}
}

// SizeGroups classifies the distinct size names available for the selected
// product types into the size taxonomy.
func (s *catalogService) SizeGroups(ctx context.Context, productTypes []string) ([]domain.SizeGroup, error) {
	sizes, err := s.catalogRepo.SizeNames(ctx, productTypes)
	if err != nil {
		return nil, err
	}
	return GroupSizes(sizes), nil
}

// paginate derives the page metadata: ceil-division page count and the
// next/previous flags for a 1-based page number.
func paginate(totalCount, page, pageSize int) (totalPages int, hasNext, hasPrev bool) {
	totalPages = (totalCount + pageSize - 1) / pageSize
	hasNext = page < totalPages
	hasPrev = page > 1
	return totalPages, hasNext, hasPrev
}

func emptySearchResult(page int) *domain.SearchResult {
	return &domain.SearchResult{
		Products: []domain.ProductVariant{},
		Groups:   []domain.ProductGroup{},
		Page:     page,
	}
}
