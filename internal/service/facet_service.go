package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"stitchpress/internal/config"
	"stitchpress/internal/domain"
	"stitchpress/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const facetCacheKey = "stitchpress:filter_options"

// Default price range when the catalog carries no parseable price at all.
var defaultPriceRange = domain.PriceRange{Min: 0, Max: 1000}

// FacetService computes the FilterOptions snapshot that populates the filter
// menus. Facets are fetched concurrently and each tolerates its own failure:
// a facet that cannot be read comes back empty instead of failing the whole
// snapshot.
type FacetService interface {
	Options(ctx context.Context) *domain.FilterOptions
}

type facetService struct {
	catalogRepo repository.CatalogRepository
	cfg         config.CatalogConfig
	cache       *redis.Client
	logger      *zap.Logger
}

// NewFacetService creates a new instance of FacetService. The cache client
// is optional; pass nil to disable snapshot caching.
func NewFacetService(catalogRepo repository.CatalogRepository, cfg config.CatalogConfig, cache *redis.Client, logger *zap.Logger) FacetService {
	return &facetService{
		catalogRepo: catalogRepo,
		cfg:         cfg,
		cache:       cache,
		logger:      logger,
	}
}

// Options returns the facet snapshot, serving a cached copy when one is
// fresh. The snapshot is not kept in sync with catalog mutations; staleness
// within the TTL is acceptable for a browsing UI.
func (s *facetService) Options(ctx context.Context) *domain.FilterOptions {
	if cached := s.fromCache(ctx); cached != nil {
		return cached
	}

	options := &domain.FilterOptions{PriceRange: defaultPriceRange}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	distinct := func(column string, dest *[]string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			values, err := s.catalogRepo.DistinctValues(ctx, column, s.cfg.FacetValueCap)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Facet fetch failed", zap.String("facet", column), zap.Error(err))
				*dest = []string{}
				return
			}
			*dest = values
		}()
	}

	distinct("product_type", &options.ProductTypes)
	distinct("size_name", &options.Sizes)
	distinct("color_name", &options.Colors)
	distinct("brand", &options.Brands)
	distinct("gender", &options.Genders)

	wg.Add(1)
	go func() {
		defer wg.Done()
		priceRange := s.priceRange(ctx)
		mu.Lock()
		options.PriceRange = priceRange
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		derived := s.sampleDerivedFacets(ctx)
		mu.Lock()
		options.Materials = derived.materials
		options.Categories = derived.categories
		options.ColorShades = derived.colorShades
		options.AgeGroups = derived.ageGroups
		options.Accreditations = derived.accreditations
		mu.Unlock()
	}()

	wg.Wait()

	s.store(ctx, options)
	return options
}

// priceRange parses every price string in the catalog and returns the
// floor/ceil bounds of the parseable subset, or the default range.
func (s *facetService) priceRange(ctx context.Context) domain.PriceRange {
	prices, err := s.catalogRepo.Prices(ctx)
	if err != nil {
		s.logger.Warn("Price range fetch failed", zap.Error(err))
		return defaultPriceRange
	}

	var (
		found    bool
		min, max float64
	)
	for _, raw := range prices {
		p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		if !found {
			min, max = p, p
			found = true
			continue
		}
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	if !found {
		return defaultPriceRange
	}
	return domain.PriceRange{Min: math.Floor(min), Max: math.Ceil(max)}
}

type derivedFacets struct {
	materials      []string
	categories     []string
	colorShades    []string
	ageGroups      []string
	accreditations []string
}

// sampleDerivedFacets extracts the unstructured facets from a bounded sample
// of the catalog. The sample cap trades facet completeness for cost and is
// configurable.
func (s *facetService) sampleDerivedFacets(ctx context.Context) derivedFacets {
	facets := derivedFacets{
		materials:      []string{},
		categories:     []string{},
		colorShades:    []string{},
		ageGroups:      []string{},
		accreditations: []string{},
	}

	samples, err := s.catalogRepo.Sample(ctx, s.cfg.FacetSampleSize)
	if err != nil {
		s.logger.Warn("Facet sample fetch failed", zap.Error(err))
		return facets
	}

	facets.materials = deriveMaterials(samples, s.cfg.MaterialVocabulary)
	facets.categories = deriveCategories(samples, s.cfg.CategoryDenylist)
	facets.accreditations = deriveAccreditations(samples)
	facets.colorShades = collectField(samples, func(r repository.FacetSampleRow) string { return r.ColorShade })
	facets.ageGroups = collectField(samples, func(r repository.FacetSampleRow) string { return r.AgeGroup })
	return facets
}

// deriveMaterials keeps every vocabulary term that substring-matches at
// least one sampled fabric description.
func deriveMaterials(samples []repository.FacetSampleRow, vocabulary []string) []string {
	matched := []string{}
	for _, term := range vocabulary {
		lower := strings.ToLower(term)
		for _, row := range samples {
			if strings.Contains(strings.ToLower(row.FabricText), lower) {
				matched = append(matched, term)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}

// deriveCategories splits the pipe-delimited categorization text and drops
// segments carrying known marketing tags.
func deriveCategories(samples []repository.FacetSampleRow, denylist []string) []string {
	set := map[string]bool{}
	for _, row := range samples {
		for _, segment := range strings.Split(row.CategoryText, "|") {
			segment = strings.TrimSpace(segment)
			if segment == "" || containsAny(segment, denylist) {
				continue
			}
			set[segment] = true
		}
	}
	return sortedKeys(set)
}

func deriveAccreditations(samples []repository.FacetSampleRow) []string {
	set := map[string]bool{}
	for _, row := range samples {
		for _, segment := range strings.Split(row.AccreditationTxt, "|") {
			if segment = strings.TrimSpace(segment); segment != "" {
				set[segment] = true
			}
		}
	}
	return sortedKeys(set)
}

func collectField(samples []repository.FacetSampleRow, field func(repository.FacetSampleRow) string) []string {
	set := map[string]bool{}
	for _, row := range samples {
		if v := strings.TrimSpace(field(row)); v != "" {
			set[v] = true
		}
	}
	return sortedKeys(set)
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *facetService) fromCache(ctx context.Context) *domain.FilterOptions {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, facetCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Facet cache read failed", zap.Error(err))
		}
		return nil
	}

	var options domain.FilterOptions
	if err := json.Unmarshal(payload, &options); err != nil {
		s.logger.Warn("Facet cache payload corrupt", zap.Error(err))
		return nil
	}
	return &options
}

func (s *facetService) store(ctx context.Context, options *domain.FilterOptions) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(options)
	if err != nil {
		return
	}

	ttl := time.Duration(s.cfg.FacetCacheTTL) * time.Second
	if err := s.cache.Set(ctx, facetCacheKey, payload, ttl).Err(); err != nil {
		s.logger.Warn("Facet cache write failed", zap.Error(err))
	}
}
