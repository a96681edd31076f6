package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"stitchpress/internal/config"
	"stitchpress/internal/domain"

	"go.uber.org/zap"
)

// SmartSearchService turns a free-text query into ProductFilters, preferring
// the remote AI backend and degrading to the local keyword classifier. It
// never returns an error: search stays usable without a backend AI.
type SmartSearchService interface {
	Interpret(ctx context.Context, query string) (domain.ProductFilters, string)
}

type smartSearchService struct {
	cfg    config.AISearchConfig
	client *http.Client
	logger *zap.Logger
}

// NewSmartSearchService creates a new instance of SmartSearchService
func NewSmartSearchService(cfg config.AISearchConfig, logger *zap.Logger) SmartSearchService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &smartSearchService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type aiSearchRequest struct {
	Query             string   `json:"query"`
	SelectedQuestions []string `json:"selectedQuestions,omitempty"`
}

type aiSearchResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Filters     *domain.ProductFilters `json:"filters"`
	Explanation string                 `json:"explanation"`
	Fallback    *domain.ProductFilters `json:"fallback"`
	Error       string                 `json:"error"`
	Data        *struct {
		Filters     *domain.ProductFilters `json:"filters"`
		Explanation string                 `json:"explanation"`
	} `json:"data"`
}

// Interpret asks each configured AI base URL in order for a filter
// interpretation of the query and falls back to the keyword classifier when
// none yields a usable payload.
func (s *smartSearchService) Interpret(ctx context.Context, query string) (domain.ProductFilters, string) {
	if s.cfg.Enabled {
		for _, baseURL := range s.cfg.BaseURLs {
			filters, explanation, ok := s.tryBackend(ctx, baseURL, query)
			if ok {
				return filters, explanation
			}
		}
	}

	s.logger.Debug("Smart search falling back to keyword classifier",
		zap.String("query", query),
	)
	return GenerateFallbackFilters(query), "Keyword match"
}

func (s *smartSearchService) tryBackend(ctx context.Context, baseURL, query string) (domain.ProductFilters, string, bool) {
	body, err := json.Marshal(aiSearchRequest{Query: query})
	if err != nil {
		return domain.ProductFilters{}, "", false
	}

	url := strings.TrimRight(baseURL, "/") + "/smart-search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ProductFilters{}, "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("AI search backend unreachable",
			zap.String("base_url", baseURL),
			zap.Error(err),
		)
		return domain.ProductFilters{}, "", false
	}
	defer resp.Body.Close()

	var payload aiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.logger.Warn("AI search backend returned non-JSON body",
			zap.String("base_url", baseURL),
			zap.Error(err),
		)
		return domain.ProductFilters{}, "", false
	}

	// Filters may arrive at the top level or nested under data.
	if payload.Filters != nil {
		return *payload.Filters, payload.Explanation, true
	}
	if payload.Data != nil && payload.Data.Filters != nil {
		return *payload.Data.Filters, payload.Data.Explanation, true
	}
	if payload.Fallback != nil {
		return *payload.Fallback, payload.Explanation, true
	}

	return domain.ProductFilters{}, "", false
}

// GenerateFallbackFilters maps query keywords to filters locally. Rules are
// substring tests applied independently; for a given field a later matching
// rule overwrites an earlier one rather than merging. Fields with no match
// stay unset, so an unrecognized query yields an empty filter object.
func GenerateFallbackFilters(query string) domain.ProductFilters {
	q := strings.ToLower(query)
	var filters domain.ProductFilters

	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}

	if contains("polo") {
		filters.ProductTypes = []string{"Polos"}
	} else if contains("shirt", "tee", "t-shirt") {
		filters.ProductTypes = []string{"T-Shirts"}
	}
	if contains("hoodie", "sweatshirt") {
		filters.ProductTypes = []string{"Hoodies"}
	}
	if contains("jacket", "coat") {
		filters.ProductTypes = []string{"Jackets"}
	}
	if contains("bag", "tote") {
		filters.ProductTypes = []string{"Bags"}
	}

	if contains("budget", "cheap", "under £10") {
		filters.PriceMax = floatPtr(10)
	}
	if contains("under £25") {
		filters.PriceMax = floatPtr(25)
	}
	if contains("premium", "high quality") {
		filters.PriceMin = floatPtr(50)
	}

	if contains("sustainable", "eco", "organic") {
		filters.Materials = []string{"Organic Cotton", "Recycled"}
	}

	if contains("office", "corporate") {
		filters.Genders = []string{"Unisex"}
	}

	return filters
}

func floatPtr(v float64) *float64 {
	return &v
}
