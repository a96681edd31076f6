package transport

import (
	"net/http"
	"strconv"
	"strings"

	"stitchpress/internal/domain"
	"stitchpress/internal/middleware"
	"stitchpress/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	facetService   service.FacetService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, facetService service.FacetService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		facetService:   facetService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/filter-options", h.FilterOptions)
		r.Get("/size-groups", h.SizeGroups)
	})
}

// Search handles filtered, paginated catalog queries. All filters travel as
// query parameters; multi-value facets accept repeated params or
// comma-separated lists.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := domain.ProductFilters{
		SearchQuery:        strings.TrimSpace(query.Get("search")),
		ProductTypes:       queryList(query, "productTypes"),
		Sizes:              queryList(query, "sizes"),
		Colors:             queryList(query, "colors"),
		ColorShades:        queryList(query, "colorShades"),
		Categories:         queryList(query, "categories"),
		Materials:          queryList(query, "materials"),
		Brands:             queryList(query, "brands"),
		Genders:            queryList(query, "genders"),
		AgeGroups:          queryList(query, "ageGroups"),
		SustainableOrganic: queryList(query, "sustainableOrganic"),
		Accreditations:     queryList(query, "accreditations"),
		PriceMin:           queryFloat(query.Get("priceMin")),
		PriceMax:           queryFloat(query.Get("priceMax")),
	}

	page := queryInt(query.Get("page"), 1)
	pageSize := queryInt(query.Get("pageSize"), service.DefaultPageSize)

	result := h.catalogService.Search(r.Context(), filters, page, pageSize)

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// FilterOptions returns the facet snapshot that populates the filter menus
func (h *CatalogHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options := h.facetService.Options(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, options)
}

// SizeGroups classifies available sizes into taxonomy buckets, optionally
// scoped to the selected product types
func (h *CatalogHandler) SizeGroups(w http.ResponseWriter, r *http.Request) {
	productTypes := queryList(r.URL.Query(), "productTypes")

	groups, err := h.catalogService.SizeGroups(r.Context(), productTypes)
	if err != nil {
		h.logger.Error("Size group lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load size groups")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// queryList collects a multi-value query parameter, splitting each occurrence
// on commas and dropping empty segments.
func queryList(query map[string][]string, key string) []string {
	var values []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
