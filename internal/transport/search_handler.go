package transport

import (
	"net/http"

	"stitchpress/internal/middleware"
	"stitchpress/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SmartSearchRequest represents the smart search request payload
type SmartSearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
}

// SmartSearchResponse carries the interpreted filters and a human-readable
// explanation of how they were derived
type SmartSearchResponse struct {
	Filters     any    `json:"filters"`
	Explanation string `json:"explanation"`
}

// SearchHandler handles HTTP requests for smart search
type SearchHandler struct {
	smartSearch service.SmartSearchService
	logger      *zap.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(smartSearch service.SmartSearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		smartSearch: smartSearch,
		logger:      logger,
	}
}

// RegisterRoutes registers the smart search route behind the given rate
// limiter
func (h *SearchHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/smart-search", func(r chi.Router) {
		r.Use(rateLimiter)
		r.Post("/", h.Interpret)
	})
}

// Interpret turns a free-text query into catalog filters
func (h *SearchHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req SmartSearchRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Smart search validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	filters, explanation := h.smartSearch.Interpret(r.Context(), req.Query)

	middleware.RespondWithJSON(w, http.StatusOK, SmartSearchResponse{
		Filters:     filters,
		Explanation: explanation,
	})
}
