package transport

import (
	"net/http"

	"stitchpress/internal/domain"
	"stitchpress/internal/middleware"
	"stitchpress/internal/repository"
	"stitchpress/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostListResponse is one page of posts plus the total count
type PostListResponse struct {
	Posts      []*domain.Post `json:"posts"`
	TotalCount int            `json:"totalCount"`
}

// ContentHandler handles public HTTP requests for CMS content
type ContentHandler struct {
	contentService service.ContentService
	logger         *zap.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public content routes
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.ListPublished)
		r.Get("/{slug}", h.GetBySlug)
	})
	r.Get("/api/layout", h.GetLayout)
}

// ListPublished returns published posts, newest first
func (h *ContentHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := queryInt(query.Get("page"), 1)
	pageSize := queryInt(query.Get("pageSize"), service.DefaultPageSize)

	posts, total, err := h.contentService.ListPosts(r.Context(), domain.PostStatusPublished, page, pageSize)
	if err != nil {
		h.logger.Error("Post listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PostListResponse{Posts: posts, TotalCount: total})
}

// GetBySlug returns a single published post; drafts behave as not found
func (h *ContentHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.contentService.GetPublishedPost(r.Context(), slug)
	if err != nil {
		if err == repository.ErrPostNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("Post lookup failed", zap.Error(err), zap.String("slug", slug))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

// GetLayout returns the enabled shop-page sections in display order
func (h *ContentHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	sections, err := h.contentService.ListSections(r.Context(), true)
	if err != nil {
		h.logger.Error("Layout lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load layout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"sections": sections})
}
