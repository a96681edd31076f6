package transport

import (
	"encoding/json"
	"net/http"

	"stitchpress/internal/domain"
	"stitchpress/internal/middleware"
	"stitchpress/internal/repository"
	"stitchpress/internal/service"
	"stitchpress/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps CMS image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// AdminLoginRequest represents the admin login payload
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse represents the admin login response
type AdminLoginResponse struct {
	AccessToken string       `json:"access_token"`
	Admin       AdminProfile `json:"admin"`
}

// AdminProfile represents admin profile data
type AdminProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PostRequest represents the create/update post payload
type PostRequest struct {
	Slug       string          `json:"slug" validate:"required,max=200"`
	Title      string          `json:"title" validate:"required,max=300"`
	Excerpt    string          `json:"excerpt"`
	Content    json.RawMessage `json:"content"`
	CoverImage string          `json:"cover_image"`
	Status     string          `json:"status" validate:"omitempty,oneof=draft published"`
}

// SectionRequest represents the create/update layout section payload
type SectionRequest struct {
	Kind     string          `json:"kind" validate:"required,oneof=carousel bento hero accordion"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Enabled  bool            `json:"enabled"`
	Config   json.RawMessage `json:"config"`
}

// ReorderRequest represents the section reorder payload
type ReorderRequest struct {
	SectionIDs []string `json:"section_ids" validate:"required,min=1,dive,uuid"`
}

// UploadResponse represents the image upload response
type UploadResponse struct {
	URL string `json:"url"`
}

// AdminHandler handles HTTP requests for the admin console
type AdminHandler struct {
	adminService   service.AdminService
	contentService service.ContentService
	images         *storage.ImageStore
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, contentService service.ContentService, images *storage.ImageStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		contentService: contentService,
		images:         images,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		// Public route
		r.Post("/login", h.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", h.GetProfile)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.ListPosts)
				r.Post("/", h.CreatePost)
				r.Get("/{id}", h.GetPost)
				r.Put("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})

			r.Route("/sections", func(r chi.Router) {
				r.Get("/", h.ListSections)
				r.Post("/", h.CreateSection)
				r.Put("/reorder", h.ReorderSections)
				r.Put("/{id}", h.UpdateSection)
				r.Delete("/{id}", h.DeleteSection)
			})

			r.Post("/uploads", h.UploadImage)
		})
	})
}

// Login handles admin authentication
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, admin, err := h.adminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))

		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, AdminLoginResponse{
		AccessToken: token,
		Admin:       adminProfile(admin),
	})
}

// GetProfile returns the authenticated admin's profile
func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(adminID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	admin, err := h.adminService.GetAdminByID(r.Context(), id)
	if err != nil {
		h.logger.Error("Admin profile lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, adminProfile(admin))
}

// ListPosts pages through posts of any status for the admin console
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := query.Get("status")
	page := queryInt(query.Get("page"), 1)
	pageSize := queryInt(query.Get("pageSize"), service.DefaultPageSize)

	posts, total, err := h.contentService.ListPosts(r.Context(), status, page, pageSize)
	if err != nil {
		h.logger.Error("Admin post listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PostListResponse{Posts: posts, TotalCount: total})
}

// CreatePost stores a new post
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePost(w, r)
	if !ok {
		return
	}

	post := postFromRequest(req)
	if err := h.contentService.CreatePost(r.Context(), post); err != nil {
		h.logger.Error("Post creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, post)
}

// GetPost returns a post of any status by ID
func (h *AdminHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	post, err := h.contentService.GetPost(r.Context(), id)
	if err != nil {
		if err == repository.ErrPostNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("Post lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

// UpdatePost rewrites an existing post
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodePost(w, r)
	if !ok {
		return
	}

	post := postFromRequest(req)
	post.ID = id

	if err := h.contentService.UpdatePost(r.Context(), post); err != nil {
		if err == repository.ErrPostNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("Post update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

// DeletePost removes a post
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.contentService.DeletePost(r.Context(), id); err != nil {
		if err == repository.ErrPostNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("Post deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSections returns all layout sections, enabled or not
func (h *AdminHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.contentService.ListSections(r.Context(), false)
	if err != nil {
		h.logger.Error("Section listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load sections")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// CreateSection stores a new layout section
func (h *AdminHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSection(w, r)
	if !ok {
		return
	}

	section := sectionFromRequest(req)
	if err := h.contentService.CreateSection(r.Context(), section); err != nil {
		h.logger.Error("Section creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create section")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, section)
}

// UpdateSection rewrites an existing layout section
func (h *AdminHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeSection(w, r)
	if !ok {
		return
	}

	section := sectionFromRequest(req)
	section.ID = id

	if err := h.contentService.UpdateSection(r.Context(), section); err != nil {
		if err == repository.ErrSectionNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "section not found")
			return
		}
		h.logger.Error("Section update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update section")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, section)
}

// DeleteSection removes a layout section
func (h *AdminHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.contentService.DeleteSection(r.Context(), id); err != nil {
		if err == repository.ErrSectionNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "section not found")
			return
		}
		h.logger.Error("Section deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete section")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderSections rewrites section positions to match the given ID order
func (h *AdminHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.SectionIDs))
	for _, raw := range req.SectionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid section id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	if err := h.contentService.ReorderSections(r.Context(), ids); err != nil {
		h.logger.Error("Section reorder failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reorder sections")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a CMS image and returns its delivery URL
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "cms"
	}

	url, err := h.images.Upload(r.Context(), file, "", folder)
	if err != nil {
		h.logger.Error("Image upload failed",
			zap.Error(err),
			zap.String("filename", header.Filename),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, UploadResponse{URL: url})
}

func (h *AdminHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) decodePost(w http.ResponseWriter, r *http.Request) (PostRequest, bool) {
	var req PostRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Post validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

func (h *AdminHandler) decodeSection(w http.ResponseWriter, r *http.Request) (SectionRequest, bool) {
	var req SectionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Section validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

func postFromRequest(req PostRequest) *domain.Post {
	return &domain.Post{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Status:     req.Status,
	}
}

func sectionFromRequest(req SectionRequest) *domain.LayoutSection {
	return &domain.LayoutSection{
		Kind:     req.Kind,
		Title:    req.Title,
		Position: req.Position,
		Enabled:  req.Enabled,
		Config:   req.Config,
	}
}

func adminProfile(admin *domain.Admin) AdminProfile {
	return AdminProfile{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
	}
}
