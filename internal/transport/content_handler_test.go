package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stitchpress/internal/domain"
	"stitchpress/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newContentTestRouter(posts *mockPostRepo, layouts *mockLayoutRepo) http.Handler {
	router := chi.NewRouter()
	contentService := service.NewContentService(posts, layouts)
	NewContentHandler(contentService, zap.NewNop()).RegisterRoutes(router)
	return router
}

func TestPublicPosts_DraftsBehaveAsNotFound(t *testing.T) {
	posts := newMockPostRepo()
	posts.posts[uuid.New()] = &domain.Post{
		ID:        uuid.New(),
		Slug:      "hidden-draft",
		Title:     "Hidden",
		Status:    domain.PostStatusDraft,
		Content:   json.RawMessage("[]"),
		CreatedAt: time.Now(),
	}

	router := newContentTestRouter(posts, newMockLayoutRepo())

	req := httptest.NewRequest("GET", "/api/posts/hidden-draft", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for draft post, got %d", w.Code)
	}
}

func TestPublicPosts_ServesPublishedBySlug(t *testing.T) {
	posts := newMockPostRepo()
	id := uuid.New()
	posts.posts[id] = &domain.Post{
		ID:        id,
		Slug:      "live-post",
		Title:     "Live",
		Status:    domain.PostStatusPublished,
		Content:   json.RawMessage(`[{"type":"paragraph"}]`),
		CreatedAt: time.Now(),
	}

	router := newContentTestRouter(posts, newMockLayoutRepo())

	req := httptest.NewRequest("GET", "/api/posts/live-post", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got domain.Post
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode post: %v", err)
	}
	if got.Title != "Live" {
		t.Errorf("unexpected post: %+v", got)
	}
}

func TestPublicLayout_ServesOnlyEnabledSections(t *testing.T) {
	layouts := newMockLayoutRepo()
	enabled := uuid.New()
	layouts.sections[enabled] = &domain.LayoutSection{
		ID: enabled, Kind: domain.SectionCarousel, Enabled: true, Config: json.RawMessage("{}"),
	}
	disabled := uuid.New()
	layouts.sections[disabled] = &domain.LayoutSection{
		ID: disabled, Kind: domain.SectionHero, Enabled: false, Config: json.RawMessage("{}"),
	}

	router := newContentTestRouter(newMockPostRepo(), layouts)

	req := httptest.NewRequest("GET", "/api/layout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got struct {
		Sections []domain.LayoutSection `json:"sections"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode layout: %v", err)
	}
	if len(got.Sections) != 1 || got.Sections[0].Kind != domain.SectionCarousel {
		t.Errorf("expected only the enabled carousel, got %+v", got.Sections)
	}
}
