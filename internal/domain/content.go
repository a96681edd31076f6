package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Post is a blog or case-study article. Content is a block-based document
// stored as JSON, opaque to the backend.
type Post struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Slug       string          `json:"slug" db:"slug"`
	Title      string          `json:"title" db:"title"`
	Excerpt    string          `json:"excerpt" db:"excerpt"`
	Content    json.RawMessage `json:"content" db:"content"`
	CoverImage string          `json:"cover_image" db:"cover_image"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// LayoutSection is one configurable block of the shop page: a carousel, a
// bento tile grid, a hero grid or an FAQ accordion. Config carries the
// section-type-specific payload (tiles, slides, questions).
type LayoutSection struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Kind      string          `json:"kind" db:"kind"`
	Title     string          `json:"title" db:"title"`
	Position  int             `json:"position" db:"position"`
	Enabled   bool            `json:"enabled" db:"enabled"`
	Config    json.RawMessage `json:"config" db:"config"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Layout section kinds.
const (
	SectionCarousel  = "carousel"
	SectionBento     = "bento"
	SectionHero      = "hero"
	SectionAccordion = "accordion"
)

// ValidSectionKind reports whether kind names a known layout section type.
func ValidSectionKind(kind string) bool {
	switch kind {
	case SectionCarousel, SectionBento, SectionHero, SectionAccordion:
		return true
	}
	return false
}

// Admin is a console user. Admins are provisioned by migration or ops
// tooling; there is no public registration.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
