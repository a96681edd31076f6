package domain

// ProductVariant is one row of the catalog: a concrete style+color+size
// combination. Rows are created by the ingestion pipeline and never mutated
// by the API.
type ProductVariant struct {
	ID            int64  `json:"id" db:"id"`
	StyleCode     string `json:"style_code" db:"style_code"`
	StyleName     string `json:"style_name" db:"style_name"`
	Brand         string `json:"brand" db:"brand"`
	ProductType   string `json:"product_type" db:"product_type"`
	SizeName      string `json:"size_name" db:"size_name"`
	SizeRangeText string `json:"size_range_text" db:"size_range_text"`
	ColorCode     string `json:"color_code" db:"color_code"`
	ColorName     string `json:"color_name" db:"color_name"`
	ColorShade    string `json:"color_shade" db:"color_shade"`
	RGBColor      string `json:"rgb_color" db:"rgb_color"`
	// Price is kept as the raw feed string; not every row carries a
	// parseable number and unparseable prices must be excluded from range
	// computations, not coerced to zero.
	Price            string `json:"price" db:"price"`
	ImageURL         string `json:"image_url" db:"image_url"`
	ColorImageURL    string `json:"color_image_url" db:"color_image_url"`
	RetailDesc       string `json:"retail_description" db:"retail_description"`
	Specification    string `json:"specification" db:"specification"`
	FabricText       string `json:"fabric_text" db:"fabric_text"`
	CategoryText     string `json:"category_text" db:"category_text"`
	AccreditationTxt string `json:"accreditations_text" db:"accreditations_text"`
	Gender           string `json:"gender" db:"gender"`
	AgeGroup         string `json:"age_group" db:"age_group"`
	Sustainable      string `json:"sustainable" db:"sustainable"`
}

// ProductFilters is the full set of optional constraints a storefront query
// can carry. A nil or empty slice means "no constraint" for that facet,
// never "match nothing".
type ProductFilters struct {
	SearchQuery        string   `json:"searchQuery,omitempty"`
	ProductTypes       []string `json:"productTypes,omitempty"`
	Sizes              []string `json:"sizes,omitempty"`
	Colors             []string `json:"colors,omitempty"`
	ColorShades        []string `json:"colorShades,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	Materials          []string `json:"materials,omitempty"`
	Brands             []string `json:"brands,omitempty"`
	Genders            []string `json:"genders,omitempty"`
	AgeGroups          []string `json:"ageGroups,omitempty"`
	SustainableOrganic []string `json:"sustainableOrganic,omitempty"`
	Accreditations     []string `json:"accreditations,omitempty"`
	PriceMin           *float64 `json:"priceMin,omitempty"`
	PriceMax           *float64 `json:"priceMax,omitempty"`
}

// Normalize collapses empty facet slices to nil so that an empty selection
// behaves identically to an absent one.
func (f *ProductFilters) Normalize() {
	norm := func(s *[]string) {
		if *s != nil && len(*s) == 0 {
			*s = nil
		}
	}
	norm(&f.ProductTypes)
	norm(&f.Sizes)
	norm(&f.Colors)
	norm(&f.ColorShades)
	norm(&f.Categories)
	norm(&f.Materials)
	norm(&f.Brands)
	norm(&f.Genders)
	norm(&f.AgeGroups)
	norm(&f.SustainableOrganic)
	norm(&f.Accreditations)
}

// IsEmpty reports whether no constraint is set at all.
func (f *ProductFilters) IsEmpty() bool {
	return f.SearchQuery == "" &&
		len(f.ProductTypes) == 0 && len(f.Sizes) == 0 && len(f.Colors) == 0 &&
		len(f.ColorShades) == 0 && len(f.Categories) == 0 && len(f.Materials) == 0 &&
		len(f.Brands) == 0 && len(f.Genders) == 0 && len(f.AgeGroups) == 0 &&
		len(f.SustainableOrganic) == 0 && len(f.Accreditations) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil
}

// PriceRange is an inclusive numeric price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions is a read-only snapshot of every distinct facet value and the
// global price range. It is computed once per session and tolerates staleness
// against live catalog mutations.
type FilterOptions struct {
	ProductTypes   []string   `json:"productTypes"`
	Sizes          []string   `json:"sizes"`
	Colors         []string   `json:"colors"`
	Brands         []string   `json:"brands"`
	Genders        []string   `json:"genders"`
	Materials      []string   `json:"materials"`
	Categories     []string   `json:"categories"`
	ColorShades    []string   `json:"colorShades"`
	AgeGroups      []string   `json:"ageGroups"`
	Accreditations []string   `json:"accreditations"`
	PriceRange     PriceRange `json:"priceRange"`
}

// ColorOption is one distinct color of a product group, with a derived CSS
// swatch value and a representative image.
type ColorOption struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	RGBColor string `json:"rgbColor"`
	Image    string `json:"image"`
}

// ProductGroup is the style-level aggregate shown as one storefront card.
type ProductGroup struct {
	StyleCode  string           `json:"styleCode"`
	StyleName  string           `json:"styleName"`
	Brand      string           `json:"brand"`
	Variants   []ProductVariant `json:"variants"`
	Colors     []ColorOption    `json:"colors"`
	SizeRange  string           `json:"sizeRange"`
	PriceRange PriceRange       `json:"priceRange"`
}

// SizeEntry groups the raw size strings that normalize to one base size.
// Selecting a base size in the UI toggles all of its variants as a unit.
type SizeEntry struct {
	BaseSize string   `json:"baseSize"`
	Variants []string `json:"variants"`
}

// SizeGroup is one bucket of the size taxonomy, e.g. "Adult Sizes (XXS-8XL)".
type SizeGroup struct {
	Category string      `json:"category"`
	Entries  []SizeEntry `json:"entries"`
}

// SearchResult is one page of matching variants plus pagination metadata and
// the style-level grouping of that page.
type SearchResult struct {
	Products    []ProductVariant `json:"products"`
	Groups      []ProductGroup   `json:"groups"`
	TotalCount  int              `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	Page        int              `json:"page"`
	HasNextPage bool             `json:"hasNextPage"`
	HasPrevPage bool             `json:"hasPrevPage"`
}
