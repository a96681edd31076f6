package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stitchpress/internal/domain"
)

var (
	ErrUnknownFacetColumn = errors.New("unknown facet column")
)

// numericPrice guards the price cast: prices arrive as feed strings and rows
// with unparseable values must never satisfy a numeric constraint.
const numericPrice = `(price ~ '^\s*[0-9]+(\.[0-9]+)?\s*$' AND price::numeric`

// facetColumns whitelists the columns the distinct-value queries may touch.
var facetColumns = map[string]bool{
	"product_type": true,
	"size_name":    true,
	"color_name":   true,
	"brand":        true,
	"gender":       true,
}

// FacetSampleRow carries the free-text fields of one sampled catalog row,
// used for the heuristic facet extraction.
type FacetSampleRow struct {
	FabricText       string
	CategoryText     string
	AccreditationTxt string
	ColorShade       string
	AgeGroup         string
}

// CatalogRepository defines the read interface over the product variant table.
type CatalogRepository interface {
	Search(ctx context.Context, filters domain.ProductFilters, page, pageSize int) ([]domain.ProductVariant, int, error)
	DistinctValues(ctx context.Context, column string, cap int) ([]string, error)
	Prices(ctx context.Context) ([]string, error)
	Sample(ctx context.Context, limit int) ([]FacetSampleRow, error)
	SizeNames(ctx context.Context, productTypes []string) ([]string, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

const variantColumns = `
	id, style_code, style_name, brand, product_type, size_name, size_range_text,
	color_code, color_name, color_shade, rgb_color, price, image_url,
	color_image_url, retail_description, specification, fabric_text,
	category_text, accreditations_text, gender, age_group, sustainable
`

// Search returns one page of variants matching the filters plus the total
// match count. Rows are ordered by style code then row id so that pagination
// is deterministic and variants of a style stay adjacent.
func (r *catalogRepository) Search(ctx context.Context, filters domain.ProductFilters, page, pageSize int) ([]domain.ProductVariant, int, error) {
	where, args := buildConstraints(filters)

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM product_variants %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count variants: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM product_variants
		%s
		ORDER BY style_code ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, variantColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search variants: %w", err)
	}
	defer rows.Close()

	variants := []domain.ProductVariant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, 0, err
		}
		variants = append(variants, v)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating variants: %w", err)
	}

	return variants, total, nil
}

func scanVariant(rows *sql.Rows) (domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := rows.Scan(
		&v.ID, &v.StyleCode, &v.StyleName, &v.Brand, &v.ProductType,
		&v.SizeName, &v.SizeRangeText, &v.ColorCode, &v.ColorName,
		&v.ColorShade, &v.RGBColor, &v.Price, &v.ImageURL, &v.ColorImageURL,
		&v.RetailDesc, &v.Specification, &v.FabricText, &v.CategoryText,
		&v.AccreditationTxt, &v.Gender, &v.AgeGroup, &v.Sustainable,
	)
	if err != nil {
		return v, fmt.Errorf("failed to scan variant: %w", err)
	}
	return v, nil
}

// buildConstraints maps filters to SQL predicates: AND across facets, OR
// within a facet. Empty facet slices produce no constraint at all.
func buildConstraints(filters domain.ProductFilters) ([]string, []any) {
	var (
		where []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	membership := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = next(v)
		}
		where = append(where, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	}

	substringAny := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		clauses := make([]string, len(values))
		for i, v := range values {
			clauses[i] = fmt.Sprintf("%s ILIKE %s", column, next("%"+v+"%"))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}

	// Every surviving search token must match at least one text field;
	// tokens combine with AND, fields with OR.
	for _, token := range TokenizeSearchQuery(filters.SearchQuery) {
		p := next("%" + token + "%")
		where = append(where, fmt.Sprintf(
			"(style_name ILIKE %[1]s OR brand ILIKE %[1]s OR retail_description ILIKE %[1]s OR specification ILIKE %[1]s OR product_type ILIKE %[1]s)",
			p,
		))
	}

	membership("product_type", filters.ProductTypes)
	membership("size_name", filters.Sizes)
	membership("color_name", filters.Colors)
	membership("color_shade", filters.ColorShades)
	membership("brand", filters.Brands)
	membership("gender", filters.Genders)
	membership("age_group", filters.AgeGroups)
	membership("sustainable", filters.SustainableOrganic)

	substringAny("fabric_text", filters.Materials)
	substringAny("category_text", filters.Categories)
	substringAny("accreditations_text", filters.Accreditations)

	if filters.PriceMin != nil {
		where = append(where, fmt.Sprintf("%s >= %s)", numericPrice, next(*filters.PriceMin)))
	}
	if filters.PriceMax != nil {
		where = append(where, fmt.Sprintf("%s <= %s)", numericPrice, next(*filters.PriceMax)))
	}

	return where, args
}

// DistinctValues fetches the distinct non-empty values of a whitelisted facet
// column, sorted ascending and bounded by cap.
func (r *catalogRepository) DistinctValues(ctx context.Context, column string, cap int) ([]string, error) {
	if !facetColumns[column] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFacetColumn, column)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %[1]s
		FROM product_variants
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		ORDER BY %[1]s ASC
		LIMIT $1
	`, column)

	rows, err := r.db.QueryContext(ctx, query, cap)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distinct %s: %w", column, err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

// Prices fetches every non-empty raw price string in the catalog.
func (r *catalogRepository) Prices(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT price FROM product_variants
		WHERE price IS NOT NULL AND price <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

// Sample fetches the free-text fields of up to limit rows. Free-text facet
// derivation deliberately works on a bounded sample of the catalog.
func (r *catalogRepository) Sample(ctx context.Context, limit int) ([]FacetSampleRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT fabric_text, category_text, accreditations_text, color_shade, age_group
		FROM product_variants
		ORDER BY id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample catalog rows: %w", err)
	}
	defer rows.Close()

	samples := []FacetSampleRow{}
	for rows.Next() {
		var s FacetSampleRow
		if err := rows.Scan(&s.FabricText, &s.CategoryText, &s.AccreditationTxt, &s.ColorShade, &s.AgeGroup); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		samples = append(samples, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sample rows: %w", err)
	}

	return samples, nil
}

// SizeNames fetches the distinct size names, optionally scoped to the given
// product types, for the size taxonomy menu.
func (r *catalogRepository) SizeNames(ctx context.Context, productTypes []string) ([]string, error) {
	query := `
		SELECT DISTINCT size_name
		FROM product_variants
		WHERE size_name IS NOT NULL AND size_name <> ''
	`
	args := []any{}

	if len(productTypes) > 0 {
		placeholders := make([]string, len(productTypes))
		for i, pt := range productTypes {
			args = append(args, pt)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" AND product_type IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY size_name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch size names: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating values: %w", err)
	}
	return values, nil
}
