package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"stitchpress/internal/domain"
)

// fallbackSwatch is the neutral placeholder used when no color can be
// derived for a variant.
const fallbackSwatch = "#9CA3AF"

// basicColorHexes maps recognizable color words to fixed swatch hexes.
// Checked in order; more specific words come before their containers so
// "navy blue" resolves to navy.
var basicColorHexes = []struct {
	word string
	hex  string
}{
	{"black", "#1F2937"},
	{"white", "#FFFFFF"},
	{"navy", "#1E3A5F"},
	{"blue", "#3B82F6"},
	{"red", "#EF4444"},
	{"green", "#22C55E"},
	{"yellow", "#EAB308"},
	{"grey", "#6B7280"},
	{"gray", "#6B7280"},
	{"orange", "#F97316"},
	{"purple", "#A855F7"},
	{"pink", "#EC4899"},
	{"brown", "#92400E"},
}

var rgbComponentRe = regexp.MustCompile(`\d+`)

// GroupProducts folds a flat, ordered page of variant rows into style-level
// aggregates, one per distinct style code, ordered by style code ascending.
func GroupProducts(variants []domain.ProductVariant) []domain.ProductGroup {
	byStyle := map[string]*domain.ProductGroup{}
	seenColors := map[string]map[string]bool{}

	for _, v := range variants {
		group := byStyle[v.StyleCode]
		if group == nil {
			group = &domain.ProductGroup{
				StyleCode: v.StyleCode,
				StyleName: v.StyleName,
				Brand:     v.Brand,
				// Size range text is precomputed upstream; the first
				// variant's value stands for the whole style.
				SizeRange: v.SizeRangeText,
			}
			byStyle[v.StyleCode] = group
			seenColors[v.StyleCode] = map[string]bool{}
		}

		group.Variants = append(group.Variants, v)

		// First variant seen with a color code defines its tuple.
		if !seenColors[v.StyleCode][v.ColorCode] {
			seenColors[v.StyleCode][v.ColorCode] = true
			group.Colors = append(group.Colors, domain.ColorOption{
				Code:     v.ColorCode,
				Name:     v.ColorName,
				RGBColor: DeriveSwatchColor(v.ColorName, v.RGBColor),
				Image:    colorImage(v),
			})
		}
	}

	groups := make([]domain.ProductGroup, 0, len(byStyle))
	for _, group := range byStyle {
		group.PriceRange = variantPriceRange(group.Variants)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].StyleCode < groups[j].StyleCode
	})

	return groups
}

// variantPriceRange computes the min/max over the parseable, positive prices
// of the variants. Unparseable and non-positive prices are excluded; if none
// survive, both bounds are zero.
func variantPriceRange(variants []domain.ProductVariant) domain.PriceRange {
	var (
		found    bool
		min, max float64
	)

	for _, v := range variants {
		price, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
		if err != nil || price != price || price <= 0 {
			continue
		}
		if !found {
			min, max = price, price
			found = true
			continue
		}
		if price < min {
			min = price
		}
		if price > max {
			max = price
		}
	}

	if !found {
		return domain.PriceRange{}
	}
	return domain.PriceRange{Min: min, Max: max}
}

// DeriveSwatchColor resolves a CSS color for a variant swatch. A known color
// word in the name wins; otherwise the raw "r, g, b" feed string is parsed
// (first pipe-delimited segment, components validated 0-255); otherwise a
// neutral gray placeholder.
func DeriveSwatchColor(colorName, rawRGB string) string {
	name := strings.ToLower(colorName)
	for _, c := range basicColorHexes {
		if strings.Contains(name, c.word) {
			return c.hex
		}
	}

	if css, ok := parseRGBString(rawRGB); ok {
		return css
	}

	return fallbackSwatch
}

func parseRGBString(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	segment := raw
	if i := strings.Index(raw, "|"); i >= 0 {
		segment = raw[:i]
	}

	components := rgbComponentRe.FindAllString(segment, -1)
	if len(components) < 3 {
		return "", false
	}

	values := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(components[i])
		if err != nil || n < 0 || n > 255 {
			return "", false
		}
		values[i] = n
	}

	return fmt.Sprintf("rgb(%d, %d, %d)", values[0], values[1], values[2]), true
}

func colorImage(v domain.ProductVariant) string {
	if v.ColorImageURL != "" {
		return v.ColorImageURL
	}
	return v.ImageURL
}
