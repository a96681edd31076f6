package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"stitchpress/internal/config"
	"stitchpress/internal/domain"
	"stitchpress/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func facetTestConfig() config.CatalogConfig {
	return config.CatalogConfig{
		FacetSampleSize:    100,
		FacetValueCap:      1000,
		FacetCacheTTL:      60,
		MaterialVocabulary: []string{"Cotton", "Organic Cotton", "Polyester", "Wool"},
		CategoryDenylist:   []string{"Top 1000", "New in"},
	}
}

func TestFacetOptions_AggregatesAllFacets(t *testing.T) {
	repo := &fakeCatalogRepo{
		distinct: map[string][]string{
			"product_type": {"Hoodies", "T-Shirts"},
			"size_name":    {"L", "M"},
			"color_name":   {"Navy", "Red"},
			"brand":        {"AWDis", "Fruit of the Loom"},
			"gender":       {"Mens", "Unisex"},
		},
		prices: []string{"4.99", "32.50", "POA"},
		samples: []repository.FacetSampleRow{
			{
				FabricText:       "100% Organic Cotton, brushed",
				CategoryText:     "Hoodies | Top 1000 | Sustainable",
				AccreditationTxt: "OEKO-TEX | GOTS",
				ColorShade:       "Blues",
				AgeGroup:         "Adult",
			},
			{
				FabricText:   "Polyester blend",
				CategoryText: "New in | Workwear",
				ColorShade:   "Reds",
				AgeGroup:     "Kids",
			},
		},
	}

	svc := NewFacetService(repo, facetTestConfig(), nil, zap.NewNop())
	options := svc.Options(context.Background())

	if !reflect.DeepEqual(options.ProductTypes, []string{"Hoodies", "T-Shirts"}) {
		t.Errorf("unexpected product types: %v", options.ProductTypes)
	}
	if options.PriceRange != (domain.PriceRange{Min: 4, Max: 33}) {
		t.Errorf("expected floor/ceil price bounds, got %+v", options.PriceRange)
	}
	// "Cotton" substring-matches "Organic Cotton" text too, so both survive.
	if !reflect.DeepEqual(options.Materials, []string{"Cotton", "Organic Cotton", "Polyester"}) {
		t.Errorf("unexpected materials: %v", options.Materials)
	}
	if !reflect.DeepEqual(options.Categories, []string{"Hoodies", "Sustainable", "Workwear"}) {
		t.Errorf("denylisted categories should be dropped, got %v", options.Categories)
	}
	if !reflect.DeepEqual(options.Accreditations, []string{"GOTS", "OEKO-TEX"}) {
		t.Errorf("unexpected accreditations: %v", options.Accreditations)
	}
	if !reflect.DeepEqual(options.ColorShades, []string{"Blues", "Reds"}) {
		t.Errorf("unexpected color shades: %v", options.ColorShades)
	}
	if !reflect.DeepEqual(options.AgeGroups, []string{"Adult", "Kids"}) {
		t.Errorf("unexpected age groups: %v", options.AgeGroups)
	}
}

func TestFacetOptions_FacetFailureDegradesToEmpty(t *testing.T) {
	repo := &fakeCatalogRepo{
		distinct: map[string][]string{
			"product_type": {"Hoodies"},
		},
		distinctErr: map[string]error{
			"brand": errors.New("timeout"),
		},
	}

	svc := NewFacetService(repo, facetTestConfig(), nil, zap.NewNop())
	options := svc.Options(context.Background())

	if len(options.Brands) != 0 {
		t.Errorf("failed facet should come back empty, got %v", options.Brands)
	}
	if !reflect.DeepEqual(options.ProductTypes, []string{"Hoodies"}) {
		t.Errorf("other facets should still be served, got %v", options.ProductTypes)
	}
}

func TestFacetOptions_NoParseablePricesUsesDefaultRange(t *testing.T) {
	repo := &fakeCatalogRepo{prices: []string{"POA", "on request"}}

	svc := NewFacetService(repo, facetTestConfig(), nil, zap.NewNop())
	options := svc.Options(context.Background())

	if options.PriceRange != defaultPriceRange {
		t.Errorf("expected default price range, got %+v", options.PriceRange)
	}
}

func TestFacetOptions_ServedFromCacheOnSecondCall(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	repo := &fakeCatalogRepo{
		distinct: map[string][]string{"product_type": {"Hoodies"}},
		prices:   []string{"10"},
	}

	svc := NewFacetService(repo, facetTestConfig(), cache, zap.NewNop())
	ctx := context.Background()

	first := svc.Options(ctx)

	// Change the underlying data; a cached snapshot must not reflect it.
	repo.distinct["product_type"] = []string{"Hoodies", "T-Shirts"}

	second := svc.Options(ctx)

	if !reflect.DeepEqual(first.ProductTypes, second.ProductTypes) {
		t.Errorf("second call should be served from cache: %v vs %v", first.ProductTypes, second.ProductTypes)
	}
}
