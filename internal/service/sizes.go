package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"stitchpress/internal/domain"
)

// Size taxonomy bucket names, in display order.
const (
	BucketBabyToddler  = "Baby & Toddler (0-24 months)"
	BucketKids         = "Kids (2-5 years)"
	BucketYouth        = "Youth (6-15 years)"
	BucketWomens       = "Women's Numeric"
	BucketFootwear     = "Footwear"
	BucketMeasurements = "Measurements (Chest/Waist/Collar)"
	BucketAdult        = "Adult Sizes (XXS-8XL)"
	BucketNumeric      = "Numeric Sizes"
	BucketOneSize      = "One Size / Special"
	BucketOther        = "Other"
)

var bucketOrder = []string{
	BucketBabyToddler,
	BucketKids,
	BucketYouth,
	BucketWomens,
	BucketFootwear,
	BucketMeasurements,
	BucketAdult,
	BucketNumeric,
	BucketOneSize,
	BucketOther,
}

var (
	// Alternation order matters: longer tokens must win over their prefixes
	// ("XXS" before "XS", "2XL" before "L").
	letterSizeRe = regexp.MustCompile(`(?i)^(xxs|xs|\dxl|xl|s|m|l)\b`)
	yearsPairRe  = regexp.MustCompile(`(?i)^(\d+)/\d+\s*years?$`)
	womNumberRe  = regexp.MustCompile(`(?i)^wom\s+(\d+)`)
	numberFitRe  = regexp.MustCompile(`(?i)^(\d+)\s*(long|reg|short|tall|mod)\b`)

	kidsYearsRe     = regexp.MustCompile(`(?i)^[1-5]/?\d?\s*years?$`)
	kidsPlusYearsRe = regexp.MustCompile(`(?i)^[2-5]\+\s*years?$`)
	youthYearsRe    = regexp.MustCompile(`(?i)^([6-9]|1[0-5])/?\d*\s*years?$`)
	bareNumberRe    = regexp.MustCompile(`^\d+$`)
)

// oneSizeValues are treated as standalone entries rather than grouped under
// an extracted base size.
var oneSizeValues = map[string]bool{
	"one size": true,
	"child":    true,
	"infant":   true,
	"junior":   true,
	"youth":    true,
}

// ExtractBaseSize normalizes a raw size string to the base label its
// variants group under. Rules apply in priority order; the first hit wins:
// a leading letter-size token ("L Long" -> "L"), a year pair
// ("6/7 Years" -> "6 Years"), a women's numeric ("Wom 12/14" -> "Wom 12"),
// a number with a fit suffix ("32 Long" -> "32"), else the string unchanged.
func ExtractBaseSize(raw string) string {
	s := strings.TrimSpace(raw)

	if m := letterSizeRe.FindString(s); m != "" {
		return strings.ToUpper(m)
	}
	if m := yearsPairRe.FindStringSubmatch(s); m != nil {
		return m[1] + " Years"
	}
	if m := womNumberRe.FindStringSubmatch(s); m != nil {
		return "Wom " + m[1]
	}
	if m := numberFitRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	return raw
}

// classifySize assigns a raw size string to exactly one taxonomy bucket.
// Rules apply in this exact order; several buckets overlap under naive
// substring tests, so reordering changes the result.
func classifySize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(s, "months") || s == "new born" {
		return BucketBabyToddler
	}
	if kidsYearsRe.MatchString(s) || kidsPlusYearsRe.MatchString(s) {
		return BucketKids
	}
	if youthYearsRe.MatchString(s) {
		return BucketYouth
	}
	if strings.HasPrefix(s, "wom ") {
		return BucketWomens
	}
	if strings.HasPrefix(s, "socks ") ||
		(strings.HasPrefix(s, "uk ") && !strings.Contains(s, "chest") && !strings.Contains(s, "waist")) {
		return BucketFootwear
	}
	if strings.Contains(s, "waist") || strings.Contains(s, "chest") || isCollarNumber(s) {
		return BucketMeasurements
	}
	if letterSizeRe.MatchString(s) ||
		strings.HasSuffix(s, "youth") || strings.HasSuffix(s, "boys") || strings.HasSuffix(s, "ly") {
		return BucketAdult
	}
	if len(s) > 0 && s[0] >= '0' && s[0] <= '9' &&
		!strings.Contains(s, "litre") && !strings.Contains(s, "mm") && !strings.Contains(s, "cm") {
		return BucketNumeric
	}
	if oneSizeValues[s] {
		return BucketOneSize
	}

	return BucketOther
}

// isCollarNumber reports whether s is a bare number in the collar range
// 13-23, which denotes a measurement rather than a generic numeric size.
func isCollarNumber(s string) bool {
	if !bareNumberRe.MatchString(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 13 && n <= 23
}

// GroupSizes buckets the distinct raw size strings into the taxonomy and
// groups each bucket's strings under their base size. Every input string
// lands in exactly one bucket under exactly one entry; empty buckets are
// omitted; entries sort with numeric-aware comparison.
func GroupSizes(rawSizes []string) []domain.SizeGroup {
	type bucketEntries struct {
		order   []string
		entries map[string][]string
	}

	buckets := map[string]*bucketEntries{}

	for _, raw := range rawSizes {
		bucket := classifySize(raw)

		key := raw
		if bucket != BucketOneSize && bucket != BucketOther {
			key = ExtractBaseSize(raw)
		}

		b := buckets[bucket]
		if b == nil {
			b = &bucketEntries{entries: map[string][]string{}}
			buckets[bucket] = b
		}
		if _, seen := b.entries[key]; !seen {
			b.order = append(b.order, key)
		}
		b.entries[key] = append(b.entries[key], raw)
	}

	groups := []domain.SizeGroup{}
	for _, bucket := range bucketOrder {
		b := buckets[bucket]
		if b == nil {
			continue
		}

		sort.Slice(b.order, func(i, j int) bool {
			return naturalLess(b.order[i], b.order[j])
		})

		entries := make([]domain.SizeEntry, 0, len(b.order))
		for _, key := range b.order {
			entries = append(entries, domain.SizeEntry{
				BaseSize: key,
				Variants: b.entries[key],
			})
		}

		groups = append(groups, domain.SizeGroup{Category: bucket, Entries: entries})
	}

	return groups
}

// naturalLess compares strings segment-wise, ordering embedded numbers by
// value so "2XL" sorts before "10XL" and "6 Years" before "14 Years".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aNum, aRest, aIsNum := leadingChunk(a)
		bNum, bRest, bIsNum := leadingChunk(b)

		if aIsNum && bIsNum {
			an, _ := strconv.Atoi(aNum)
			bn, _ := strconv.Atoi(bNum)
			if an != bn {
				return an < bn
			}
		} else if aNum != bNum {
			return aNum < bNum
		}

		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// leadingChunk splits off the leading run of digits or non-digits.
func leadingChunk(s string) (chunk, rest string, isNum bool) {
	isNum = s[0] >= '0' && s[0] <= '9'
	i := 1
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') == isNum {
		i++
	}
	return s[:i], s[i:], isNum
}
