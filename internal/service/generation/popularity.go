// internal/service/generation/popularity.go

package generation

import (
	"math/rand"
	"strings"
	"time"

	"retailtrends/internal/catalog"
	"retailtrends/internal/domain/trend"
)

// Category names with dedicated boost tables.
const (
	categoryFashion     = "Fashion"
	categoryElectronics = "Electronics"
	categoryHomeDecor   = "Home Decor"
	categoryBeauty      = "Beauty"
)

var brandBoosts = map[string]float64{
	"iPhone":            1.5,
	"boAt":              1.3,
	"Forest Essentials": 1.4,
	"Lakmé":             1.2,
	"Samsung":           1.3,
	"Jaipur Rugs":       1.3,
}

// fixedPreferences is the hand-tuned category preference table for the
// major cities. All other regions get a synthesized table on first use.
var fixedPreferences = map[string]map[string]float64{
	"Delhi NCR": {categoryFashion: 1.5, categoryElectronics: 1.4, categoryHomeDecor: 1.2, categoryBeauty: 1.3},
	"Mumbai":    {categoryFashion: 1.6, categoryElectronics: 1.3, categoryHomeDecor: 1.1, categoryBeauty: 1.4},
	"Bangalore": {categoryFashion: 1.3, categoryElectronics: 1.6, categoryHomeDecor: 1.2, categoryBeauty: 1.2},
	"Chennai":   {categoryFashion: 1.4, categoryElectronics: 1.2, categoryHomeDecor: 1.3, categoryBeauty: 1.1},
	"Kolkata":   {categoryFashion: 1.5, categoryElectronics: 1.1, categoryHomeDecor: 1.5, categoryBeauty: 1.2},
	"Hyderabad": {categoryFashion: 1.4, categoryElectronics: 1.4, categoryHomeDecor: 1.2, categoryBeauty: 1.3},
}

// PreferenceCache holds synthesized regional category preferences so a
// region keeps a stable preference table for the remainder of a run. It is
// an explicit value owned by the model, not process-wide state.
type PreferenceCache struct {
	prefs map[string]map[string]float64
}

// NewPreferenceCache creates an empty preference cache.
func NewPreferenceCache() *PreferenceCache {
	return &PreferenceCache{prefs: make(map[string]map[string]float64)}
}

func (c *PreferenceCache) get(region string) (map[string]float64, bool) {
	p, ok := c.prefs[region]
	return p, ok
}

func (c *PreferenceCache) put(region string, p map[string]float64) {
	c.prefs[region] = p
}

// PopularityModel computes the multiplicative demand signal for a
// (date, product, region) combination, clamped to [0.5, 3.0].
type PopularityModel struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	cache   *PreferenceCache
}

// NewPopularityModel creates a popularity model around the shared seeded
// generator and an explicit preference cache.
func NewPopularityModel(cat *catalog.Catalog, rng *rand.Rand, cache *PreferenceCache) *PopularityModel {
	if cache == nil {
		cache = NewPreferenceCache()
	}
	return &PopularityModel{catalog: cat, rng: rng, cache: cache}
}

// Popularity returns the demand multiplier for one product-region-day.
func (m *PopularityModel) Popularity(date time.Time, category, productName string, tags []string, region string) float64 {
	popularity := 1.0

	if festival, ok := m.catalog.FestivalOn(date); ok {
		popularity *= festivalBoost(category, tags, festival)
	}

	for brand, boost := range brandBoosts {
		if strings.Contains(strings.ToLower(productName), strings.ToLower(brand)) {
			popularity *= boost
		}
	}

	popularity *= m.regionalPreference(region, category)

	if hasAnyTag(tags, "luxury", "premium", "designer") {
		popularity *= 1.3
	} else if hasAnyTag(tags, "affordable", "value-for-money") {
		popularity *= 1.1
	}

	popularity *= uniform(m.rng, 0.7, 1.3)

	if popularity < 0.5 {
		return 0.5
	}
	if popularity > 3.0 {
		return 3.0
	}
	return popularity
}

// festivalBoost returns the category multiplier while a festival season is
// active. Categories without a dedicated table get a flat 1.3.
func festivalBoost(category string, tags []string, festival catalog.Festival) float64 {
	switch category {
	case categoryFashion:
		if tagsIntersect(tags, festival.Tags, "traditional", "ethnic", "festive") {
			return 2.0
		}
		return 1.4
	case categoryElectronics:
		if contains(festival.Tags, "gifts") {
			return 1.6
		}
		return 1.2
	case categoryHomeDecor:
		if tagsIntersect(tags, festival.Tags, "lights", "decoration", "traditional") {
			return 2.2
		}
		return 1.5
	case categoryBeauty:
		if contains(festival.Tags, "gift") {
			return 1.5
		}
		return 1.3
	default:
		return 1.3
	}
}

// regionalPreference looks up the fixed table first, then the per-run
// synthesized table, building it on first use for an unseen region.
func (m *PopularityModel) regionalPreference(region, category string) float64 {
	if prefs, ok := fixedPreferences[region]; ok {
		return prefValue(prefs, category)
	}
	if prefs, ok := m.cache.get(region); ok {
		return prefValue(prefs, category)
	}

	prefs := m.synthesizePreferences(region)
	m.cache.put(region, prefs)
	return prefValue(prefs, category)
}

func (m *PopularityModel) synthesizePreferences(region string) map[string]float64 {
	if m.catalog.TierOf(region) == trend.TierOne {
		return map[string]float64{
			categoryFashion:     1.3 + uniform(m.rng, -0.15, 0.15),
			categoryElectronics: 1.2 + uniform(m.rng, -0.15, 0.15),
			categoryHomeDecor:   1.3 + uniform(m.rng, -0.15, 0.15),
			categoryBeauty:      1.2 + uniform(m.rng, -0.15, 0.15),
		}
	}
	return map[string]float64{
		categoryFashion:     1.1 + uniform(m.rng, -0.2, 0.2),
		categoryElectronics: 1.0 + uniform(m.rng, -0.2, 0.2),
		categoryHomeDecor:   1.4 + uniform(m.rng, -0.2, 0.2),
		categoryBeauty:      1.1 + uniform(m.rng, -0.2, 0.2),
	}
}

func prefValue(prefs map[string]float64, category string) float64 {
	if v, ok := prefs[category]; ok {
		return v
	}
	return 1.0
}

// tagsIntersect reports whether any product tag from the allowed set also
// appears in the festival's tags.
func tagsIntersect(productTags, festivalTags []string, allowed ...string) bool {
	for _, tag := range productTags {
		if contains(allowed, tag) && contains(festivalTags, tag) {
			return true
		}
	}
	return false
}

func hasAnyTag(tags []string, wanted ...string) bool {
	for _, tag := range tags {
		if contains(wanted, tag) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
