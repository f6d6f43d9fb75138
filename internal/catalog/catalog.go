// internal/catalog/catalog.go

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"retailtrends/internal/domain/trend"
)

// Product is one entry in a category pool.
type Product struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Festival describes a seasonal demand window. The season spans the days
// [15-duration/2, 15+duration/2] of its month, clamped to [1,30].
type Festival struct {
	Name     string   `json:"name"`
	Month    int      `json:"month"`
	Duration int      `json:"duration"`
	Tags     []string `json:"tags"`
}

// Season returns the first and last day of the festival's window.
func (f Festival) Season() (start, end int) {
	start = 15 - f.Duration/2
	if start < 1 {
		start = 1
	}
	end = 15 + f.Duration/2
	if end > 30 {
		end = 30
	}
	return start, end
}

type productsFile struct {
	ProductCategories  map[string][]Product `json:"product_categories"`
	AdditionalProducts map[string][]Product `json:"additional_products"`
}

// Catalog holds the static reference data every pipeline stage reads:
// regions grouped by tier, product pools per category, and festivals.
type Catalog struct {
	regions    map[string][]string
	categories map[string][]Product
	festivals  []Festival

	regionTiers    map[string]string
	categoryNames  []string
	orderedRegions []string
}

// Load reads regions.json, products.json and festivals.json from dir.
// Any missing or malformed file is an error; callers treat that as fatal
// before producing any records.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{}

	if err := readJSON(filepath.Join(dir, "regions.json"), &c.regions); err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}

	var pf productsFile
	if err := readJSON(filepath.Join(dir, "products.json"), &pf); err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	if len(pf.ProductCategories) == 0 {
		return nil, fmt.Errorf("loading products: no product categories defined")
	}
	c.categories = pf.ProductCategories
	for category, items := range pf.AdditionalProducts {
		c.categories[category] = append(c.categories[category], items...)
	}

	if err := readJSON(filepath.Join(dir, "festivals.json"), &c.festivals); err != nil {
		return nil, fmt.Errorf("loading festivals: %w", err)
	}
	for _, f := range c.festivals {
		if f.Month < 1 || f.Month > 12 {
			return nil, fmt.Errorf("festival %q has invalid month %d", f.Name, f.Month)
		}
	}

	c.index()
	return c, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// index builds the derived lookups after loading. Region order is fixed
// tier by tier so that record generation is deterministic for a seed.
func (c *Catalog) index() {
	c.regionTiers = make(map[string]string)
	for tier, cities := range c.regions {
		for _, city := range cities {
			c.regionTiers[city] = tier
		}
	}

	tierOrder := []string{trend.TierMetro, trend.TierOne, trend.TierTwo}
	seen := make(map[string]bool)
	for _, tier := range tierOrder {
		for _, city := range c.regions[tier] {
			c.orderedRegions = append(c.orderedRegions, city)
			seen[city] = true
		}
	}
	var extraTiers []string
	for tier := range c.regions {
		if tier != trend.TierMetro && tier != trend.TierOne && tier != trend.TierTwo {
			extraTiers = append(extraTiers, tier)
		}
	}
	sort.Strings(extraTiers)
	for _, tier := range extraTiers {
		for _, city := range c.regions[tier] {
			if !seen[city] {
				c.orderedRegions = append(c.orderedRegions, city)
			}
		}
	}

	for name := range c.categories {
		c.categoryNames = append(c.categoryNames, name)
	}
	sort.Strings(c.categoryNames)
}

// Regions returns every region in deterministic tier order.
func (c *Catalog) Regions() []string {
	return c.orderedRegions
}

// TierOf returns the tier a region belongs to, or TierOther for regions
// absent from the reference data.
func (c *Catalog) TierOf(region string) string {
	if tier, ok := c.regionTiers[region]; ok {
		return tier
	}
	return trend.TierOther
}

// Categories returns category names in deterministic order.
func (c *Catalog) Categories() []string {
	return c.categoryNames
}

// Products returns the product pool for a category.
func (c *Catalog) Products(category string) []Product {
	return c.categories[category]
}

// Festivals returns all configured festivals.
func (c *Catalog) Festivals() []Festival {
	return c.festivals
}

// FestivalOn returns the festival whose season covers the date, if any.
func (c *Catalog) FestivalOn(date time.Time) (Festival, bool) {
	month := int(date.Month())
	day := date.Day()
	for _, f := range c.festivals {
		start, end := f.Season()
		if month == f.Month && day >= start && day <= end {
			return f, true
		}
	}
	return Festival{}, false
}
