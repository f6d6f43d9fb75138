// internal/catalog/catalog_test.go

package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailtrends/internal/domain/trend"
)

func writeTestConfig(t *testing.T, regions, products, festivals string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regions.json"), []byte(regions), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(products), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "festivals.json"), []byte(festivals), 0o644))
	return dir
}

const testRegions = `{
	"Metro": ["Mumbai", "Delhi NCR"],
	"Tier-1": ["Pune"],
	"Tier-2": ["Indore"]
}`

const testProducts = `{
	"product_categories": {
		"Fashion": [{"name": "Silk Saree", "tags": ["traditional", "luxury"]}],
		"Electronics": [{"name": "iPhone 15 Pro", "tags": ["premium"]}]
	},
	"additional_products": {
		"Fashion": [{"name": "Kurta Set", "tags": ["ethnic", "affordable"]}]
	}
}`

const testFestivals = `[
	{"name": "Diwali", "month": 11, "duration": 12, "tags": ["lights", "gifts", "traditional"]}
]`

func TestLoad(t *testing.T) {
	dir := writeTestConfig(t, testRegions, testProducts, testFestivals)

	cat, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mumbai", "Delhi NCR", "Pune", "Indore"}, cat.Regions())
	assert.Equal(t, []string{"Electronics", "Fashion"}, cat.Categories())
	assert.Len(t, cat.Festivals(), 1)
}

func TestLoadMergesAdditionalProducts(t *testing.T) {
	dir := writeTestConfig(t, testRegions, testProducts, testFestivals)

	cat, err := Load(dir)
	require.NoError(t, err)

	fashion := cat.Products("Fashion")
	require.Len(t, fashion, 2)
	assert.Equal(t, "Silk Saree", fashion[0].Name)
	assert.Equal(t, "Kurta Set", fashion[1].Name)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadInvalidFestivalMonth(t *testing.T) {
	dir := writeTestConfig(t, testRegions, testProducts,
		`[{"name": "Broken", "month": 13, "duration": 3, "tags": []}]`)

	_, err := Load(dir)
	assert.ErrorContains(t, err, "invalid month")
}

func TestTierOf(t *testing.T) {
	dir := writeTestConfig(t, testRegions, testProducts, testFestivals)

	cat, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, trend.TierMetro, cat.TierOf("Mumbai"))
	assert.Equal(t, trend.TierOne, cat.TierOf("Pune"))
	assert.Equal(t, trend.TierTwo, cat.TierOf("Indore"))
	assert.Equal(t, trend.TierOther, cat.TierOf("Atlantis"))
}

func TestFestivalSeason(t *testing.T) {
	f := Festival{Name: "Diwali", Month: 11, Duration: 12}

	start, end := f.Season()
	assert.Equal(t, 9, start)
	assert.Equal(t, 21, end)

	wide := Festival{Name: "Long", Month: 6, Duration: 40}
	start, end = wide.Season()
	assert.Equal(t, 1, start)
	assert.Equal(t, 30, end)
}

func TestFestivalOn(t *testing.T) {
	dir := writeTestConfig(t, testRegions, testProducts, testFestivals)

	cat, err := Load(dir)
	require.NoError(t, err)

	inSeason := time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)
	f, ok := cat.FestivalOn(inSeason)
	require.True(t, ok)
	assert.Equal(t, "Diwali", f.Name)

	offSeason := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	_, ok = cat.FestivalOn(offSeason)
	assert.False(t, ok)

	wrongMonth := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	_, ok = cat.FestivalOn(wrongMonth)
	assert.False(t, ok)
}
