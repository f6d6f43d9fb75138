// internal/config/config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled())
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, 10, cfg.Sentiment.BatchSize)
	assert.Equal(t, "data", cfg.Store.LocalDir)
	assert.Equal(t, "retail_trends_data", cfg.Store.LatestKey)
	assert.Equal(t, int64(42), cfg.Generation.Seed)
	assert.Equal(t, 30, cfg.Generation.Days)
	assert.InDelta(t, 0.10, cfg.Generation.RegionalCap, 0.001)
	assert.InDelta(t, 0.05, cfg.Generation.GlobalCap, 0.001)
	assert.Equal(t, 5, cfg.Generation.SamplePostLimit)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("GENERATION_SEED", "7")
	t.Setenv("GENERATION_DAYS", "14")
	t.Setenv("SENTIMENT_API_TIMEOUT", "5s")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int64(7), cfg.Generation.Seed)
	assert.Equal(t, 14, cfg.Generation.Days)
	assert.Equal(t, 5*time.Second, cfg.Sentiment.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Run("bad days", func(t *testing.T) {
		t.Setenv("GENERATION_DAYS", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "days")
	})

	t.Run("bad regional cap", func(t *testing.T) {
		t.Setenv("TREND_REGIONAL_CAP", "1.5")
		_, err := Load()
		assert.ErrorContains(t, err, "regional")
	})

	t.Run("bad global cap", func(t *testing.T) {
		t.Setenv("TREND_GLOBAL_CAP", "-0.1")
		_, err := Load()
		assert.ErrorContains(t, err, "global")
	})

	t.Run("bad batch size", func(t *testing.T) {
		t.Setenv("SENTIMENT_BATCH_SIZE", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "batch")
	})
}
