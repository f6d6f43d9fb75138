// internal/service/generation/runner_test.go

package generation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/domain/trend"
	"retailtrends/internal/service/sentiment"
)

// stubOracle labels four of every five texts positive, the fifth neutral.
type stubOracle struct{}

func (stubOracle) ClassifyBatch(_ context.Context, texts []string) []sentiment.Result {
	results := make([]sentiment.Result, len(texts))
	for i := range results {
		if i%5 == 4 {
			results[i] = sentiment.Result{Label: trend.SentimentNeutral, Score: 0.6}
		} else {
			results[i] = sentiment.Result{Label: trend.SentimentPositive, Score: 0.9}
		}
	}
	return results
}

func newTestRunner(t *testing.T, latestKey string) (*Runner, *storage.RecordStore) {
	t.Helper()
	cat := testCatalog(t)
	rng := rand.New(rand.NewSource(42))
	model := NewPopularityModel(cat, rng, NewPreferenceCache())
	synthesizer := NewSynthesizer(cat, model, stubOracle{}, rng, SynthesizerConfig{
		Days:            10,
		SamplePostLimit: 5,
	}, zerolog.Nop())
	selector := NewSelector(rng, 0.10, 0.05)
	store := storage.NewRecordStore(nil, storage.NewFileStore(t.TempDir()), zerolog.Nop())

	runner := NewRunner(cat, synthesizer, selector, store, nil, RunnerConfig{
		Days:      10,
		LatestKey: latestKey,
	}, rng, zerolog.Nop())
	return runner, store
}

func TestRunnerRun(t *testing.T) {
	runner, store := newTestRunner(t, "test_trends")

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, result.Key, "test_trends_")
	assert.Greater(t, result.RecordCount, 0)
	assert.GreaterOrEqual(t, result.TrendingCount, 1)
	assert.True(t, result.UsedFallback, "no remote store configured")
	assert.False(t, result.CompletedAt.Before(result.StartedAt))

	// Both the timestamped key and the latest key hold the same record set.
	latest, err := store.LoadRecords(context.Background(), "test_trends")
	require.NoError(t, err)
	assert.Len(t, latest, result.RecordCount)

	timestamped, err := store.LoadRecords(context.Background(), result.Key)
	require.NoError(t, err)
	assert.Len(t, timestamped, result.RecordCount)

	ids := make(map[int]bool)
	for _, rec := range latest {
		assert.False(t, ids[rec.ID], "record IDs must be unique")
		ids[rec.ID] = true
		assert.Len(t, rec.DailyStats, 10)
		assert.NotEqual(t, "Pending", rec.Recommendation)
	}
}

func TestRunnerHonorsContextCancellation(t *testing.T) {
	runner, _ := newTestRunner(t, "cancelled")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleProducts(t *testing.T) {
	runner, _ := newTestRunner(t, "sampling")

	pool := runner.catalog.Products("Fashion")
	require.Len(t, pool, 2)

	for i := 0; i < 100; i++ {
		sampled := runner.sampleProducts(pool)
		assert.GreaterOrEqual(t, len(sampled), 1)
		assert.LessOrEqual(t, len(sampled), len(pool))
	}

	assert.Nil(t, runner.sampleProducts(nil))
}
