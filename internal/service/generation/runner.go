// internal/service/generation/runner.go

package generation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/catalog"
	"retailtrends/internal/domain/trend"
	"retailtrends/internal/metrics"
)

// RunnerConfig contains configuration for the generation runner
type RunnerConfig struct {
	Days        int
	LatestKey   string
	EventsTopic string
}

// RunResult summarizes one completed generation run.
type RunResult struct {
	RunID         string    `json:"run_id"`
	Key           string    `json:"key"`
	RecordCount   int       `json:"record_count"`
	TrendingCount int       `json:"trending_count"`
	UsedFallback  bool      `json:"used_fallback"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Runner orchestrates a full generation run: product sampling, record
// synthesis, trending selection, persistence, and the completion event.
type Runner struct {
	catalog     *catalog.Catalog
	synthesizer *Synthesizer
	selector    *Selector
	store       *storage.RecordStore
	eventBus    *nats.Conn // nil disables event publishing
	config      RunnerConfig
	rng         *rand.Rand
	log         zerolog.Logger
}

// NewRunner creates a generation runner. eventBus may be nil.
func NewRunner(
	cat *catalog.Catalog,
	synthesizer *Synthesizer,
	selector *Selector,
	store *storage.RecordStore,
	eventBus *nats.Conn,
	config RunnerConfig,
	rng *rand.Rand,
	log zerolog.Logger,
) *Runner {
	if config.Days <= 0 {
		config.Days = 30
	}
	if config.LatestKey == "" {
		config.LatestKey = "retail_trends_data"
	}
	return &Runner{
		catalog:     cat,
		synthesizer: synthesizer,
		selector:    selector,
		store:       store,
		eventBus:    eventBus,
		config:      config,
		rng:         rng,
		log:         log,
	}
}

// Run executes one batch generation run and persists the record set under
// both a timestamped key and the stable latest key.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	startedAt := time.Now()
	windowStart := startedAt.AddDate(0, 0, -r.config.Days)

	var records []trend.Record
	id := 1
	for _, category := range r.catalog.Categories() {
		products := r.sampleProducts(r.catalog.Products(category))
		for _, product := range products {
			for _, region := range r.catalog.Regions() {
				if err := ctx.Err(); err != nil {
					return RunResult{}, err
				}
				rec := r.synthesizer.BuildRecord(ctx, id, category, product, region, windowStart)
				rec.TrendingScore = r.selector.Score(rec.SentimentCounts)
				records = append(records, rec)
				id++
			}
		}
	}

	r.selector.Apply(records)

	trendingCount := 0
	for _, rec := range records {
		if rec.IsTrending {
			trendingCount++
		}
	}

	key := fmt.Sprintf("%s_%s", r.config.LatestKey, startedAt.Format("20060102_150405"))
	usedFallback, err := r.store.SaveRecords(ctx, key, records)
	if err != nil {
		return RunResult{}, fmt.Errorf("persisting run records: %w", err)
	}
	latestFallback, err := r.store.SaveRecords(ctx, r.config.LatestKey, records)
	if err != nil {
		return RunResult{}, fmt.Errorf("persisting latest records: %w", err)
	}

	result := RunResult{
		RunID:         uuid.New().String(),
		Key:           key,
		RecordCount:   len(records),
		TrendingCount: trendingCount,
		UsedFallback:  usedFallback || latestFallback,
		StartedAt:     startedAt,
		CompletedAt:   time.Now(),
	}

	metrics.RunsCompleted.Inc()
	metrics.RecordsGenerated.Add(float64(len(records)))

	r.publishRunEvent(result)

	r.log.Info().
		Str("run_id", result.RunID).
		Str("key", result.Key).
		Int("records", result.RecordCount).
		Int("trending", result.TrendingCount).
		Bool("used_fallback", result.UsedFallback).
		Dur("elapsed", result.CompletedAt.Sub(result.StartedAt)).
		Msg("generation run completed")

	return result, nil
}

// sampleProducts draws a random 80-100% subset of a category pool,
// always keeping at least one product.
func (r *Runner) sampleProducts(pool []catalog.Product) []catalog.Product {
	if len(pool) == 0 {
		return nil
	}
	size := int(float64(len(pool)) * uniform(r.rng, 0.8, 1.0))
	if size < 1 {
		size = 1
	}

	sampled := make([]catalog.Product, 0, size)
	for _, idx := range r.rng.Perm(len(pool))[:size] {
		sampled = append(sampled, pool[idx])
	}
	return sampled
}

// publishRunEvent publishes a run-completed event to the event bus.
func (r *Runner) publishRunEvent(result RunResult) {
	if r.eventBus == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		r.log.Warn().Err(err).Msg("encoding run event failed")
		return
	}

	topic := fmt.Sprintf("%s.runs.completed", r.config.EventsTopic)
	if err := r.eventBus.Publish(topic, data); err != nil {
		r.log.Warn().Err(err).Str("topic", topic).Msg("publishing run event failed")
	}
}
