// cmd/generate/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/catalog"
	"retailtrends/internal/config"
	"retailtrends/internal/service/generation"
	"retailtrends/internal/service/sentiment"
)

// Runs one generation batch and exits. Same pipeline the API server
// triggers on POST /api/v1/runs, without the server around it.
func main() {
	seed := flag.Int64("seed", 0, "override the generation seed")
	days := flag.Int("days", 0, "override the activity window length in days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Generation.Seed = *seed
	}
	if *days > 0 {
		cfg.Generation.Days = *days
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	ctx := context.Background()

	cat, err := catalog.Load(cfg.Generation.ConfigDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	var remote storage.BlobStore
	if cfg.Database.Enabled() {
		db, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		pgStore := storage.NewPGStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare blob schema")
		}
		remote = pgStore
	}

	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL,
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.ReconnectWait(cfg.NATS.ReconnectWait),
			nats.Timeout(cfg.NATS.ConnectTimeout),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer natsConn.Close()
	}

	recordStore := storage.NewRecordStore(remote, storage.NewFileStore(cfg.Store.LocalDir), log)

	rng := rand.New(rand.NewSource(cfg.Generation.Seed))

	oracle := sentiment.NewClient(
		sentiment.ClientConfig{
			Endpoint:  cfg.Sentiment.Endpoint,
			APIKey:    cfg.Sentiment.APIKey,
			BatchSize: cfg.Sentiment.BatchSize,
		},
		&http.Client{Timeout: cfg.Sentiment.Timeout},
		sentiment.NewKeywordAnalyzer(rng),
		log,
	)

	popularity := generation.NewPopularityModel(cat, rng, generation.NewPreferenceCache())
	synthesizer := generation.NewSynthesizer(cat, popularity, oracle, rng, generation.SynthesizerConfig{
		Days:            cfg.Generation.Days,
		SamplePostLimit: cfg.Generation.SamplePostLimit,
	}, log)
	selector := generation.NewSelector(rng, cfg.Generation.RegionalCap, cfg.Generation.GlobalCap)

	runner := generation.NewRunner(cat, synthesizer, selector, recordStore, natsConn, generation.RunnerConfig{
		Days:        cfg.Generation.Days,
		LatestKey:   cfg.Store.LatestKey,
		EventsTopic: cfg.NATS.EventsTopic,
	}, rng, log)

	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation run failed")
	}

	fmt.Printf("Run %s completed\n", result.RunID)
	fmt.Printf("  Records: %d (%d trending)\n", result.RecordCount, result.TrendingCount)
	fmt.Printf("  Stored under: %s\n", result.Key)
	if result.UsedFallback {
		fmt.Println("  Note: records were written to local fallback storage")
	}
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}
