// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/catalog"
	"retailtrends/internal/config"
	"retailtrends/internal/server"
	"retailtrends/internal/service/generation"
	"retailtrends/internal/service/sentiment"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Environment)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Load the product and region catalog
	cat, err := catalog.Load(cfg.Generation.ConfigDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// Initialize the remote store when configured
	var remote storage.BlobStore
	var db *pgxpool.Pool
	if cfg.Database.Enabled() {
		db, err = initDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		pgStore := storage.NewPGStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare blob schema")
		}
		remote = pgStore
	} else {
		log.Info().Msg("No remote store configured, using local storage only")
	}

	// Initialize NATS when configured
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer natsConn.Close()
	} else {
		log.Info().Msg("No NATS URL configured, run events disabled")
	}

	// Initialize storage adapters
	recordStore := storage.NewRecordStore(remote, storage.NewFileStore(cfg.Store.LocalDir), log)

	// Initialize the generation pipeline
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

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		recordStore,
		runner,
		natsConn,
		cfg.Store.LatestKey,
		cfg.NATS.EventsTopic,
		log,
	)

	// Start HTTP server
	go func() {
		log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info().Msg("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// newLogger builds the process logger, pretty in development and JSON
// elsewhere.
func newLogger(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
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

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log zerolog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
