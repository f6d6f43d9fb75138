// cmd/analyze/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/config"
	"retailtrends/internal/service/analysis"
)

// Prints a trend report for a stored record set.
func main() {
	key := flag.String("key", "", "record set key (defaults to the latest key)")
	region := flag.String("region", "", "filter products by region")
	category := flag.String("category", "", "filter products by category")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *key == "" {
		*key = cfg.Store.LatestKey
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	ctx := context.Background()

	var remote storage.BlobStore
	if cfg.Database.Enabled() {
		db, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		remote = storage.NewPGStore(db)
	}

	recordStore := storage.NewRecordStore(remote, storage.NewFileStore(cfg.Store.LocalDir), log)

	records, err := recordStore.LoadRecords(ctx, *key)
	if err != nil {
		log.Fatal().Err(err).Str("key", *key).Msg("Failed to load records")
	}
	if len(records) == 0 {
		fmt.Println("No data available for analysis")
		return
	}

	fmt.Println("=== Trend Analysis Results ===")

	sentiment := analysis.CalculateSentimentScores(records)
	fmt.Println("\nOverall Sentiment Metrics:")
	fmt.Printf("  Sentiment Score: %.2f\n", sentiment.OverallSentimentScore)
	fmt.Printf("  Positive: %.1f%%\n", sentiment.PositivePercentage)
	fmt.Printf("  Neutral: %.1f%%\n", sentiment.NeutralPercentage)
	fmt.Printf("  Negative: %.1f%%\n", sentiment.NegativePercentage)
	fmt.Printf("  Total Mentions: %d\n", sentiment.TotalMentions)

	products := analysis.AnalyzeTrendingProducts(records, *region, *category)
	fmt.Println("\nTop 5 Trending Products:")
	for i, product := range products {
		if i >= 5 {
			break
		}
		fmt.Printf("  %d. %s\n", i+1, product.ProductName)
		fmt.Printf("     Category: %s\n", product.Category)
		fmt.Printf("     Mentions: %d\n", product.TotalMentions)
		fmt.Printf("     Trending Score: %.2f\n", product.TrendingScore)
		fmt.Printf("     Sentiment: %.2f\n", product.Sentiment.OverallScore)
		fmt.Printf("     Recommendation: %s\n", product.Recommendation.Inventory)
	}

	regions := analysis.AnalyzeRegionalTrends(records)
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return regions[names[i]].TotalMentions > regions[names[j]].TotalMentions
	})

	fmt.Println("\nTop 3 Regions by Activity:")
	for i, name := range names {
		if i >= 3 {
			break
		}
		summary := regions[name]
		fmt.Printf("  %d. %s\n", i+1, name)
		fmt.Printf("     Total Mentions: %d\n", summary.TotalMentions)
		fmt.Printf("     Trending Products: %d\n", summary.TrendingProducts)
		fmt.Printf("     Sentiment: %.1f%% positive\n", summary.SentimentPercentages.Positive)
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
