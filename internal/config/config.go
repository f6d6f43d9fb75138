// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Sentiment   SentimentConfig
	Store       StoreConfig
	Generation  GenerationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
	WebDir          string
}

// DatabaseConfig holds the connection settings for the remote blob table.
// An empty Host disables the remote store entirely; the pipeline then
// writes straight to the local file store.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// Enabled reports whether a remote store is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// NATSConfig holds NATS configuration. An empty URL disables event
// publishing.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// SentimentConfig holds the remote sentiment API settings. Missing
// endpoint or key degrades the oracle to the keyword fallback.
type SentimentConfig struct {
	Endpoint  string
	APIKey    string
	Timeout   time.Duration
	BatchSize int
}

// StoreConfig holds record persistence settings
type StoreConfig struct {
	LocalDir  string
	LatestKey string
}

// GenerationConfig holds pipeline tuning parameters
type GenerationConfig struct {
	Seed            int64
	Days            int
	RegionalCap     float64
	GlobalCap       float64
	SamplePostLimit int
	ConfigDir       string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
			WebDir:          getEnv("SERVER_WEB_DIR", "web"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "retailtrends"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "trends"),
		},
		Sentiment: SentimentConfig{
			Endpoint:  getEnv("SENTIMENT_API_ENDPOINT", ""),
			APIKey:    getEnv("SENTIMENT_API_KEY", ""),
			Timeout:   getEnvAsDuration("SENTIMENT_API_TIMEOUT", 10*time.Second),
			BatchSize: getEnvAsInt("SENTIMENT_BATCH_SIZE", 10),
		},
		Store: StoreConfig{
			LocalDir:  getEnv("STORE_LOCAL_DIR", "data"),
			LatestKey: getEnv("STORE_LATEST_KEY", "retail_trends_data"),
		},
		Generation: GenerationConfig{
			Seed:            getEnvAsInt64("GENERATION_SEED", 42),
			Days:            getEnvAsInt("GENERATION_DAYS", 30),
			RegionalCap:     getEnvAsFloat("TREND_REGIONAL_CAP", 0.10),
			GlobalCap:       getEnvAsFloat("TREND_GLOBAL_CAP", 0.05),
			SamplePostLimit: getEnvAsInt("GENERATION_SAMPLE_POSTS", 5),
			ConfigDir:       getEnv("GENERATION_CONFIG_DIR", "config"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Generation.Days <= 0 {
		return fmt.Errorf("generation days must be positive, got %d", config.Generation.Days)
	}
	if config.Generation.RegionalCap <= 0 || config.Generation.RegionalCap > 1 {
		return fmt.Errorf("regional trending cap must be in (0,1], got %f", config.Generation.RegionalCap)
	}
	if config.Generation.GlobalCap <= 0 || config.Generation.GlobalCap > 1 {
		return fmt.Errorf("global trending cap must be in (0,1], got %f", config.Generation.GlobalCap)
	}
	if config.Sentiment.BatchSize <= 0 {
		return fmt.Errorf("sentiment batch size must be positive, got %d", config.Sentiment.BatchSize)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
