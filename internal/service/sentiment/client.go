// internal/service/sentiment/client.go

package sentiment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"retailtrends/internal/domain/trend"
	"retailtrends/internal/metrics"
)

// ClientConfig contains configuration for the remote sentiment client
type ClientConfig struct {
	Endpoint  string
	APIKey    string
	BatchSize int
}

// Client calls a remote text-analytics API in batches and falls back to
// the keyword analyzer per batch on any failure. It never returns fewer
// results than input texts.
type Client struct {
	config   ClientConfig
	http     *http.Client
	fallback *KeywordAnalyzer
	log      zerolog.Logger
}

// NewClient creates a remote sentiment client. With no endpoint or key
// configured every batch is scored by the fallback analyzer.
func NewClient(cfg ClientConfig, httpClient *http.Client, fallback *KeywordAnalyzer, log zerolog.Logger) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		config:   cfg,
		http:     httpClient,
		fallback: fallback,
		log:      log,
	}
}

type classifyDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type classifyRequest struct {
	Documents []classifyDocument `json:"documents"`
}

type classifyResponse struct {
	Documents []struct {
		ID               string  `json:"id"`
		Sentiment        string  `json:"sentiment"`
		ConfidenceScores struct {
			Positive float64 `json:"positive"`
			Neutral  float64 `json:"neutral"`
			Negative float64 `json:"negative"`
		} `json:"confidence_scores"`
	} `json:"documents"`
}

// ClassifyBatch implements Oracle. Texts are split into batches of at most
// BatchSize; a failing batch is re-scored text by text via the fallback.
func (c *Client) ClassifyBatch(ctx context.Context, texts []string) []Result {
	results := make([]Result, 0, len(texts))

	if c.config.Endpoint == "" || c.config.APIKey == "" {
		c.log.Debug().Int("texts", len(texts)).Msg("sentiment credentials missing, using keyword fallback")
		metrics.OracleFallbackBatches.Inc()
		return c.fallback.ClassifyBatch(ctx, texts)
	}

	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := start + c.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		batchResults, err := c.classify(ctx, batch)
		if err != nil {
			c.log.Warn().Err(err).Int("batch_size", len(batch)).Msg("sentiment batch failed, using keyword fallback")
			metrics.OracleFallbackBatches.Inc()
			batchResults = c.fallback.ClassifyBatch(ctx, batch)
		}
		results = append(results, batchResults...)
	}

	return results
}

func (c *Client) classify(ctx context.Context, batch []string) ([]Result, error) {
	docs := make([]classifyDocument, len(batch))
	for i, text := range batch {
		docs[i] = classifyDocument{ID: strconv.Itoa(i), Text: text}
	}

	body, err := json.Marshal(classifyRequest{Documents: docs})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling sentiment API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentiment API returned status %d", resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Documents) != len(batch) {
		return nil, fmt.Errorf("sentiment API returned %d results for %d texts", len(parsed.Documents), len(batch))
	}

	results := make([]Result, len(batch))
	for i, doc := range parsed.Documents {
		score := doc.ConfidenceScores.Neutral
		switch doc.Sentiment {
		case trend.SentimentPositive:
			score = doc.ConfidenceScores.Positive
		case trend.SentimentNegative:
			score = doc.ConfidenceScores.Negative
		case trend.SentimentNeutral:
		default:
			return nil, fmt.Errorf("sentiment API returned unknown label %q", doc.Sentiment)
		}
		results[i] = Result{Label: doc.Sentiment, Score: score}
	}
	return results, nil
}
