// internal/service/sentiment/client_test.go

package sentiment

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailtrends/internal/domain/trend"
)

func newTestClient(endpoint string, batchSize int) *Client {
	return NewClient(
		ClientConfig{Endpoint: endpoint, APIKey: "test-key", BatchSize: batchSize},
		nil,
		NewKeywordAnalyzer(rand.New(rand.NewSource(1))),
		zerolog.Nop(),
	)
}

func sentimentServer(t *testing.T, label string, requests *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt64(requests, 1)
		}
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var resp classifyResponse
		for i := range req.Documents {
			doc := struct {
				ID               string  `json:"id"`
				Sentiment        string  `json:"sentiment"`
				ConfidenceScores struct {
					Positive float64 `json:"positive"`
					Neutral  float64 `json:"neutral"`
					Negative float64 `json:"negative"`
				} `json:"confidence_scores"`
			}{ID: fmt.Sprintf("%d", i), Sentiment: label}
			doc.ConfidenceScores.Positive = 0.9
			doc.ConfidenceScores.Neutral = 0.5
			doc.ConfidenceScores.Negative = 0.8
			resp.Documents = append(resp.Documents, doc)
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClientClassifyBatch(t *testing.T) {
	server := sentimentServer(t, trend.SentimentPositive, nil)
	defer server.Close()

	client := newTestClient(server.URL, 10)
	results := client.ClassifyBatch(context.Background(), []string{"a", "b", "c"})

	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, trend.SentimentPositive, res.Label)
		assert.InDelta(t, 0.9, res.Score, 0.001)
	}
}

func TestClientSplitsBatches(t *testing.T) {
	var requests int64
	server := sentimentServer(t, trend.SentimentNeutral, &requests)
	defer server.Close()

	client := newTestClient(server.URL, 2)
	results := client.ClassifyBatch(context.Background(), []string{"a", "b", "c", "d", "e"})

	assert.Len(t, results, 5)
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))
}

func TestClientFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)
	texts := []string{"love it so much", "really disappointed", "it is a thing"}
	results := client.ClassifyBatch(context.Background(), texts)

	require.Len(t, results, len(texts))
	assert.Equal(t, trend.SentimentPositive, results[0].Label)
	assert.Equal(t, trend.SentimentNegative, results[1].Label)
	assert.Equal(t, trend.SentimentNeutral, results[2].Label)
}

func TestClientFallsBackWithoutCredentials(t *testing.T) {
	client := NewClient(ClientConfig{}, nil, NewKeywordAnalyzer(rand.New(rand.NewSource(1))), zerolog.Nop())

	results := client.ClassifyBatch(context.Background(), []string{"amazing stuff", "meh"})

	require.Len(t, results, 2)
	assert.Equal(t, trend.SentimentPositive, results[0].Label)
}

func TestClientRejectsShortResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)
	results := client.ClassifyBatch(context.Background(), []string{"love it", "waste of money"})

	// Mismatched response length falls back to the keyword analyzer.
	require.Len(t, results, 2)
	assert.Equal(t, trend.SentimentPositive, results[0].Label)
	assert.Equal(t, trend.SentimentNegative, results[1].Label)
}
