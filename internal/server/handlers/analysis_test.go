// internal/server/handlers/analysis_test.go

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/domain/trend"
	"retailtrends/internal/service/analysis"
)

func newTestHandler(t *testing.T, records []trend.Record) *AnalysisHandler {
	t.Helper()
	store := storage.NewRecordStore(nil, storage.NewFileStore(t.TempDir()), zerolog.Nop())
	if records != nil {
		_, err := store.SaveRecords(context.Background(), "latest", records)
		require.NoError(t, err)
	}
	return NewAnalysisHandler(store, "latest")
}

func seedRecords() []trend.Record {
	counts := trend.SentimentCounts{Positive: 60, Neutral: 25, Negative: 15}
	return []trend.Record{
		{
			ID: 1, Name: "Silk Saree", Category: "Fashion", Region: "Mumbai",
			TotalMentions: counts.Total(), SentimentCounts: counts,
			SentimentPercentages: counts.Percentages(), TrendingScore: 9, IsTrending: true,
		},
		{
			ID: 2, Name: "Lip Tint", Category: "Beauty", Region: "Pune",
			TotalMentions: counts.Total(), SentimentCounts: counts,
			SentimentPercentages: counts.Percentages(), TrendingScore: 4,
		},
	}
}

func TestGetRecords(t *testing.T) {
	handler := newTestHandler(t, seedRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	rec := httptest.NewRecorder()
	handler.GetRecords(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var records []trend.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestGetRecordsFiltered(t *testing.T) {
	handler := newTestHandler(t, seedRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records?region=Mumbai&category=Fashion", nil)
	rec := httptest.NewRecorder()
	handler.GetRecords(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var records []trend.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Silk Saree", records[0].Name)
}

func TestGetRecordsMissingKey(t *testing.T) {
	handler := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	rec := httptest.NewRecorder()
	handler.GetRecords(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSentiment(t *testing.T) {
	handler := newTestHandler(t, seedRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/sentiment", nil)
	rec := httptest.NewRecorder()
	handler.GetSentiment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary analysis.SentimentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 200, summary.TotalMentions)
	assert.InDelta(t, 60.0, summary.PositivePercentage, 0.001)
}

func TestGetProducts(t *testing.T) {
	handler := newTestHandler(t, seedRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/products", nil)
	rec := httptest.NewRecorder()
	handler.GetProducts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var products []analysis.ProductTrend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Silk Saree", products[0].ProductName)
}

func TestGetRegions(t *testing.T) {
	handler := newTestHandler(t, seedRecords())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/regions", nil)
	rec := httptest.NewRecorder()
	handler.GetRegions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var regions map[string]*analysis.RegionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	require.Len(t, regions, 2)
	assert.Equal(t, 100, regions["Mumbai"].TotalMentions)
}
