// internal/server/handlers/analysis.go

package handlers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"retailtrends/internal/adapter/storage"
	"retailtrends/internal/domain/trend"
	"retailtrends/internal/service/analysis"
)

// AnalysisHandler serves the persisted record set and the aggregated
// views derived from it.
type AnalysisHandler struct {
	store     *storage.RecordStore
	latestKey string
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(store *storage.RecordStore, latestKey string) *AnalysisHandler {
	return &AnalysisHandler{
		store:     store,
		latestKey: latestKey,
	}
}

// GetRecords returns the raw record set, optionally filtered by exact
// region and category query parameters.
func (h *AnalysisHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, ok := h.loadRecords(w, r)
	if !ok {
		return
	}

	region := r.URL.Query().Get("region")
	category := r.URL.Query().Get("category")
	if region != "" || category != "" {
		filtered := records[:0]
		for _, rec := range records {
			if (region == "" || rec.Region == region) && (category == "" || rec.Category == category) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GetSentiment returns the overall sentiment summary for the record set.
func (h *AnalysisHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	records, ok := h.loadRecords(w, r)
	if !ok {
		return
	}

	summary := analysis.CalculateSentimentScores(records)
	if summary == nil {
		respondWithError(w, http.StatusNotFound, "No records available", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// GetProducts returns per-product trend summaries, optionally filtered by
// region and category.
func (h *AnalysisHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	records, ok := h.loadRecords(w, r)
	if !ok {
		return
	}

	products := analysis.AnalyzeTrendingProducts(
		records,
		r.URL.Query().Get("region"),
		r.URL.Query().Get("category"),
	)

	respondWithJSON(w, http.StatusOK, products)
}

// GetRegions returns the per-region trend summaries.
func (h *AnalysisHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	records, ok := h.loadRecords(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, analysis.AnalyzeRegionalTrends(records))
}

// loadRecords fetches the record set named by the key query parameter,
// defaulting to the latest key. It writes the error response itself and
// reports success through the second return value.
func (h *AnalysisHandler) loadRecords(w http.ResponseWriter, r *http.Request) ([]trend.Record, bool) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = h.latestKey
	}

	records, err := h.store.LoadRecords(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Record set not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load records", err)
		}
		return nil, false
	}
	return records, true
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
