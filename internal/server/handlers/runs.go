// internal/server/handlers/runs.go

package handlers

import (
	"net/http"

	"retailtrends/internal/service/generation"
)

// RunHandler triggers generation runs over HTTP.
type RunHandler struct {
	runner *generation.Runner
}

// NewRunHandler creates a new run handler.
func NewRunHandler(runner *generation.Runner) *RunHandler {
	return &RunHandler{runner: runner}
}

// TriggerRun executes a full generation run synchronously and returns its
// summary. Runs take a few seconds; callers wanting progress should watch
// the run events WebSocket instead.
func (h *RunHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Generation run failed", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}
