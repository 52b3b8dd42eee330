package api

import (
	"context"
	"net/http"

	"github.com/garnizeh/keepalive/pkg/models"
)

// Runner triggers one keepalive pass. Satisfied by *keepalive.Engine.
type Runner interface {
	Run(ctx context.Context, enabledOnly bool) (*models.RunReport, error)
}

type RunHandler struct {
	runner Runner
}

func NewRunHandler(runner Runner) *RunHandler {
	return &RunHandler{runner: runner}
}

// Trigger starts a run over the enabled projects and returns the report.
// Per-project failures are part of the report, not an HTTP error; only a
// store problem fails the request.
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(r.Context(), true)
	if err != nil {
		logger.Error("keepalive run aborted", "err", err)
		http.Error(w, "run aborted: store unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, report, http.StatusOK)
}
