package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/history"
)

// HistoryHandler exposes recorded analyses.
type HistoryHandler struct {
	app *app.App
	log logrus.FieldLogger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(a *app.App, log logrus.FieldLogger) *HistoryHandler {
	return &HistoryHandler{app: a, log: log}
}

type listHistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

// List handles GET /api/history, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.app.History()
	if err != nil {
		h.log.WithError(err).Error("Failed to list history")
		writeError(w, http.StatusInternalServerError, ReasonInternal, "Failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, listHistoryResponse{Entries: entries})
}

// Summary handles GET /api/history/summary.
func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.HistorySummary()
	if err != nil {
		h.log.WithError(err).Error("Failed to summarize history")
		writeError(w, http.StatusInternalServerError, ReasonInternal, "Failed to summarize history")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ClearHistory(); err != nil {
		h.log.WithError(err).Error("Failed to clear history")
		writeError(w, http.StatusInternalServerError, ReasonInternal, "Failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
