package api

import (
	"net/http"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/posture"
)

// SessionHandler exposes the capture session.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Session().Snapshot())
}

// SetMode handles PUT /api/session/mode. Changing mode resets the session.
func (h *SessionHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ReasonBadRequest, "Invalid JSON body")
		return
	}

	mode, err := posture.ParseViewMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, ReasonInvalidMode, err.Error())
		return
	}
	if err := h.app.Session().SetViewMode(mode); err != nil {
		writeError(w, http.StatusBadRequest, ReasonInvalidMode, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.app.Session().Snapshot())
}

// Reset handles POST /api/session/reset: the baseline is discarded.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.app.Session().Reset()
	writeJSON(w, http.StatusOK, h.app.Session().Snapshot())
}

// Retake handles POST /api/session/retake: the baseline is kept for comparison.
func (h *SessionHandler) Retake(w http.ResponseWriter, r *http.Request) {
	h.app.Session().ResetForRetake()
	writeJSON(w, http.StatusOK, h.app.Session().Snapshot())
}
