// Package api provides HTTP API handlers for ErgoGuard.
package api

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/ayusman/ergoguard/internal/detector"
	"github.com/ayusman/ergoguard/internal/posture"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error reasons reported alongside quality-gate reasons.
const (
	ReasonNoPose       = "no_pose"
	ReasonInvalidImage = "invalid_image"
	ReasonInvalidMode  = "invalid_mode"
	ReasonBadRequest   = "bad_request"
	ReasonTimeout      = "timeout"
	ReasonInternal     = "internal"
)

// NoPoseMessage is shown when the detector finds nobody in the image.
const NoPoseMessage = "No person detected in the image. Please retake the photo."

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, errorResponse{Error: message, Reason: reason})
}

// writeAnalysisError maps analysis failures to HTTP status codes.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var qerr *posture.QualityError
	switch {
	case errors.As(err, &qerr):
		writeError(w, http.StatusUnprocessableEntity, string(qerr.Reason), qerr.Message)
	case errors.Is(err, detector.ErrNoPose):
		writeError(w, http.StatusUnprocessableEntity, ReasonNoPose, NoPoseMessage)
	case errors.Is(err, detector.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, ReasonInvalidImage, err.Error())
	case errors.Is(err, posture.ErrUnknownViewMode):
		writeError(w, http.StatusBadRequest, ReasonInvalidMode, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, ReasonTimeout, "pose detection timed out")
	default:
		writeError(w, http.StatusInternalServerError, ReasonInternal, "analysis failed")
	}
}
