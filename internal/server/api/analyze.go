package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/posture"
)

// MaxImageBytes caps uploaded image size.
const MaxImageBytes = 10 << 20

// AnalyzeHandler handles image and landmark analysis requests.
type AnalyzeHandler struct {
	app      *app.App
	log      logrus.FieldLogger
	validate *validator.Validate
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(a *app.App, log logrus.FieldLogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		app:      a,
		log:      log,
		validate: validator.New(),
	}
}

type pointRequest struct {
	X          *float64 `json:"x" validate:"required"`
	Y          *float64 `json:"y" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
}

type poseRequest struct {
	Mode          string        `json:"mode,omitempty"`
	LeftEar       *pointRequest `json:"leftEar"`
	RightEar      *pointRequest `json:"rightEar"`
	LeftShoulder  *pointRequest `json:"leftShoulder"`
	RightShoulder *pointRequest `json:"rightShoulder"`
}

func (p *pointRequest) toPoint() posture.Point {
	if p == nil {
		return posture.InvalidPoint
	}
	return posture.Point{X: *p.X, Y: *p.Y, Confidence: *p.Confidence}
}

func (r poseRequest) toPose() posture.Pose {
	return posture.Pose{
		LeftEar:       r.LeftEar.toPoint(),
		RightEar:      r.RightEar.toPoint(),
		LeftShoulder:  r.LeftShoulder.toPoint(),
		RightShoulder: r.RightShoulder.toPoint(),
	}
}

// Analyze handles POST /api/analyze with a raw image body or a multipart "image" field.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	image, err := readImage(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ReasonInvalidImage, err.Error())
		return
	}
	if !h.applyMode(w, r.URL.Query().Get("mode")) {
		return
	}

	outcome, err := h.app.Analyze(r.Context(), image)
	if err != nil {
		h.logFailure(r, err)
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// AnalyzePose handles POST /api/analyze/pose with normalized landmarks.
func (h *AnalyzeHandler) AnalyzePose(w http.ResponseWriter, r *http.Request) {
	var req poseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ReasonBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, ReasonBadRequest, validationMessage(err))
		return
	}
	if !h.applyMode(w, req.Mode) {
		return
	}

	outcome, err := h.app.AnalyzePose(r.Context(), req.toPose())
	if err != nil {
		h.logFailure(r, err)
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// applyMode switches the session view mode when mode names a different one.
// It writes an error response and returns false for unknown modes.
func (h *AnalyzeHandler) applyMode(w http.ResponseWriter, mode string) bool {
	if mode == "" {
		return true
	}
	parsed, err := posture.ParseViewMode(mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, ReasonInvalidMode, err.Error())
		return false
	}
	sess := h.app.Session()
	if sess.ViewMode() != parsed {
		if err := sess.SetViewMode(parsed); err != nil {
			writeError(w, http.StatusBadRequest, ReasonInvalidMode, err.Error())
			return false
		}
	}
	return true
}

func (h *AnalyzeHandler) logFailure(r *http.Request, err error) {
	entry := h.log.WithError(err).WithField("path", r.URL.Path)
	var qerr *posture.QualityError
	if errors.As(err, &qerr) {
		entry.Debug("Analysis rejected by quality gate")
		return
	}
	entry.Warn("Analysis failed")
}

func readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("missing image field: %w", err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	return data, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
