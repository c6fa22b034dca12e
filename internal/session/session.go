// Package session tracks the capture flow between analyses: the selected view
// mode, the baseline result later captures are compared against, and the
// status of the latest capture.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/ergoguard/internal/posture"
)

// Status is the state of the latest capture.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusAnalyzing    Status = "analyzing"
	StatusSuccess      Status = "success"
	StatusQualityError Status = "quality_error"
	StatusError        Status = "error"
)

// Outcome is the result of evaluating one pose within a session.
type Outcome struct {
	Result         posture.AnalysisResult    `json:"result"`
	Comparison     *posture.ComparisonResult `json:"comparison,omitempty"`
	IsFirstCapture bool                      `json:"isFirstCapture"`
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	ID       string                  `json:"id"`
	ViewMode posture.ViewMode        `json:"viewMode"`
	Status   Status                  `json:"status"`
	Message  string                  `json:"message,omitempty"`
	Baseline *posture.AnalysisResult `json:"baseline,omitempty"`
	Last     *Outcome                `json:"last,omitempty"`
}

// Session holds the state shared between captures. It is safe for concurrent use.
type Session struct {
	checker  *posture.QualityChecker
	analyzer *posture.Analyzer
	compare  posture.ComparisonEngine
	now      func() time.Time

	mu       sync.Mutex
	id       string
	mode     posture.ViewMode
	status   Status
	message  string
	baseline *posture.AnalysisResult
	last     *Outcome
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to timestamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates an idle side-view session with no baseline.
// A nil checker uses the default thresholds.
func New(checker *posture.QualityChecker, opts ...Option) *Session {
	if checker == nil {
		checker = posture.NewQualityChecker()
	}
	s := &Session{
		checker:  checker,
		analyzer: posture.NewAnalyzer(),
		now:      time.Now,
		id:       uuid.New().String(),
		mode:     posture.SideView,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// ViewMode returns the selected view mode.
func (s *Session) ViewMode() posture.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:       s.id,
		ViewMode: s.mode,
		Status:   s.status,
		Message:  s.message,
	}
	if s.baseline != nil {
		baseline := *s.baseline
		snap.Baseline = &baseline
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}

// SetViewMode selects the view mode for subsequent captures and resets the session.
func (s *Session) SetViewMode(mode posture.ViewMode) error {
	if mode != posture.SideView && mode != posture.FrontView {
		return posture.ErrUnknownViewMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.reset()
	return nil
}

// Reset starts over: the baseline is cleared and a new session ID is issued.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.baseline = nil
	s.id = uuid.New().String()
	s.toIdle()
}

// ResetForRetake returns to idle but keeps the baseline, so the next capture
// is compared against it.
func (s *Session) ResetForRetake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toIdle()
}

func (s *Session) toIdle() {
	s.status = StatusIdle
	s.message = ""
	s.last = nil
}

// Begin marks a capture as in progress.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnalyzing
	s.message = ""
}

// Fail records a capture that could not be analyzed, such as a detection failure.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail(err)
}

func (s *Session) fail(err error) {
	var qerr *posture.QualityError
	if errors.As(err, &qerr) {
		s.status = StatusQualityError
		s.message = qerr.Message
	} else {
		s.status = StatusError
		s.message = err.Error()
	}
	s.last = nil
}

// Evaluate runs the quality gate and analysis on pose in the selected view mode.
// The first successful result becomes the baseline; later results are compared
// against it when it was taken in the same view mode. Quality failures are
// returned as *posture.QualityError and leave the baseline unchanged.
func (s *Session) Evaluate(pose posture.Pose) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checker.Check(pose, s.mode); err != nil {
		s.fail(err)
		return Outcome{}, err
	}

	result, err := s.analyzer.Analyze(pose, s.mode)
	if err != nil {
		s.fail(err)
		return Outcome{}, err
	}
	result.Timestamp = s.now().UnixMilli()

	outcome := Outcome{Result: result}
	switch {
	case s.baseline == nil:
		baseline := result
		s.baseline = &baseline
		outcome.IsFirstCapture = true
	case s.baseline.ViewMode == result.ViewMode:
		comparison, err := s.compare.Compare(*s.baseline, result)
		if err != nil {
			s.fail(err)
			return Outcome{}, err
		}
		outcome.Comparison = &comparison
	}

	s.status = StatusSuccess
	s.message = ""
	last := outcome
	s.last = &last

	return outcome, nil
}
