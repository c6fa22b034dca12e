package posture

import "fmt"

// Analyzer routes a pose to the analyzer for its view mode.
type Analyzer struct {
	Protrusion ProtrusionAnalyzer
	Frontal    FrontalAnalyzer
}

// NewAnalyzer returns an Analyzer with the default side and front analyzers.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the side or front analyzer. The error is only non-nil for a
// ViewMode value outside SideView and FrontView.
func (a *Analyzer) Analyze(pose Pose, mode ViewMode) (AnalysisResult, error) {
	switch mode {
	case SideView:
		return a.Protrusion.Analyze(pose), nil
	case FrontView:
		return a.Frontal.Analyze(pose), nil
	default:
		return AnalysisResult{}, fmt.Errorf("%w: %d", ErrUnknownViewMode, int(mode))
	}
}
