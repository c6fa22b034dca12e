package posture

import (
	"errors"
	"fmt"
	"math"
)

// ErrViewModeMismatch is returned when comparing results captured in different view modes.
var ErrViewModeMismatch = errors.New("cannot compare results from different view modes")

// ComparisonEngine compares a baseline capture with a later one.
type ComparisonEngine struct{}

// Compare reports whether current improved on initial. A delta of exactly zero is not an improvement.
// Results from different view modes measure unrelated metrics and are rejected with ErrViewModeMismatch.
func (ComparisonEngine) Compare(initial, current AnalysisResult) (ComparisonResult, error) {
	if initial.ViewMode != current.ViewMode {
		return ComparisonResult{}, fmt.Errorf("%w: %s vs %s", ErrViewModeMismatch, initial.ViewMode, current.ViewMode)
	}

	delta := initial.DeviationPercent - current.DeviationPercent
	improved := delta > 0

	message := NoImprovementMessage
	if improved {
		message = ImprovementSummary(int(initial.DeviationPercent), int(current.DeviationPercent))
	}

	return ComparisonResult{
		InitialPercentage:  initial.DeviationPercent,
		CurrentPercentage:  current.DeviationPercent,
		ImprovementDelta:   math.Abs(delta),
		IsImproved:         improved,
		ImprovementMessage: message,
	}, nil
}
