package posture

// Metric keys used in AnalysisResult.Metrics.
const (
	MetricProtrusion        = "protrusion"
	MetricShoulderImbalance = "shoulderImbalance"
	MetricHeadTilt          = "headTilt"
)

// AnalysisResult is the output of a single analysis run.
type AnalysisResult struct {
	ViewMode ViewMode `json:"viewMode"`
	// DeviationPercent is the headline metric: protrusion for side view,
	// shoulder imbalance for front view.
	DeviationPercent float64            `json:"deviationPercent"`
	Metrics          map[string]float64 `json:"metrics"`
	Level            SeverityLevel      `json:"level"`
	// NeckLoadKg is only meaningful for side view; front view sets 0.
	NeckLoadKg float64 `json:"neckLoadKg"`
	Message    string  `json:"message"`
	FixAction  string  `json:"fixAction"`
	// Timestamp is epoch milliseconds, set by the caller that records the result.
	Timestamp int64 `json:"timestamp"`
}

// ComparisonResult describes the change between a baseline and a later capture.
type ComparisonResult struct {
	InitialPercentage float64 `json:"initialPercentage"`
	CurrentPercentage float64 `json:"currentPercentage"`
	// ImprovementDelta is the absolute change, never negative.
	ImprovementDelta   float64 `json:"improvementDelta"`
	IsImproved         bool    `json:"isImproved"`
	ImprovementMessage string  `json:"improvementMessage"`
}

func sideViewResult(protrusion float64, level SeverityLevel, neckLoadKg float64, message, fixAction string) AnalysisResult {
	return AnalysisResult{
		ViewMode:         SideView,
		DeviationPercent: protrusion,
		Metrics:          map[string]float64{MetricProtrusion: protrusion},
		Level:            level,
		NeckLoadKg:       neckLoadKg,
		Message:          message,
		FixAction:        fixAction,
	}
}

func frontViewResult(shoulderImbalance, headTilt float64, level SeverityLevel, message, fixAction string) AnalysisResult {
	return AnalysisResult{
		ViewMode:         FrontView,
		DeviationPercent: shoulderImbalance,
		Metrics: map[string]float64{
			MetricShoulderImbalance: shoulderImbalance,
			MetricHeadTilt:          headTilt,
		},
		Level:      level,
		NeckLoadKg: 0,
		Message:    message,
		FixAction:  fixAction,
	}
}
