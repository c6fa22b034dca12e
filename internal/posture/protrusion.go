package posture

// Kapandji neck-load approximation: base head weight plus linear growth per 10% protrusion.
const (
	BaseHeadWeightKg    = 5.0
	LoadPerTenPercentKg = 4.5
)

// ProtrusionAnalyzer measures forward-head protrusion from a side view.
type ProtrusionAnalyzer struct{}

// Analyze computes protrusion, severity and neck load for pose.
func (a ProtrusionAnalyzer) Analyze(pose Pose) AnalysisResult {
	percentage := a.CalculateProtrusion(pose)
	level := SeverityFromPercentage(percentage)

	return sideViewResult(
		percentage,
		level,
		a.CalculateNeckLoad(percentage),
		level.Description(),
		FixActionChinTuck,
	)
}

// CalculateProtrusion returns |dx| / |dy| * 100 between the preferred ear and shoulder.
// An exact zero vertical distance yields 0.
func (ProtrusionAnalyzer) CalculateProtrusion(pose Pose) float64 {
	ear := pose.PreferredEar()
	shoulder := pose.PreferredShoulder()

	dx := ear.HorizontalDistanceTo(shoulder)
	dy := ear.VerticalDistanceTo(shoulder)
	if dy == 0 {
		return 0
	}
	return dx / dy * 100
}

// CalculateNeckLoad returns the apparent load on the neck in kilograms.
func (ProtrusionAnalyzer) CalculateNeckLoad(percentage float64) float64 {
	return BaseHeadWeightKg + (percentage/10.0)*LoadPerTenPercentKg
}
