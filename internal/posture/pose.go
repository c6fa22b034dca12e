package posture

import "math"

// Pose holds the four landmarks used for posture analysis.
// Validity is a computed predicate; a Pose may carry invalid points.
type Pose struct {
	LeftEar       Point `json:"leftEar"`
	RightEar      Point `json:"rightEar"`
	LeftShoulder  Point `json:"leftShoulder"`
	RightShoulder Point `json:"rightShoulder"`
}

// EmptyPose has every landmark set to InvalidPoint.
var EmptyPose = Pose{
	LeftEar:       InvalidPoint,
	RightEar:      InvalidPoint,
	LeftShoulder:  InvalidPoint,
	RightShoulder: InvalidPoint,
}

// SideViewPose builds a pose from a single ear/shoulder pair. The pair fills the
// left side; the right side is invalid.
func SideViewPose(ear, shoulder Point) Pose {
	return Pose{
		LeftEar:       ear,
		RightEar:      InvalidPoint,
		LeftShoulder:  shoulder,
		RightShoulder: InvalidPoint,
	}
}

// PreferredEar returns the ear with the higher confidence. Ties favor the left ear.
func (p Pose) PreferredEar() Point {
	if p.LeftEar.Confidence >= p.RightEar.Confidence {
		return p.LeftEar
	}
	return p.RightEar
}

// PreferredShoulder returns the shoulder with the higher confidence. Ties favor the left shoulder.
func (p Pose) PreferredShoulder() Point {
	if p.LeftShoulder.Confidence >= p.RightShoulder.Confidence {
		return p.LeftShoulder
	}
	return p.RightShoulder
}

// IsValidForSideView reports whether at least one ear and one shoulder reach threshold.
func (p Pose) IsValidForSideView(threshold float64) bool {
	hasEar := p.LeftEar.IsValid(threshold) || p.RightEar.IsValid(threshold)
	hasShoulder := p.LeftShoulder.IsValid(threshold) || p.RightShoulder.IsValid(threshold)
	return hasEar && hasShoulder
}

// IsValidForFrontView reports whether all four landmarks reach threshold.
func (p Pose) IsValidForFrontView(threshold float64) bool {
	return p.LeftEar.IsValid(threshold) &&
		p.RightEar.IsValid(threshold) &&
		p.LeftShoulder.IsValid(threshold) &&
		p.RightShoulder.IsValid(threshold)
}

// ShoulderWidth returns the horizontal distance between the shoulders.
func (p Pose) ShoulderWidth() float64 {
	return math.Abs(p.LeftShoulder.X - p.RightShoulder.X)
}

// points returns all four landmarks in a fixed order.
func (p Pose) points() []Point {
	return []Point{p.LeftEar, p.RightEar, p.LeftShoulder, p.RightShoulder}
}
