// Package posture provides the posture-geometry analysis engine: landmark types,
// the quality gate, side and front view analyzers, and before/after comparison.
package posture

import "math"

// DefaultConfidenceThreshold is the minimum landmark confidence for a point to count as detected.
const DefaultConfidenceThreshold = 0.7

// Point is a body landmark in image-normalized coordinates (0 = left/top, 1 = right/bottom).
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// InvalidPoint stands in for a landmark the detector did not return.
var InvalidPoint = Point{}

// IsValid reports whether the point's confidence reaches threshold.
func (p Point) IsValid(threshold float64) bool {
	return p.Confidence >= threshold
}

// DistanceTo returns the Euclidean distance to other.
func (p Point) DistanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway to other, carrying the lower of the two confidences.
func (p Point) Midpoint(other Point) Point {
	return Point{
		X:          (p.X + other.X) / 2,
		Y:          (p.Y + other.Y) / 2,
		Confidence: math.Min(p.Confidence, other.Confidence),
	}
}

// HorizontalDistanceTo returns |p.X - other.X|.
func (p Point) HorizontalDistanceTo(other Point) float64 {
	return math.Abs(p.X - other.X)
}

// VerticalDistanceTo returns |p.Y - other.Y|.
func (p Point) VerticalDistanceTo(other Point) float64 {
	return math.Abs(p.Y - other.Y)
}
