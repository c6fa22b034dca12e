// Package detector provides pose detection interfaces and the landmark types they produce.
package detector

import (
	"fmt"

	"github.com/ayusman/ergoguard/internal/posture"
)

// Landmark is a single detected body point in pixel coordinates.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Likelihood float64 `json:"likelihood"`
}

// Landmarks holds the upper-body points used for posture analysis.
// A nil landmark was not detected.
type Landmarks struct {
	LeftEar       *Landmark `json:"leftEar"`
	RightEar      *Landmark `json:"rightEar"`
	LeftShoulder  *Landmark `json:"leftShoulder"`
	RightShoulder *Landmark `json:"rightShoulder"`
	ImageWidth    int       `json:"width"`
	ImageHeight   int       `json:"height"`
}

// Normalize converts the pixel-space landmarks into a posture.Pose with
// coordinates in [0, 1]. Missing landmarks become posture.InvalidPoint.
func (l *Landmarks) Normalize() (posture.Pose, error) {
	if l == nil {
		return posture.EmptyPose, ErrNoPose
	}
	if l.ImageWidth <= 0 || l.ImageHeight <= 0 {
		return posture.EmptyPose, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, l.ImageWidth, l.ImageHeight)
	}

	w := float64(l.ImageWidth)
	h := float64(l.ImageHeight)

	return posture.Pose{
		LeftEar:       normalizePoint(l.LeftEar, w, h),
		RightEar:      normalizePoint(l.RightEar, w, h),
		LeftShoulder:  normalizePoint(l.LeftShoulder, w, h),
		RightShoulder: normalizePoint(l.RightShoulder, w, h),
	}, nil
}

func normalizePoint(lm *Landmark, width, height float64) posture.Point {
	if lm == nil {
		return posture.InvalidPoint
	}
	return posture.Point{
		X:          lm.X / width,
		Y:          lm.Y / height,
		Confidence: lm.Likelihood,
	}
}
