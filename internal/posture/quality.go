package posture

import "fmt"

// DefaultFrameMargin is the fraction of each image edge treated as out of frame.
const DefaultFrameMargin = 0.05

// QualityReason categorizes a quality-gate rejection.
type QualityReason string

const (
	// ReasonLowConfidence means required landmarks were not detected confidently.
	ReasonLowConfidence QualityReason = "low_confidence"
	// ReasonOutOfFrame means a required landmark lies inside the edge margin.
	ReasonOutOfFrame QualityReason = "out_of_frame"
)

// QualityError is the Failure outcome of the quality gate. The user is expected to retake the photo.
type QualityError struct {
	Reason  QualityReason
	Message string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("quality check failed (%s): %s", e.Reason, e.Message)
}

// QualityChecker rejects poses that cannot be analyzed reliably.
type QualityChecker struct {
	ConfidenceThreshold float64
	Margin              float64
}

// NewQualityChecker returns a checker with the default threshold and margin.
func NewQualityChecker() *QualityChecker {
	return &QualityChecker{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		Margin:              DefaultFrameMargin,
	}
}

// Check returns nil when the pose passes for the given mode, or a *QualityError.
// The confidence check always runs before the frame-margin check.
func (c *QualityChecker) Check(pose Pose, mode ViewMode) error {
	switch mode {
	case SideView:
		return c.checkSideView(pose)
	case FrontView:
		return c.checkFrontView(pose)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownViewMode, int(mode))
	}
}

func (c *QualityChecker) checkSideView(pose Pose) error {
	if !pose.IsValidForSideView(c.ConfidenceThreshold) {
		return &QualityError{Reason: ReasonLowConfidence, Message: QualityLowConfidenceMessage}
	}
	if c.isOutOfFrame(pose.PreferredEar(), pose.PreferredShoulder()) {
		return &QualityError{Reason: ReasonOutOfFrame, Message: QualityOutOfFrameMessage}
	}
	return nil
}

func (c *QualityChecker) checkFrontView(pose Pose) error {
	if !pose.IsValidForFrontView(c.ConfidenceThreshold) {
		return &QualityError{Reason: ReasonLowConfidence, Message: QualityFrontLowConfidenceMessage}
	}
	if c.isOutOfFrame(pose.points()...) {
		return &QualityError{Reason: ReasonOutOfFrame, Message: QualityOutOfFrameMessage}
	}
	return nil
}

func (c *QualityChecker) isOutOfFrame(points ...Point) bool {
	for _, p := range points {
		if p.X < c.Margin || p.X > 1-c.Margin || p.Y < c.Margin || p.Y > 1-c.Margin {
			return true
		}
	}
	return false
}
