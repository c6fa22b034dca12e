package posture

import "math"

// Front-view thresholds, in percent of shoulder width.
const (
	ShoulderImbalanceWarning = 3.0
	ShoulderImbalanceDanger  = 8.0
	HeadTiltWarning          = 2.0
	HeadTiltDanger           = 5.0
)

// minShoulderWidth guards the width normalization; narrower shoulders yield 0%.
const minShoulderWidth = 0.001

// FrontalAnalyzer measures shoulder imbalance and head tilt from a front view.
type FrontalAnalyzer struct{}

// Analyze computes both front-view metrics and classifies the pose.
func (a FrontalAnalyzer) Analyze(pose Pose) AnalysisResult {
	shoulderImbalance := a.CalculateShoulderImbalance(pose)
	headTilt := a.CalculateHeadTilt(pose)
	level := classifyFrontal(shoulderImbalance, headTilt)

	return frontViewResult(
		shoulderImbalance,
		headTilt,
		level,
		frontalMessage(shoulderImbalance, headTilt, level),
		frontalFixAction(shoulderImbalance, headTilt),
	)
}

// CalculateShoulderImbalance returns the vertical shoulder offset as a percentage of shoulder width.
func (FrontalAnalyzer) CalculateShoulderImbalance(pose Pose) float64 {
	width := pose.ShoulderWidth()
	if width <= minShoulderWidth {
		return 0
	}
	return math.Abs(pose.LeftShoulder.Y-pose.RightShoulder.Y) / width * 100
}

// CalculateHeadTilt returns the vertical ear offset as a percentage of shoulder width.
func (FrontalAnalyzer) CalculateHeadTilt(pose Pose) float64 {
	width := pose.ShoulderWidth()
	if width <= minShoulderWidth {
		return 0
	}
	return math.Abs(pose.LeftEar.Y-pose.RightEar.Y) / width * 100
}

func classifyFrontal(shoulderImbalance, headTilt float64) SeverityLevel {
	switch {
	case shoulderImbalance > ShoulderImbalanceDanger || headTilt > HeadTiltDanger:
		return Danger
	case shoulderImbalance > ShoulderImbalanceWarning || headTilt > HeadTiltWarning:
		return Warning
	default:
		return Normal
	}
}

// frontalMessage picks the shoulder phrasing only when shoulders strictly dominate;
// ties read as head tilt.
func frontalMessage(shoulderImbalance, headTilt float64, level SeverityLevel) string {
	switch level {
	case Danger:
		return frontDangerMessage(shoulderImbalance, headTilt)
	case Warning:
		if shoulderImbalance > headTilt {
			return frontShoulderLeanMessage(shoulderImbalance)
		}
		return FrontHeadTiltMessage
	default:
		return FrontNormalMessage
	}
}

// frontalFixAction prescribes shoulder rolls on ties, unlike frontalMessage.
func frontalFixAction(shoulderImbalance, headTilt float64) string {
	if shoulderImbalance >= headTilt {
		return FixActionShoulderRolls
	}
	return FixActionNeckStretch
}
