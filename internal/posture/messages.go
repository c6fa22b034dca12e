package posture

import "fmt"

// User-facing text. Kept in one table so it can be swapped for a translation.
const (
	SeverityNormalLabel  = "Safe"
	SeverityWarningLabel = "Mild overload"
	SeverityDangerLabel  = "Severe overload"

	SeverityNormalDescription  = "Your neck is in a natural position."
	SeverityWarningDescription = "Your neck muscles are carrying twice the weight of your head."
	SeverityDangerDescription  = "Extreme load (>15kg), a direct cause of neck pain and fatigue."

	FixActionChinTuck = "Keep your head level and use a finger to gently push your chin back until you feel a stretch at the back of your neck. Hold for 5 seconds, repeat 3 times."

	FixActionShoulderRolls = "Shoulder rolls:\n" +
		"1. Lift both shoulders up toward your ears\n" +
		"2. Roll them back and lower them as far as they go\n" +
		"3. Repeat 5 times to balance the shoulder muscles"

	FixActionNeckStretch = "Neck stretch:\n" +
		"1. Tilt your head to the right, hold 5 seconds\n" +
		"2. Tilt your head to the left, hold 5 seconds\n" +
		"3. Repeat 3 times on each side"

	FrontNormalMessage   = "Your posture is well balanced. Keep it up!"
	FrontHeadTiltMessage = "Your head is slightly tilted. This can be a sign of neck muscle fatigue."

	QualityLowConfidenceMessage      = "Could not clearly locate your ear or shoulder. Please retake the photo in better light."
	QualityFrontLowConfidenceMessage = "Both shoulders and ears must be visible. Face the camera and make sure both shoulders are in the picture."
	QualityOutOfFrameMessage         = "Your body is too close to the edge of the photo. Please step back a little."

	NoImprovementMessage = "Your posture has not clearly improved yet. Keep practicing the chin tuck exercise!"
)

// ImprovementSummary reports a reduced deviation between two captures.
func ImprovementSummary(initial, current int) string {
	return fmt.Sprintf("Great! You reduced your deviation from %d%% to %d%%.", initial, current)
}

func frontShoulderLeanMessage(shoulderImbalance float64) string {
	return fmt.Sprintf("Your shoulders are uneven by %d%%. This can tire the muscles on one side.", int(shoulderImbalance))
}

func frontDangerMessage(shoulderImbalance, headTilt float64) string {
	return fmt.Sprintf("Clear posture imbalance! Shoulders uneven by %d%%, head tilted by %d%%. Adjust now.",
		int(shoulderImbalance), int(headTilt))
}
