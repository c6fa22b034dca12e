package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/app"
)

// OnboardingStep is one page of the first-run introduction.
type OnboardingStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OnboardingSteps is shown to users who have not completed onboarding.
var OnboardingSteps = []OnboardingStep{
	{
		Title:       "Check your neck posture",
		Description: "Take a side photo and see how far your head sits in front of your shoulders, and how much extra load that puts on your neck.",
	},
	{
		Title:       "Take a good photo",
		Description: "Keep your ear and shoulder clearly visible and away from the edges of the frame. Use the front view to check shoulder and head balance.",
	},
	{
		Title:       "Track your progress",
		Description: "Do the suggested exercise, retake the photo and compare. Every result is saved to your history.",
	},
}

// OnboardingHandler exposes the first-run flag.
type OnboardingHandler struct {
	app *app.App
	log logrus.FieldLogger
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(a *app.App, log logrus.FieldLogger) *OnboardingHandler {
	return &OnboardingHandler{app: a, log: log}
}

type onboardingResponse struct {
	HasSeenOnboarding bool             `json:"hasSeenOnboarding"`
	Steps             []OnboardingStep `json:"steps"`
}

// Get handles GET /api/onboarding.
func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	seen, err := h.app.HasSeenOnboarding()
	if err != nil {
		h.log.WithError(err).Error("Failed to read onboarding flag")
		writeError(w, http.StatusInternalServerError, ReasonInternal, "Failed to read onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, onboardingResponse{HasSeenOnboarding: seen, Steps: OnboardingSteps})
}

// Complete handles POST /api/onboarding/complete.
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := h.app.CompleteOnboarding(); err != nil {
		h.log.WithError(err).Error("Failed to complete onboarding")
		writeError(w, http.StatusInternalServerError, ReasonInternal, "Failed to complete onboarding")
		return
	}
	writeJSON(w, http.StatusOK, onboardingResponse{HasSeenOnboarding: true, Steps: OnboardingSteps})
}
