// Package app wires pose detection, the capture session and persistence into
// the ErgoGuard analysis workflow.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/detector"
	"github.com/ayusman/ergoguard/internal/history"
	"github.com/ayusman/ergoguard/internal/posture"
	"github.com/ayusman/ergoguard/internal/session"
	"github.com/ayusman/ergoguard/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store

	// Detector overrides detector selection when set.
	Detector       detector.Detector
	DetectorCmd    string
	DetectorConfig detector.Config

	// QualityChecker defaults to posture.NewQualityChecker.
	QualityChecker *posture.QualityChecker

	Log   logrus.FieldLogger
	Clock func() time.Time
}

// Listener receives every successful analysis outcome.
type Listener func(session.Outcome)

// App is the main application that orchestrates detection, analysis and history.
type App struct {
	config    Config
	log       logrus.FieldLogger
	now       func() time.Time
	session   *session.Session
	detector  detector.Detector
	listeners []Listener
	mu        sync.RWMutex
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	log := config.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}

	a := &App{
		config:  config,
		log:     log.WithField("component", "app"),
		now:     now,
		session: session.New(config.QualityChecker, session.WithClock(now)),
	}
	a.detector = a.selectDetector()

	return a
}

func (a *App) selectDetector() detector.Detector {
	if a.config.Detector != nil {
		return a.config.Detector
	}

	if a.config.DetectorCmd != "" {
		a.log.WithField("command", a.config.DetectorCmd).Info("Using command pose detection")
		return detector.NewCommandDetector(a.config.DetectorCmd, a.config.DetectorConfig)
	}

	mp, err := detector.NewMediaPipeDetector(a.config.DetectorConfig, a.log)
	if err == nil {
		a.log.Info("Using MediaPipe pose detection")
		return mp
	}

	a.log.WithError(err).Warn("MediaPipe not available, using mock detector")
	return detector.NewMockDetector()
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Session returns the capture session.
func (a *App) Session() *session.Session {
	return a.session
}

// OnResult registers a listener for successful analyses.
func (a *App) OnResult(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

func (a *App) notify(outcome session.Outcome) {
	a.mu.RLock()
	listeners := make([]Listener, len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.RUnlock()

	for _, l := range listeners {
		l(outcome)
	}
}

// History returns the recorded analyses, newest first.
func (a *App) History() ([]history.Entry, error) {
	if a.config.Store == nil {
		return []history.Entry{}, nil
	}
	entries, err := a.config.Store.History().List()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history.SortNewestFirst(entries), nil
}

// HistorySummary aggregates the recorded analyses.
func (a *App) HistorySummary() (history.Summary, error) {
	entries, err := a.History()
	if err != nil {
		return history.Summary{}, err
	}
	return history.Summarize(entries), nil
}

// ClearHistory removes all recorded analyses.
func (a *App) ClearHistory() error {
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.History().Clear(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	a.log.Info("History cleared")
	return nil
}

// HasSeenOnboarding reports whether the onboarding flow was completed.
func (a *App) HasSeenOnboarding() (bool, error) {
	if a.config.Store == nil {
		return false, nil
	}
	return a.config.Store.Preferences().HasSeenOnboarding()
}

// CompleteOnboarding records that the onboarding flow was completed.
func (a *App) CompleteOnboarding() error {
	if a.config.Store == nil {
		return errors.New("no store configured")
	}
	return a.config.Store.Preferences().SetOnboardingCompleted()
}

// Close releases the detector.
func (a *App) Close() error {
	d := a.Detector()
	if d == nil {
		return nil
	}
	if err := d.Close(); err != nil {
		a.log.WithError(err).Error("Error closing detector")
		return err
	}
	return nil
}
