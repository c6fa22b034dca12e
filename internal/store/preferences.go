package store

import (
	"errors"

	"github.com/ayusman/ergoguard/internal/history"
)

// Preference keys.
const (
	KeyHasSeenOnboarding = "has_seen_onboarding"
	KeyPostureHistory    = "posture_history"
)

// Preferences exposes typed application preferences on top of the settings table.
type Preferences struct {
	settings *SettingsRepository
}

// Preferences returns the preferences view of this store.
func (s *Store) Preferences() *Preferences {
	return &Preferences{settings: s.Settings()}
}

// HasSeenOnboarding reports whether onboarding was completed. Defaults to false.
func (p *Preferences) HasSeenOnboarding() (bool, error) {
	value, err := p.settings.Get(KeyHasSeenOnboarding)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetOnboardingCompleted records that onboarding was completed.
func (p *Preferences) SetOnboardingCompleted() error {
	return p.settings.Set(KeyHasSeenOnboarding, "true")
}

// HistoryJSON returns the raw encoded history. Defaults to "[]".
func (p *Preferences) HistoryJSON() (string, error) {
	value, err := p.settings.Get(KeyPostureHistory)
	if errors.Is(err, ErrNotFound) {
		return history.EmptyJSON, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SaveHistoryJSON replaces the raw encoded history.
func (p *Preferences) SaveHistoryJSON(data string) error {
	return p.settings.Set(KeyPostureHistory, data)
}
