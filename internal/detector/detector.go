package detector

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoPose is returned when no person is found in the image.
	ErrNoPose = errors.New("no pose detected")

	// ErrInvalidImage is returned for empty or undecodable images.
	ErrInvalidImage = errors.New("invalid image")
)

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes an encoded image and returns the upper-body landmarks
	// in pixel space. Returns ErrNoPose if no person is detected.
	Detect(ctx context.Context, image []byte) (*Landmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum pose detection confidence (0.0-1.0).
	MinConfidence float64

	// IdleTimeout shuts a long-lived detection process down after this much inactivity.
	IdleTimeout time.Duration

	// Timeout bounds a single one-shot detection.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.5,
		IdleTimeout:   30 * time.Second,
		Timeout:       5 * time.Second,
	}
}
