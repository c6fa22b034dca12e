package detector

import (
	"context"
	"sync"
)

// Fixture image dimensions in pixels.
const (
	FixtureWidth  = 640
	FixtureHeight = 480
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu        sync.Mutex
	landmarks *Landmarks
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance. Until configured it reports ErrNoPose.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLandmarks sets the landmarks that will be returned by Detect.
func (m *MockDetector) SetLandmarks(landmarks *Landmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.landmarks = landmarks
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured landmarks or error.
func (m *MockDetector) Detect(ctx context.Context, image []byte) (*Landmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.landmarks == nil {
		return nil, ErrNoPose
	}
	lm := *m.landmarks
	return &lm, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

func fixture(leftEar, rightEar, leftShoulder, rightShoulder *Landmark) *Landmarks {
	return &Landmarks{
		LeftEar:       leftEar,
		RightEar:      rightEar,
		LeftShoulder:  leftShoulder,
		RightShoulder: rightShoulder,
		ImageWidth:    FixtureWidth,
		ImageHeight:   FixtureHeight,
	}
}

// UprightSideLandmarks returns a side view with the left ear almost above
// the left shoulder (about 6.7% protrusion). The right side is occluded.
func UprightSideLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 320, Y: 144, Likelihood: 0.95},
		&Landmark{X: 310, Y: 140, Likelihood: 0.2},
		&Landmark{X: 332.8, Y: 288, Likelihood: 0.93},
		&Landmark{X: 300, Y: 290, Likelihood: 0.2},
	)
}

// ForwardHeadLandmarks returns a side view with the ear well ahead of the
// shoulder (40% protrusion).
func ForwardHeadLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 396.8, Y: 144, Likelihood: 0.95},
		&Landmark{X: 380, Y: 140, Likelihood: 0.2},
		&Landmark{X: 320, Y: 288, Likelihood: 0.93},
		&Landmark{X: 300, Y: 290, Likelihood: 0.2},
	)
}

// LevelFrontLandmarks returns a front view with level ears and shoulders.
func LevelFrontLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 256, Y: 144, Likelihood: 0.95},
		&Landmark{X: 384, Y: 144, Likelihood: 0.95},
		&Landmark{X: 160, Y: 264, Likelihood: 0.95},
		&Landmark{X: 480, Y: 264, Likelihood: 0.95},
	)
}

// TiltedFrontLandmarks returns a front view whose right shoulder sits lower
// by 10% of shoulder width.
func TiltedFrontLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 256, Y: 144, Likelihood: 0.95},
		&Landmark{X: 384, Y: 144, Likelihood: 0.95},
		&Landmark{X: 160, Y: 264, Likelihood: 0.95},
		&Landmark{X: 480, Y: 288, Likelihood: 0.95},
	)
}

// LowConfidenceLandmarks returns a pose where no landmark is confidently detected.
func LowConfidenceLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 256, Y: 144, Likelihood: 0.3},
		&Landmark{X: 384, Y: 144, Likelihood: 0.3},
		&Landmark{X: 160, Y: 264, Likelihood: 0.3},
		&Landmark{X: 480, Y: 264, Likelihood: 0.3},
	)
}

// EdgeOfFrameLandmarks returns a confident side view whose ear touches the left image edge.
func EdgeOfFrameLandmarks() *Landmarks {
	return fixture(
		&Landmark{X: 12.8, Y: 144, Likelihood: 0.95},
		nil,
		&Landmark{X: 64, Y: 288, Likelihood: 0.93},
		nil,
	)
}
