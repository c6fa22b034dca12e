package detector

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/ergoguard/internal/posture"
	"github.com/ayusman/ergoguard/testdata"
)

const epsilon = 1e-9

func TestLandmarks_Normalize(t *testing.T) {
	t.Run("divides by image dimensions", func(t *testing.T) {
		lm := &Landmarks{
			LeftEar:       &Landmark{X: 320, Y: 120, Likelihood: 0.9},
			RightEar:      &Landmark{X: 160, Y: 240, Likelihood: 0.8},
			LeftShoulder:  &Landmark{X: 640, Y: 480, Likelihood: 0.7},
			RightShoulder: &Landmark{X: 0, Y: 0, Likelihood: 0.6},
			ImageWidth:    640,
			ImageHeight:   480,
		}

		pose, err := lm.Normalize()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if math.Abs(pose.LeftEar.X-0.5) > epsilon || math.Abs(pose.LeftEar.Y-0.25) > epsilon {
			t.Errorf("expected left ear (0.5, 0.25), got (%f, %f)", pose.LeftEar.X, pose.LeftEar.Y)
		}
		if math.Abs(pose.RightEar.X-0.25) > epsilon || math.Abs(pose.RightEar.Y-0.5) > epsilon {
			t.Errorf("expected right ear (0.25, 0.5), got (%f, %f)", pose.RightEar.X, pose.RightEar.Y)
		}
		if pose.LeftShoulder.X != 1 || pose.LeftShoulder.Y != 1 {
			t.Errorf("expected left shoulder (1, 1), got (%f, %f)", pose.LeftShoulder.X, pose.LeftShoulder.Y)
		}
		if pose.LeftShoulder.Confidence != 0.7 {
			t.Errorf("expected likelihood carried as confidence, got %f", pose.LeftShoulder.Confidence)
		}
	})

	t.Run("missing landmarks become invalid points", func(t *testing.T) {
		lm := &Landmarks{
			LeftEar:     &Landmark{X: 10, Y: 10, Likelihood: 0.9},
			ImageWidth:  100,
			ImageHeight: 100,
		}

		pose, err := lm.Normalize()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pose.RightEar != posture.InvalidPoint {
			t.Errorf("expected invalid right ear, got %+v", pose.RightEar)
		}
		if pose.RightShoulder.IsValid(posture.DefaultConfidenceThreshold) {
			t.Error("expected missing shoulder to fail the confidence threshold")
		}
	})

	t.Run("non-positive dimensions", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 480}, {640, 0}, {-1, -1}} {
			lm := &Landmarks{ImageWidth: dims[0], ImageHeight: dims[1]}
			if _, err := lm.Normalize(); !errors.Is(err, ErrInvalidImage) {
				t.Errorf("%v: expected ErrInvalidImage, got %v", dims, err)
			}
		}
	})

	t.Run("nil landmarks", func(t *testing.T) {
		var lm *Landmarks
		if _, err := lm.Normalize(); !errors.Is(err, ErrNoPose) {
			t.Errorf("expected ErrNoPose, got %v", err)
		}
	})
}

func TestMockDetector(t *testing.T) {
	ctx := context.Background()

	t.Run("reports no pose by default", func(t *testing.T) {
		mock := NewMockDetector()

		lm, err := mock.Detect(ctx, nil)

		if !errors.Is(err, ErrNoPose) {
			t.Errorf("expected ErrNoPose, got %v", err)
		}
		if lm != nil {
			t.Errorf("expected nil landmarks, got %v", lm)
		}
	})

	t.Run("returns configured landmarks", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetLandmarks(UprightSideLandmarks())

		lm, err := mock.Detect(ctx, []byte("frame"))

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lm.ImageWidth != FixtureWidth {
			t.Errorf("expected width %d, got %d", FixtureWidth, lm.ImageWidth)
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetLandmarks(UprightSideLandmarks())
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		lm, err := mock.Detect(ctx, nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if lm != nil {
			t.Errorf("expected nil landmarks when error is set, got %v", lm)
		}
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetLandmarks(UprightSideLandmarks())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := mock.Detect(cancelled, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*CommandDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestFixtures(t *testing.T) {
	analyzer := posture.NewAnalyzer()
	checker := posture.NewQualityChecker()

	analyze := func(t *testing.T, lm *Landmarks, mode posture.ViewMode) (posture.AnalysisResult, error) {
		t.Helper()
		pose, err := lm.Normalize()
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if err := checker.Check(pose, mode); err != nil {
			return posture.AnalysisResult{}, err
		}
		return analyzer.Analyze(pose, mode)
	}

	t.Run("upright side is normal", func(t *testing.T) {
		result, err := analyze(t, UprightSideLandmarks(), posture.SideView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Level != posture.Normal {
			t.Errorf("expected NORMAL, got %s (%.2f%%)", result.Level, result.DeviationPercent)
		}
	})

	t.Run("forward head is danger", func(t *testing.T) {
		result, err := analyze(t, ForwardHeadLandmarks(), posture.SideView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(result.DeviationPercent-40) > 1e-6 {
			t.Errorf("expected 40%% protrusion, got %f", result.DeviationPercent)
		}
		if result.Level != posture.Danger {
			t.Errorf("expected DANGER, got %s", result.Level)
		}
	})

	t.Run("level front is normal", func(t *testing.T) {
		result, err := analyze(t, LevelFrontLandmarks(), posture.FrontView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Level != posture.Normal || result.DeviationPercent != 0 {
			t.Errorf("expected NORMAL at 0%%, got %s at %f", result.Level, result.DeviationPercent)
		}
	})

	t.Run("tilted front is danger", func(t *testing.T) {
		result, err := analyze(t, TiltedFrontLandmarks(), posture.FrontView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(result.DeviationPercent-10) > 1e-6 {
			t.Errorf("expected 10%% imbalance, got %f", result.DeviationPercent)
		}
		if result.Level != posture.Danger {
			t.Errorf("expected DANGER, got %s", result.Level)
		}
	})

	t.Run("low confidence fails quality gate", func(t *testing.T) {
		for _, mode := range []posture.ViewMode{posture.SideView, posture.FrontView} {
			_, err := analyze(t, LowConfidenceLandmarks(), mode)
			var qerr *posture.QualityError
			if !errors.As(err, &qerr) || qerr.Reason != posture.ReasonLowConfidence {
				t.Errorf("%s: expected low confidence rejection, got %v", mode, err)
			}
		}
	})

	t.Run("edge of frame fails quality gate", func(t *testing.T) {
		_, err := analyze(t, EdgeOfFrameLandmarks(), posture.SideView)
		var qerr *posture.QualityError
		if !errors.As(err, &qerr) || qerr.Reason != posture.ReasonOutOfFrame {
			t.Errorf("expected out of frame rejection, got %v", err)
		}
	})
}

func TestServiceResponse_ToLandmarks(t *testing.T) {
	info := ImageInfo{Width: 320, Height: 240}

	t.Run("fills missing dimensions", func(t *testing.T) {
		r := serviceResponse{Pose: &Landmarks{LeftEar: &Landmark{X: 1, Y: 2, Likelihood: 0.9}}}
		lm, err := r.toLandmarks(info)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lm.ImageWidth != 320 || lm.ImageHeight != 240 {
			t.Errorf("expected 320x240, got %dx%d", lm.ImageWidth, lm.ImageHeight)
		}
	})

	t.Run("null pose", func(t *testing.T) {
		if _, err := (serviceResponse{}).toLandmarks(info); !errors.Is(err, ErrNoPose) {
			t.Errorf("expected ErrNoPose, got %v", err)
		}
	})

	t.Run("pose without landmarks", func(t *testing.T) {
		r := serviceResponse{Pose: &Landmarks{ImageWidth: 10, ImageHeight: 10}}
		if _, err := r.toLandmarks(info); !errors.Is(err, ErrNoPose) {
			t.Errorf("expected ErrNoPose, got %v", err)
		}
	})

	t.Run("service error", func(t *testing.T) {
		r := serviceResponse{Error: "model not loaded"}
		if _, err := r.toLandmarks(info); err == nil || err.Error() != "model not loaded" {
			t.Errorf("expected service error, got %v", err)
		}
	})
}

func TestDecodeImage(t *testing.T) {
	t.Run("reads dimensions", func(t *testing.T) {
		img, err := testdata.PNG(160, 120)
		if err != nil {
			t.Fatalf("create image: %v", err)
		}

		info, err := DecodeImage(img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Width != 160 || info.Height != 120 {
			t.Errorf("expected 160x120, got %dx%d", info.Width, info.Height)
		}
		if len(info.JPEG) < 2 || info.JPEG[0] != 0xFF || info.JPEG[1] != 0xD8 {
			t.Error("expected JPEG re-encoding")
		}
	})

	t.Run("rejects empty and garbage input", func(t *testing.T) {
		for _, input := range [][]byte{nil, {}, []byte("not an image")} {
			if _, err := DecodeImage(input); !errors.Is(err, ErrInvalidImage) {
				t.Errorf("%q: expected ErrInvalidImage, got %v", input, err)
			}
		}
	})
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "detect.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandDetector(t *testing.T) {
	img, err := testdata.JPEG(640, 480)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	ctx := context.Background()

	t.Run("parses landmarks", func(t *testing.T) {
		script := writeScript(t, `cat > /dev/null
echo '{"pose":{"leftEar":{"x":320,"y":144,"likelihood":0.95},"leftShoulder":{"x":332.8,"y":288,"likelihood":0.93}}}'
`)
		d := NewCommandDetector(script, DefaultConfig())

		lm, err := d.Detect(ctx, img)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lm.LeftEar == nil || lm.LeftEar.X != 320 {
			t.Errorf("expected left ear at x=320, got %+v", lm.LeftEar)
		}
		if lm.RightEar != nil {
			t.Errorf("expected missing right ear, got %+v", lm.RightEar)
		}
		if lm.ImageWidth != 640 || lm.ImageHeight != 480 {
			t.Errorf("expected dimensions from image, got %dx%d", lm.ImageWidth, lm.ImageHeight)
		}
	})

	t.Run("no pose", func(t *testing.T) {
		script := writeScript(t, "cat > /dev/null\necho '{\"pose\":null}'\n")
		d := NewCommandDetector(script, DefaultConfig())

		if _, err := d.Detect(ctx, img); !errors.Is(err, ErrNoPose) {
			t.Errorf("expected ErrNoPose, got %v", err)
		}
	})

	t.Run("non-zero exit includes stderr", func(t *testing.T) {
		script := writeScript(t, "echo boom >&2\nexit 3\n")
		d := NewCommandDetector(script, DefaultConfig())

		_, err := d.Detect(ctx, img)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		script := writeScript(t, "sleep 5\n")
		cfg := DefaultConfig()
		cfg.Timeout = 100 * time.Millisecond
		d := NewCommandDetector(script, cfg)

		start := time.Now()
		_, err := d.Detect(ctx, img)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > 3*time.Second {
			t.Error("expected the command to be killed at the timeout")
		}
	})

	t.Run("invalid image is rejected before running", func(t *testing.T) {
		d := NewCommandDetector("/nonexistent", DefaultConfig())
		if _, err := d.Detect(ctx, []byte("garbage")); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("expected ErrInvalidImage, got %v", err)
		}
	})
}
