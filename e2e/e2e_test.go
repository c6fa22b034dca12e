package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/detector"
	"github.com/ayusman/ergoguard/internal/server"
	"github.com/ayusman/ergoguard/internal/store"
	"github.com/ayusman/ergoguard/testdata"
)

type outcome struct {
	Result struct {
		ViewMode         string  `json:"viewMode"`
		DeviationPercent float64 `json:"deviationPercent"`
		Level            string  `json:"level"`
		FixAction        string  `json:"fixAction"`
		Timestamp        int64   `json:"timestamp"`
	} `json:"result"`
	Comparison *struct {
		InitialPercentage  float64 `json:"initialPercentage"`
		CurrentPercentage  float64 `json:"currentPercentage"`
		IsImproved         bool    `json:"isImproved"`
		ImprovementMessage string  `json:"improvementMessage"`
	} `json:"comparison"`
	IsFirstCapture bool `json:"isFirstCapture"`
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "ergoguard.db")
	log, _ := test.NewNullLogger()

	s, err := store.New(dbPath, log)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	mockDetector := detector.NewMockDetector()
	application := app.New(app.Config{Store: s, Detector: mockDetector, Log: log})

	srv := server.New(server.Config{App: application, Log: log, RateLimit: 100, RateBurst: 100})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	photo, err := testdata.JPEG(detector.FixtureWidth, detector.FixtureHeight)
	if err != nil {
		t.Fatalf("testdata.JPEG() error = %v", err)
	}

	analyze := func(t *testing.T) outcome {
		t.Helper()
		resp, err := client.Post(ts.URL+"/api/analyze", "image/jpeg", bytes.NewReader(photo))
		if err != nil {
			t.Fatalf("analyze error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var o outcome
		if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		return o
	}

	t.Run("Onboarding", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/onboarding/complete", "application/json", nil)
		if err != nil {
			t.Fatalf("complete onboarding error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("FirstCapture", func(t *testing.T) {
		mockDetector.SetLandmarks(detector.ForwardHeadLandmarks())
		o := analyze(t)

		if !o.IsFirstCapture {
			t.Error("expected first capture")
		}
		if o.Result.ViewMode != "SIDE" || o.Result.Level != "DANGER" {
			t.Errorf("result = %+v, want SIDE/DANGER", o.Result)
		}
		if o.Result.FixAction == "" {
			t.Error("expected a fix action")
		}
		if o.Result.Timestamp == 0 {
			t.Error("expected result to be stamped")
		}
	})

	t.Run("BadPhotoKeepsBaseline", func(t *testing.T) {
		mockDetector.SetLandmarks(detector.EdgeOfFrameLandmarks())
		resp, err := client.Post(ts.URL+"/api/analyze", "image/jpeg", bytes.NewReader(photo))
		if err != nil {
			t.Fatalf("analyze error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
		}
	})

	t.Run("RetakeAfterExercise", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/session/retake", "application/json", nil)
		if err != nil {
			t.Fatalf("retake error = %v", err)
		}
		resp.Body.Close()

		mockDetector.SetLandmarks(detector.UprightSideLandmarks())
		o := analyze(t)

		if o.IsFirstCapture {
			t.Fatal("expected comparison against baseline")
		}
		if o.Comparison == nil || !o.Comparison.IsImproved {
			t.Fatalf("comparison = %+v, want improvement", o.Comparison)
		}
		if o.Comparison.InitialPercentage <= o.Comparison.CurrentPercentage {
			t.Errorf("initial %f should exceed current %f",
				o.Comparison.InitialPercentage, o.Comparison.CurrentPercentage)
		}
		if !strings.Contains(o.Comparison.ImprovementMessage, "%") {
			t.Errorf("improvement message %q should quote the delta", o.Comparison.ImprovementMessage)
		}
	})

	t.Run("FrontView", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/session/mode", strings.NewReader(`{"mode":"FRONT"}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("set mode error = %v", err)
		}
		resp.Body.Close()

		mockDetector.SetLandmarks(detector.LevelFrontLandmarks())
		o := analyze(t)
		if !o.IsFirstCapture || o.Result.ViewMode != "FRONT" || o.Result.Level != "NORMAL" {
			t.Errorf("front outcome = %+v", o)
		}
	})

	ts.Close()
	application.Close()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// History and onboarding survive a restart.
	t.Run("Persistence", func(t *testing.T) {
		reopened, err := store.New(dbPath, log)
		if err != nil {
			t.Fatalf("reopen store error = %v", err)
		}
		defer reopened.Close()

		restarted := app.New(app.Config{Store: reopened, Detector: detector.NewMockDetector(), Log: log})

		entries, err := restarted.History()
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("history has %d entries, want 3", len(entries))
		}
		if entries[0].Level != "NORMAL" || entries[len(entries)-1].Level != "DANGER" {
			t.Errorf("unexpected history order: %+v", entries)
		}

		seen, err := restarted.HasSeenOnboarding()
		if err != nil {
			t.Fatalf("HasSeenOnboarding() error = %v", err)
		}
		if !seen {
			t.Error("expected onboarding flag to persist")
		}
	})
}
