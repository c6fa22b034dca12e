package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/ergoguard/internal/detector"
	"github.com/ayusman/ergoguard/internal/history"
	"github.com/ayusman/ergoguard/internal/posture"
	"github.com/ayusman/ergoguard/internal/session"
)

// Result is delivered by AnalyzeAsync.
type Result struct {
	Outcome session.Outcome
	Err     error
}

// Analyze runs the full pipeline on an encoded image:
//
//  1. Detect the pose landmarks
//  2. Normalize them to the image size
//  3. Quality-check, analyze and compare within the session
//  4. Record the result in history
//  5. Notify listeners
//
// Detection failures wrap detector.ErrNoPose or detector.ErrInvalidImage;
// quality failures are *posture.QualityError.
func (a *App) Analyze(ctx context.Context, image []byte) (session.Outcome, error) {
	if len(image) == 0 {
		return session.Outcome{}, fmt.Errorf("%w: empty image", detector.ErrInvalidImage)
	}

	a.session.Begin()
	start := time.Now()

	landmarks, err := a.Detector().Detect(ctx, image)
	if err != nil {
		a.session.Fail(err)
		return session.Outcome{}, fmt.Errorf("detect pose: %w", err)
	}

	pose, err := landmarks.Normalize()
	if err != nil {
		a.session.Fail(err)
		return session.Outcome{}, fmt.Errorf("normalize landmarks: %w", err)
	}

	a.log.WithField("detect_ms", time.Since(start).Milliseconds()).Debug("Pose detected")

	return a.evaluate(pose)
}

// AnalyzePose runs the pipeline on landmarks that were already detected and
// normalized by the client.
func (a *App) AnalyzePose(ctx context.Context, pose posture.Pose) (session.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return session.Outcome{}, err
	}
	a.session.Begin()
	return a.evaluate(pose)
}

// AnalyzeAsync runs Analyze in the background. The channel receives exactly one Result.
func (a *App) AnalyzeAsync(ctx context.Context, image []byte) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		outcome, err := a.Analyze(ctx, image)
		out <- Result{Outcome: outcome, Err: err}
	}()
	return out
}

func (a *App) evaluate(pose posture.Pose) (session.Outcome, error) {
	outcome, err := a.session.Evaluate(pose)
	if err != nil {
		return session.Outcome{}, err
	}

	result := outcome.Result
	a.log.WithFields(logrus.Fields{
		"view_mode": result.ViewMode,
		"deviation": fmt.Sprintf("%.1f", result.DeviationPercent),
		"level":     result.Level,
		"first":     outcome.IsFirstCapture,
	}).Info("Posture analyzed")

	a.record(result)
	a.notify(outcome)

	return outcome, nil
}

// record appends the result to history. A storage failure does not fail the analysis.
func (a *App) record(result posture.AnalysisResult) {
	if a.config.Store == nil {
		return
	}
	entry := history.FromResult(result, time.UnixMilli(result.Timestamp))
	if err := a.config.Store.History().Append(entry); err != nil {
		a.log.WithError(err).Error("Failed to record history entry")
	}
}
