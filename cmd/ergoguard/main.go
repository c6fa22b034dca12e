package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/config"
	"github.com/ayusman/ergoguard/internal/detector"
	"github.com/ayusman/ergoguard/internal/logging"
	"github.com/ayusman/ergoguard/internal/server"
	"github.com/ayusman/ergoguard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ergoguard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	log.Info("ErgoGuard - Posture Analysis")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath(), log)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:       st,
		DetectorCmd: cfg.DetectorCmd,
		DetectorConfig: detector.Config{
			MinConfidence: cfg.ConfidenceThreshold,
			IdleTimeout:   30 * time.Second,
			Timeout:       cfg.DetectorTimeout,
		},
		QualityChecker: cfg.QualityChecker(),
		Log:            log,
	})
	defer a.Close()

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.WithField("dir", staticDir).Info("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		App:       a,
		Log:       log,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("addr", cfg.Addr).Info("Starting server")
	return srv.Run(ctx, cfg.Addr)
}

// findWebDir searches "web", "../web", "../../web" and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
