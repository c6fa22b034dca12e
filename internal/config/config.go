// Package config loads ErgoGuard settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ayusman/ergoguard/internal/logging"
	"github.com/ayusman/ergoguard/internal/posture"
)

// Environment variable names.
const (
	EnvAddr                = "ERGOGUARD_ADDR"
	EnvDataDir             = "ERGOGUARD_DATA_DIR"
	EnvStaticDir           = "ERGOGUARD_STATIC_DIR"
	EnvConfidenceThreshold = "ERGOGUARD_CONFIDENCE_THRESHOLD"
	EnvFrameMargin         = "ERGOGUARD_FRAME_MARGIN"
	EnvDetectorCmd         = "ERGOGUARD_DETECTOR_CMD"
	EnvDetectorTimeoutMs   = "ERGOGUARD_DETECTOR_TIMEOUT_MS"
	EnvRateLimit           = "ERGOGUARD_RATE_LIMIT"
	EnvRateBurst           = "ERGOGUARD_RATE_BURST"
	EnvLogLevel            = "LOG_LEVEL"
	EnvLogFormat           = "LOG_FORMAT"
	EnvLogFile             = "LOG_FILE"
)

// Config holds all runtime settings.
type Config struct {
	Addr      string `validate:"required"`
	DataDir   string `validate:"required"`
	StaticDir string

	ConfidenceThreshold float64 `validate:"gt=0,lte=1"`
	FrameMargin         float64 `validate:"gte=0,lt=0.5"`

	DetectorCmd     string
	DetectorTimeout time.Duration `validate:"gt=0"`

	RateLimit float64 `validate:"gt=0"` // requests per second per client
	RateBurst int     `validate:"gte=1"`

	Log logging.Config
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:                ":8080",
		DataDir:             defaultDataDir(),
		ConfidenceThreshold: posture.DefaultConfidenceThreshold,
		FrameMargin:         posture.DefaultFrameMargin,
		DetectorTimeout:     5 * time.Second,
		RateLimit:           2,
		RateBurst:           5,
		Log: logging.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads an optional .env file in the working directory, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables over the defaults.
// Unparseable numbers keep their defaults; out-of-range values are an error.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.Addr = getEnv(EnvAddr, cfg.Addr)
	cfg.DataDir = getEnv(EnvDataDir, cfg.DataDir)
	cfg.StaticDir = getEnv(EnvStaticDir, cfg.StaticDir)
	cfg.ConfidenceThreshold = getEnvFloat(EnvConfidenceThreshold, cfg.ConfidenceThreshold)
	cfg.FrameMargin = getEnvFloat(EnvFrameMargin, cfg.FrameMargin)
	cfg.DetectorCmd = getEnv(EnvDetectorCmd, cfg.DetectorCmd)
	cfg.DetectorTimeout = time.Duration(getEnvInt(EnvDetectorTimeoutMs, int(cfg.DetectorTimeout/time.Millisecond))) * time.Millisecond
	cfg.RateLimit = getEnvFloat(EnvRateLimit, cfg.RateLimit)
	cfg.RateBurst = getEnvInt(EnvRateBurst, cfg.RateBurst)
	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = getEnv(EnvLogFormat, cfg.Log.Format)
	cfg.Log.File = getEnv(EnvLogFile, cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DBPath returns the SQLite database location inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "ergoguard.db")
}

// QualityChecker returns a checker with the configured thresholds.
func (c Config) QualityChecker() *posture.QualityChecker {
	return &posture.QualityChecker{
		ConfidenceThreshold: c.ConfidenceThreshold,
		Margin:              c.FrameMargin,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ergoguard"
	}
	return filepath.Join(home, ".ergoguard")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}
