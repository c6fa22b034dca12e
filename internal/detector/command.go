package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// CommandDetector runs an external executable once per image. The request is
// written to stdin as JSON and the executable prints one JSON response.
type CommandDetector struct {
	executable string
	config     Config
}

// NewCommandDetector creates a detector that runs executable for each image.
func NewCommandDetector(executable string, config Config) *CommandDetector {
	return &CommandDetector{
		executable: executable,
		config:     config,
	}
}

// Detect runs the command with the configured timeout.
func (d *CommandDetector) Detect(ctx context.Context, image []byte) (*Landmarks, error) {
	info, err := DecodeImage(image)
	if err != nil {
		return nil, err
	}

	timeout := d.config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.executable)
	cmd.Dir = filepath.Dir(d.executable)

	reqJSON, err := json.Marshal(serviceRequest{
		Image:         info.JPEG,
		Width:         info.Width,
		Height:        info.Height,
		MinConfidence: d.config.MinConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("detector command timeout after %s: %w", timeout, ctx.Err())
	}
	if err != nil {
		if stderrStr := stderr.String(); stderrStr != "" {
			return nil, fmt.Errorf("detector command failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("detector command failed: %w", err)
	}

	var response serviceResponse
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse detector response: %w, stdout: %s", err, stdout.String())
	}

	return response.toLandmarks(info)
}

// Close is a no-op; each detection runs its own process.
func (d *CommandDetector) Close() error {
	return nil
}
