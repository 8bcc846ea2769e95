package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Script runs a planner program that reads a Request as JSON on stdin and
// writes an Allocation as JSON on stdout.
type Script struct {
	Executable string
	Path       string
	Timeout    time.Duration
}

// NewScript creates a Script planner with a one minute timeout.
func NewScript(executable, path string) *Script {
	return &Script{Executable: executable, Path: path, Timeout: time.Minute}
}

// Plan implements Planner.
func (s *Script) Plan(ctx context.Context, req Request) (*Allocation, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode planner input: %w", err)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Executable, s.Path)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("planner script failed: %s", msg)
	}
	return ParseAllocation(stdout.Bytes())
}
