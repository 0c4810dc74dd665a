package tooling

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// LookPathFunc resolves a program name to a path. It matches exec.LookPath.
type LookPathFunc func(file string) (string, error)

// RunFunc runs a program and returns its combined output.
type RunFunc func(ctx context.Context, name string, args ...string) (string, error)

// IO groups the standard streams handed to interactive child processes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// runOutput runs name with args and returns trimmed combined output.
func runOutput(ctx context.Context, name string, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(buf.String()), fmt.Errorf("run %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
