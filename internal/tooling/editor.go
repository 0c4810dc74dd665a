package tooling

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultEditor is used when nothing else is configured.
const DefaultEditor = "vi"

// Editor opens a file for interactive editing and blocks until the user is done.
type Editor interface {
	Open(ctx context.Context, path string, env []string) error
}

// ResolveEditor picks the editor command: the configured value first, then
// $VISUAL, then $EDITOR, then DefaultEditor.
func ResolveEditor(configured string, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, c := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return DefaultEditor
}

// CommandEditor runs an editor command line such as "vim" or "code --wait".
type CommandEditor struct {
	command string
	stdio   IO
	logger  *slog.Logger
}

// NewCommandEditor creates an editor that runs command attached to stdio.
func NewCommandEditor(command string, stdio IO, logger *slog.Logger) *CommandEditor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CommandEditor{command: command, stdio: stdio, logger: logger}
}

// Command returns the editor command line.
func (e *CommandEditor) Command() string { return e.command }

// Open launches the editor on path with env appended to the process
// environment. There is no timeout: the call returns when the editor exits.
func (e *CommandEditor) Open(ctx context.Context, path string, env []string) error {
	fields := strings.Fields(e.command)
	if len(fields) == 0 {
		return ErrNoEditor
	}

	e.logger.Info("opening editor", "editor", fields[0], "path", path)

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = e.stdio.In
	cmd.Stdout = e.stdio.Out
	cmd.Stderr = e.stdio.Err
	cmd.Env = append(os.Environ(), env...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", fields[0], err)
	}
	return nil
}
