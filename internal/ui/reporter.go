package ui

import (
	"fmt"
	"io"
	"strings"
)

// StepReporter shows named steps on a spinner, switches to a progress bar
// while a step reports counted progress, and prints a check list once
// Close is called. It satisfies project.Reporter.
type StepReporter struct {
	progress Progress
	theme    *Theme
	out      io.Writer
	spinner  Spinner
	bar      ProgressBar
	done     int
	current  string
	message  string
	lines    []string
}

// NewStepReporter creates a StepReporter. The spinner starts on the first step.
func NewStepReporter(p Progress, theme *Theme, out io.Writer) *StepReporter {
	return &StepReporter{progress: p, theme: theme, out: out}
}

// StepStart shows message for the step called name.
func (r *StepReporter) StepStart(name, message string) {
	r.finishBar()
	r.current = name
	r.message = message
	if r.spinner == nil {
		r.spinner = r.progress.Spinner(message)
		return
	}
	r.spinner.SetTitle(message)
}

// StepProgress moves the current step's bar to done of total, replacing
// the spinner on the first call.
func (r *StepReporter) StepProgress(done, total int) {
	if r.bar == nil {
		r.stopSpinner()
		r.bar = r.progress.Start(r.message, total)
		r.done = 0
	}
	if done > r.done {
		r.bar.Increment(done - r.done)
		r.done = done
	}
}

// StepComplete records the current step as done.
func (r *StepReporter) StepComplete(message string) {
	r.finishBar()
	r.lines = append(r.lines, fmt.Sprintf("%s %s: %s", r.theme.Success("✓"), r.current, message))
}

// StepError records the current step as failed.
func (r *StepReporter) StepError(err error) {
	r.finishBar()
	r.lines = append(r.lines, fmt.Sprintf("%s %s: %v", r.theme.Error("✗"), r.current, err))
}

// Close stops any running widget and prints the recorded steps.
func (r *StepReporter) Close() {
	r.finishBar()
	r.stopSpinner()
	if len(r.lines) == 0 {
		return
	}
	_, _ = fmt.Fprintln(r.out, strings.Join(r.lines, "\n"))
	r.lines = nil
}

func (r *StepReporter) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
}

func (r *StepReporter) finishBar() {
	if r.bar != nil {
		r.bar.Done()
		r.bar = nil
	}
}
