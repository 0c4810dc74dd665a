// Package ui provides terminal presentation for webproj: headless
// detection, a lipgloss theme, and spinner/progress feedback backed by
// bubbletea that degrades to plain log lines without a TTY.
package ui

import "errors"

// ErrCancelled is returned when the user aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// Progress creates feedback widgets for long-running work.
type Progress interface {
	// Start creates a determinate progress bar with total steps.
	Start(title string, total int) ProgressBar
	// Spinner creates an indeterminate spinner.
	Spinner(title string) Spinner
}

// ProgressBar reports determinate progress.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	// Done completes the bar. Safe to call more than once.
	Done()
}

// Spinner reports indeterminate progress.
type Spinner interface {
	SetTitle(title string)
	// Stop halts the spinner. Safe to call more than once.
	Stop()
}
