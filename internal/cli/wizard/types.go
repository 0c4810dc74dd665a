// Package wizard collects project metadata: huh forms on a terminal,
// numbered line prompts otherwise.
package wizard

import "errors"

// Question IDs, in prompt order.
const (
	IDName        = "name"
	IDDescription = "description"
	IDAuthor      = "author"
	IDPort        = "port"
)

// Question is one metadata prompt.
type Question struct {
	ID          string
	Title       string
	Description string
	Default     string // Used when the answer is blank; may be empty.
	Fixed       bool   // Answered by a flag; not asked.
	Value       string // The flag value when Fixed.
}

// Answers holds the raw responses keyed by question ID.
type Answers map[string]string

// Prompter asks questions and yes/no confirmations.
type Prompter interface {
	Ask(q Question) (string, error)
	// Confirm shows detail, when non-empty, and asks title as a yes/no
	// question defaulting to no.
	Confirm(title, detail string) (bool, error)
}

var (
	// ErrCancelled is returned when the user aborts the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when Run gets an empty question list.
	ErrNoQuestions = errors.New("no questions provided")
)
