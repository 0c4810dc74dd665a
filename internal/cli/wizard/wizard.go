package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/modu-ai/webproj/internal/ui"
)

// Run asks every question that is not fixed and returns the answers.
// Blank answers take the question's default.
func Run(questions []Question, p Prompter) (Answers, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	answers := make(Answers, len(questions))
	for _, q := range questions {
		if q.Fixed {
			answers[q.ID] = q.Value
			continue
		}
		v, err := p.Ask(q)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(v) == "" {
			v = q.Default
		}
		answers[q.ID] = v
	}
	return answers, nil
}

// LinePrompter reads one line per question. End of input answers blank
// and declines the confirmation.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// NewLinePrompter creates a LinePrompter over in and out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	if p.eof {
		return "", nil
	}
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		p.eof = true
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints "Title [default]: " and reads the answer.
func (p *LinePrompter) Ask(q Question) (string, error) {
	if q.Default != "" {
		_, _ = fmt.Fprintf(p.out, "%s [%s]: ", q.Title, q.Default)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s: ", q.Title)
	}
	return p.readLine()
}

// Confirm prints detail and title and accepts only "y" or "Y".
func (p *LinePrompter) Confirm(title, detail string) (bool, error) {
	if detail != "" {
		_, _ = fmt.Fprintln(p.out, detail)
	}
	_, _ = fmt.Fprintf(p.out, "%s [y/N]: ", title)
	ans, err := p.readLine()
	if err != nil {
		return false, err
	}
	return ans == "y" || ans == "Y", nil
}

// FormPrompter runs each question as its own huh form.
type FormPrompter struct {
	ctx   context.Context
	theme *huh.Theme
	in    io.Reader
	out   io.Writer
}

// NewFormPrompter creates a FormPrompter styled with theme. Nil in and
// out use the terminal.
func NewFormPrompter(ctx context.Context, theme *ui.Theme, in io.Reader, out io.Writer) *FormPrompter {
	return &FormPrompter{ctx: ctx, theme: theme.HuhTheme(), in: in, out: out}
}

func (p *FormPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithShowHelp(false)
	if p.in != nil {
		form = form.WithInput(p.in)
	}
	if p.out != nil {
		form = form.WithOutput(p.out)
	}
	if err := form.RunWithContext(p.ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}

// Ask shows a text input for q.
func (p *FormPrompter) Ask(q Question) (string, error) {
	var value string
	inp := huh.NewInput().
		Title(q.Title).
		Description(q.Description).
		Value(&value)
	if q.Default != "" {
		inp = inp.Placeholder(q.Default)
	}
	if err := p.run(inp); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm shows title and detail above a yes/no choice defaulting to no.
func (p *FormPrompter) Confirm(title, detail string) (bool, error) {
	var ok bool
	c := huh.NewConfirm().
		Title(title).
		Description(detail).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := p.run(c); err != nil {
		return false, err
	}
	return ok, nil
}

// DefaultsPrompter answers every question blank, so Run falls back to
// defaults, and confirms everything. It backs --non-interactive.
type DefaultsPrompter struct{}

// Ask returns "".
func (DefaultsPrompter) Ask(Question) (string, error) { return "", nil }

// Confirm returns true.
func (DefaultsPrompter) Confirm(string, string) (bool, error) { return true, nil }
