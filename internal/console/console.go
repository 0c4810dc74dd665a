// Package console implements the post-creation management menu: a
// synchronous loop that reads a choice, runs one action against the
// project directory and returns to the menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/modu-ai/webproj/internal/core/project"
	"github.com/modu-ai/webproj/internal/template"
	"github.com/modu-ai/webproj/internal/ui"
)

// ProbeTimeout bounds the connectivity check.
const ProbeTimeout = time.Second

// State is the console's position in its loop.
type State int

const (
	// StateIdle means the menu is shown and a choice is awaited.
	StateIdle State = iota
	// StateExited is terminal.
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Editor opens a file and blocks until the user is done with it.
type Editor interface {
	Open(ctx context.Context, path string, env []string) error
}

// Prober reports whether the network is reachable.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// PermissionFunc applies the permission policy to a project root.
type PermissionFunc func(root string) (*project.PermissionReport, error)

// Deps are the collaborators the menu actions call.
type Deps struct {
	Editor      Editor
	Prober      Prober
	Permissions PermissionFunc
}

// Fact is one row of the environment view.
type Fact struct {
	Key   string
	Value string
}

// Chooser returns the next menu choice. io.EOF ends the loop.
type Chooser func(ctx context.Context, items []MenuItem) (string, error)

// MenuItem is one menu entry.
type MenuItem struct {
	Key   string
	Label string
}

type action struct {
	MenuItem
	run func(ctx context.Context) error
}

// Console is the management menu bound to one project.
type Console struct {
	session  project.Session
	deps     Deps
	logger   *slog.Logger
	theme    *ui.Theme
	markdown func(string) (string, error)
	host     func() []Fact
	chooser  Chooser
	out      io.Writer
	state    State
	actions  []action
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// WithTheme sets the theme used for the menu and notices.
func WithTheme(t *ui.Theme) Option {
	return func(c *Console) {
		c.theme = t
	}
}

// WithMarkdown sets the renderer for the editor guide. Without one the
// guide is printed as-is.
func WithMarkdown(render func(string) (string, error)) Option {
	return func(c *Console) {
		c.markdown = render
	}
}

// WithHostFacts replaces the host/user/OS rows of the environment view.
func WithHostFacts(fn func() []Fact) Option {
	return func(c *Console) {
		c.host = fn
	}
}

// WithChooser replaces line-based input with another source of choices,
// such as a terminal select widget.
func WithChooser(ch Chooser) Option {
	return func(c *Console) {
		c.chooser = ch
	}
}

// WithOutput sets where Step writes. Run overrides it with its writer.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

// New creates a Console for session.
func New(session project.Session, deps Deps, opts ...Option) *Console {
	c := &Console{
		session: session,
		deps:    deps,
		host:    hostFacts,
		out:     io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.theme == nil {
		c.theme = ui.NewTheme(ui.ThemeConfig{NoColor: true})
	}
	if c.deps.Permissions == nil {
		c.deps.Permissions = func(root string) (*project.PermissionReport, error) {
			return project.ApplyPermissions(root, project.DefaultPermissionPolicy(), c.logger)
		}
	}
	c.actions = []action{
		{MenuItem{"1", "Edit HTML"}, c.editFunc(template.KindHTML)},
		{MenuItem{"2", "Edit CSS"}, c.editFunc(template.KindCSS)},
		{MenuItem{"3", "Edit JavaScript"}, c.editFunc(template.KindJavaScript)},
		{MenuItem{"4", "View project structure"}, c.viewTree},
		{MenuItem{"5", "View environment"}, c.viewEnvironment},
		{MenuItem{"6", "Set permissions"}, c.setPermissions},
		{MenuItem{"7", "Check connectivity"}, c.checkConnectivity},
		{MenuItem{"8", "View editor guide"}, c.viewGuide},
	}
	return c
}

// State returns the current state.
func (c *Console) State() State { return c.state }

// Items returns the menu entries, exit last.
func (c *Console) Items() []MenuItem {
	items := make([]MenuItem, 0, len(c.actions)+1)
	for _, a := range c.actions {
		items = append(items, a.MenuItem)
	}
	return append(items, MenuItem{Key: "0", Label: "Exit"})
}

// Step applies one choice. Unknown choices print a notice and leave the
// console idle. An action error is returned with the console still idle.
func (c *Console) Step(ctx context.Context, choice string) (State, error) {
	if c.state == StateExited {
		return c.state, nil
	}
	choice = strings.ToLower(strings.TrimSpace(choice))
	switch choice {
	case "0", "q", "exit":
		c.state = StateExited
		c.logger.Debug("console exited")
		return c.state, nil
	}
	for _, a := range c.actions {
		if a.Key != choice {
			continue
		}
		c.logger.Info("console action", "action", a.Label)
		if err := a.run(ctx); err != nil {
			return c.state, fmt.Errorf("%s: %w", strings.ToLower(a.Label), err)
		}
		return c.state, nil
	}
	c.printf("%s\n", c.theme.Warn("Invalid choice"))
	return c.state, nil
}

// Run loops until the exit choice or end of input. Action errors are
// printed and the loop continues.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.out = out
	next := c.chooser
	if next == nil {
		next = lineChooser(in, out, c.theme)
	}
	for c.state != StateExited {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := next(ctx, c.Items())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ui.ErrCancelled) {
				c.state = StateExited
				return nil
			}
			return fmt.Errorf("read choice: %w", err)
		}
		if _, err := c.Step(ctx, choice); err != nil {
			c.logger.Warn("console action failed", "error", err)
			c.printf("%s %v\n", c.theme.Error("error:"), err)
		}
	}
	return nil
}

// lineChooser renders the menu and reads one line per choice. It reads
// through a bufio.Reader so a caller that already wrapped in keeps sharing it.
func lineChooser(in io.Reader, out io.Writer, theme *ui.Theme) Chooser {
	r := bufio.NewReader(in)
	return func(_ context.Context, items []MenuItem) (string, error) {
		_, _ = io.WriteString(out, RenderMenu(theme, items))
		_, _ = io.WriteString(out, "Choice: ")
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// RenderMenu formats items as a titled card.
func RenderMenu(theme *ui.Theme, items []MenuItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s", theme.Title(it.Key), it.Label)
	}
	return theme.Card("Project management", b.String()) + "\n"
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) editFunc(kind template.Kind) func(context.Context) error {
	return func(ctx context.Context) error {
		if c.deps.Editor == nil {
			return errors.New("no editor configured")
		}
		a, ok := project.ArtifactFor(kind)
		if !ok {
			return fmt.Errorf("%w: %s", template.ErrUnknownKind, kind)
		}
		return c.deps.Editor.Open(ctx, c.session.Path(a.Path), c.session.Environ())
	}
}

func (c *Console) viewTree(context.Context) error {
	c.printf("%s\n", c.theme.Title(c.session.Root))
	_, err := WriteTree(c.out, c.session.Root)
	return err
}

func (c *Console) viewEnvironment(context.Context) error {
	spec := c.session.Spec
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRows([]table.Row{
		{"Project", spec.Name()},
		{"Description", spec.Description()},
		{"Author", spec.Author()},
		{"Port", strconv.Itoa(spec.Port())},
		{"Created", spec.CreatedAt().Format(time.RFC3339)},
		{"Directory", c.session.Root},
	})
	t.AppendSeparator()
	for _, f := range c.host() {
		t.AppendRow(table.Row{f.Key, f.Value})
	}
	t.Render()
	return nil
}

func (c *Console) setPermissions(context.Context) error {
	report, err := c.deps.Permissions(c.session.Root)
	if err != nil {
		return err
	}
	c.printf("%s permissions applied to %d entries", c.theme.Success("✓"), report.Applied)
	if n := len(report.Skipped); n > 0 {
		c.printf(", %s", c.theme.Warn(fmt.Sprintf("%d skipped", n)))
	}
	c.printf("\n")
	return nil
}

func (c *Console) checkConnectivity(ctx context.Context) error {
	if c.deps.Prober == nil {
		return errors.New("no connectivity probe configured")
	}
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	if c.deps.Prober.Reachable(ctx) {
		c.printf("Network: %s\n", c.theme.Success("online"))
	} else {
		c.printf("Network: %s\n", c.theme.Warn("offline"))
	}
	return nil
}

func (c *Console) viewGuide(context.Context) error {
	a, _ := project.ArtifactFor(template.KindEditorGuide)
	data, err := os.ReadFile(c.session.Path(a.Path))
	if err != nil {
		return fmt.Errorf("read guide: %w", err)
	}
	text := string(data)
	if c.markdown != nil {
		rendered, err := c.markdown(text)
		if err != nil {
			c.logger.Debug("guide rendering failed, showing raw text", "error", err)
		} else {
			text = rendered
		}
	}
	c.printf("%s", text)
	if !strings.HasSuffix(text, "\n") {
		c.printf("\n")
	}
	return nil
}

// hostFacts reports the machine the console runs on.
func hostFacts() []Fact {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	login := "unknown"
	if u, err := user.Current(); err == nil {
		login = u.Username
	}
	return []Fact{
		{Key: "Host", Value: host},
		{Key: "User", Value: login},
		{Key: "OS", Value: runtime.GOOS + "/" + runtime.GOARCH},
		{Key: "Go runtime", Value: runtime.Version()},
	}
}
