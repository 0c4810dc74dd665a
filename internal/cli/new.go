package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/internal/cli/wizard"
	"github.com/modu-ai/webproj/internal/core/project"
	"github.com/modu-ai/webproj/internal/tooling"
	"github.com/modu-ai/webproj/internal/ui"
)

var newCmd = &cobra.Command{
	Use:     "new [project-name]",
	Aliases: []string{"init"},
	Short:   "Create a new web project",
	Long: `Create a new web project in <root>/<project-name>.

Prompts for the project name, description, author and port, shows a
summary and asks for confirmation. Flags answer the matching prompt.

Examples:
  webproj new                          Prompt for everything
  webproj new Demo --port 8080 --yes   Create ./Demo without confirming
  webproj new --non-interactive        Use defaults, never prompt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().String("description", "", "Project description")
	newCmd.Flags().String("author", "", "Author name (default: current user)")
	newCmd.Flags().String("port", "", "Development server port, 1024-65535 (default: 3000)")
	newCmd.Flags().String("root", "", "Parent directory for the project (default: current directory)")
	newCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	newCmd.Flags().Bool("no-remote", false, "Use built-in templates only")
	newCmd.Flags().Bool("no-git", false, "Skip git initialization")
	newCmd.Flags().Bool("install", false, "Install missing tools without asking")
	newCmd.Flags().Bool("manage", false, "Open the management console afterwards")
	newCmd.Flags().Bool("non-interactive", false, "Never prompt; use flags and defaults")
}

// newOptions are the parsed flags of the new command.
type newOptions struct {
	Preset         wizard.Preset
	Parent         string
	Yes            bool
	NoRemote       bool
	NoGit          bool
	Install        bool
	Manage         bool
	NonInteractive bool
}

func newOptionsFromCmd(cmd *cobra.Command, args []string) newOptions {
	changed := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v := getStringFlag(cmd, name)
		return &v
	}
	opts := newOptions{
		Preset: wizard.Preset{
			Description: changed("description"),
			Author:      changed("author"),
			Port:        changed("port"),
		},
		Parent:         getStringFlag(cmd, "root"),
		Yes:            getBoolFlag(cmd, "yes"),
		NoRemote:       getBoolFlag(cmd, "no-remote"),
		NoGit:          getBoolFlag(cmd, "no-git"),
		Install:        getBoolFlag(cmd, "install"),
		Manage:         getBoolFlag(cmd, "manage"),
		NonInteractive: getBoolFlag(cmd, "non-interactive"),
	}
	if len(args) > 0 {
		opts.Preset.Name = &args[0]
	}
	return opts
}

func runNew(cmd *cobra.Command, args []string) error {
	if deps == nil {
		return errors.New("dependencies not initialized")
	}
	_, err := createProject(cmd.Context(), deps, newOptionsFromCmd(cmd, args), cmd.InOrStdin(), cmd.OutOrStdout())
	return err
}

// prompterFor picks how questions are asked: not at all, with huh forms on
// a terminal, or as plain lines.
func prompterFor(ctx context.Context, d *Dependencies, nonInteractive bool, in io.Reader, out io.Writer) wizard.Prompter {
	switch {
	case nonInteractive:
		return wizard.DefaultsPrompter{}
	case d.Headless.IsHeadless():
		return wizard.NewLinePrompter(in, out)
	default:
		return wizard.NewFormPrompter(ctx, d.Theme, nil, nil)
	}
}

// createProject runs the whole creation flow. It returns a nil session when
// the user declines. Only materialization failures are returned as errors.
func createProject(ctx context.Context, d *Dependencies, opts newOptions, in io.Reader, out io.Writer) (*project.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// The wizard and the console read the same input.
	in = bufio.NewReader(in)
	p := prompterFor(ctx, d, opts.NonInteractive, in, out)

	answers, err := wizard.Run(wizard.DefaultQuestions(opts.Preset, d.Config.Defaults), p)
	if err != nil {
		if errors.Is(err, wizard.ErrCancelled) {
			_, _ = fmt.Fprintln(out, "Project creation cancelled.")
			return nil, nil
		}
		return nil, err
	}

	spec := project.Resolve(answers.RawInput())
	for _, w := range spec.Warnings() {
		d.Logger.Warn(w)
	}

	parent := opts.Parent
	if parent == "" {
		if parent, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	root, err := filepath.Abs(filepath.Join(parent, spec.Name()))
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}

	if !opts.Yes && !opts.NonInteractive {
		ok, err := p.Confirm("Create this project?", renderSummary(d.Theme, spec, root))
		if err != nil && !errors.Is(err, wizard.ErrCancelled) {
			return nil, err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Project creation cancelled.")
			return nil, nil
		}
	}

	d.Logger.Info("creating project", "name", spec.Name(), "root", root, "port", spec.Port())
	start := time.Now()

	mopts := []project.MaterializerOption{project.WithLogger(d.Logger)}
	if !opts.NoRemote && d.Remote != nil {
		mopts = append(mopts, project.WithRemote(d.Remote), project.WithProber(d.Prober))
	}
	reporter := ui.NewStepReporter(d.Progress, d.Theme, out)
	mopts = append(mopts, project.WithReporter(reporter))

	result, err := project.NewMaterializer(d.Static, mopts...).Materialize(ctx, spec, root)
	reporter.Close()
	if err != nil {
		d.Logger.Error("project creation failed", "root", root, "error", err)
		return nil, fmt.Errorf("create project: %w", err)
	}

	if report, err := project.ApplyPermissions(root, project.DefaultPermissionPolicy(), d.Logger); err != nil {
		d.Logger.Warn("permissions not applied", "error", err)
	} else {
		d.Logger.Info("permissions applied", "entries", report.Applied, "skipped", len(report.Skipped))
	}

	session := project.Session{Spec: spec, Root: root}
	ensureTools(ctx, d, session, opts, p)

	if !opts.NoGit {
		if err := d.VCS.Init(ctx, root, spec.Author()); err != nil {
			d.Logger.Warn("git initialization failed", "error", err)
		}
	}

	d.Logger.Info("project created", "root", root, "duration", time.Since(start).Round(time.Millisecond))
	_, _ = fmt.Fprintln(out, renderCreated(d.Theme, session, result, d.LogPath))

	if opts.Manage {
		if err := runConsole(ctx, d, session, in, out); err != nil {
			return &session, err
		}
	}
	return &session, nil
}

// ensureTools reports missing tools and installs them when allowed. The
// install prompt is only shown on a terminal; line input is never read here,
// so scripted input means the same thing whatever the host has installed.
// It never fails the run.
func ensureTools(ctx context.Context, d *Dependencies, session project.Session, opts newOptions, p wizard.Prompter) {
	statuses := d.Checker.Check(ctx, tooling.DefaultRequirements())
	missing := tooling.Missing(statuses)
	if len(missing) == 0 {
		d.Logger.Info("all required tools found")
		return
	}
	d.Logger.Warn("missing tools", "packages", strings.Join(missing, ", "))

	install := opts.Install
	if !install && !opts.NonInteractive && !d.Headless.IsHeadless() {
		ok, err := p.Confirm("Install missing tools ("+strings.Join(missing, ", ")+")?", "")
		if err != nil {
			d.Logger.Debug("install prompt failed", "error", err)
		}
		install = ok
	}
	if !install {
		d.Logger.Warn("continuing without missing tools; some features will not work",
			"hint", "install them with your package manager or pass --install")
		return
	}

	inst, err := d.NewInstaller(session.Environ())
	if err != nil {
		d.Logger.Warn("cannot install tools", "error", err)
		return
	}
	if err := inst.Install(ctx, missing); err != nil {
		d.Logger.Warn("tool installation failed", "error", err)
	}
}

func renderSummary(theme *ui.Theme, spec project.ProjectSpec, root string) string {
	lines := []string{
		"Name:        " + spec.Name(),
		"Description: " + spec.Description(),
		"Author:      " + spec.Author(),
		"Port:        " + strconv.Itoa(spec.Port()),
		"Location:    " + root,
	}
	for _, w := range spec.Warnings() {
		lines = append(lines, theme.Warn("! "+w))
	}
	return theme.Card("New project", strings.Join(lines, "\n"))
}

func renderCreated(theme *ui.Theme, session project.Session, result *project.Result, logPath string) string {
	details := []string{
		"Path: " + session.Root,
		fmt.Sprintf("Files: %d generated", len(result.CreatedFiles)),
	}
	if n := len(result.RemoteOverrides); n > 0 {
		details = append(details, fmt.Sprintf("Remote templates: %d", n))
	}
	if n := len(result.Warnings); n > 0 {
		details = append(details, theme.Warn(fmt.Sprintf("Warnings: %d (see log)", n)))
	}
	if logPath != "" {
		details = append(details, "Log: "+logPath)
	}
	details = append(details, "", theme.Muted("Next: cd "+session.Root+" && webproj serve"))
	return theme.SuccessCard("Created "+session.Spec.Name(), details...)
}
