package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/internal/console"
	"github.com/modu-ai/webproj/internal/core/project"
	"github.com/modu-ai/webproj/internal/ui"
)

var manageCmd = &cobra.Command{
	Use:   "manage [dir]",
	Short: "Open the management console for an existing project",
	Long: `Open the management console for the project containing dir (default:
current directory). The project is located by its Config/project.config,
which also supplies the name, author, port and creation time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManage,
}

func init() {
	rootCmd.AddCommand(manageCmd)
}

func runManage(cmd *cobra.Command, args []string) error {
	if deps == nil {
		return errors.New("dependencies not initialized")
	}
	session, err := loadProject(args)
	if err != nil {
		return err
	}
	return runConsole(cmd.Context(), deps, session, cmd.InOrStdin(), cmd.OutOrStdout())
}

// loadProject finds the project containing args[0] (or the working
// directory) and rebuilds its session from project.config.
func loadProject(args []string) (project.Session, error) {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	root, err := project.FindProjectRoot(start)
	if err != nil {
		return project.Session{}, fmt.Errorf("find project in %s: %w", start, err)
	}
	session, err := project.LoadSession(root)
	if err != nil {
		return project.Session{}, fmt.Errorf("load project: %w", err)
	}
	return session, nil
}

// runConsole runs the management console. On a terminal the menu is a huh
// select and the editor guide is rendered with glamour.
func runConsole(ctx context.Context, d *Dependencies, session project.Session, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []console.Option{
		console.WithLogger(d.Logger),
		console.WithTheme(d.Theme),
	}
	if !d.Headless.IsHeadless() {
		opts = append(opts,
			console.WithMarkdown(d.Theme.MarkdownRenderer(ui.DefaultWrap)),
			console.WithChooser(menuChooser(d.Theme)),
		)
	}
	c := console.New(session, console.Deps{Editor: d.Editor, Prober: d.Prober}, opts...)
	return c.Run(ctx, in, out)
}

// menuChooser shows the console menu as a huh select.
func menuChooser(theme *ui.Theme) console.Chooser {
	return func(ctx context.Context, items []console.MenuItem) (string, error) {
		options := make([]huh.Option[string], len(items))
		for i, it := range items {
			options[i] = huh.NewOption(it.Key+"  "+it.Label, it.Key)
		}
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project management").
				Options(options...).
				Value(&choice),
		)).WithTheme(theme.HuhTheme()).WithOutput(os.Stdout)
		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return "", ui.ErrCancelled
			}
			return "", fmt.Errorf("menu: %w", err)
		}
		return choice, nil
	}
}
