// Package cli provides the cobra command tree for webproj. This file
// defines Dependencies, the composition root that wires the domain
// packages together.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/internal/config"
	"github.com/modu-ai/webproj/internal/console"
	"github.com/modu-ai/webproj/internal/logging"
	"github.com/modu-ai/webproj/internal/netcheck"
	"github.com/modu-ai/webproj/internal/template"
	"github.com/modu-ai/webproj/internal/tooling"
	"github.com/modu-ai/webproj/internal/ui"
	"github.com/modu-ai/webproj/internal/vcs"
)

// ToolChecker reports which external tools are installed.
type ToolChecker interface {
	Check(ctx context.Context, reqs []tooling.Requirement) []tooling.Status
}

// InstallerFactory builds a package installer whose child processes get env.
type InstallerFactory func(env []string) (tooling.PackageInstaller, error)

// Dependencies holds every service the commands use. Commands reach
// collaborators only through this struct.
type Dependencies struct {
	Config       *config.Config
	Logger       *slog.Logger
	LogPath      string
	Theme        *ui.Theme
	Headless     *ui.HeadlessManager
	Progress     ui.Progress
	Static       template.Provider
	Remote       template.Provider // nil when no remote URL is configured
	Prober       console.Prober
	Checker      ToolChecker
	NewInstaller InstallerFactory
	Editor       console.Editor
	VCS          vcs.Initializer
	Stdio        tooling.IO

	closer io.Closer
}

// deps is the process-wide Dependencies, set by InitDependencies or SetDeps.
var deps *Dependencies

// GetDeps returns the current Dependencies, or nil before initialization.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// InitDependencies loads configuration, opens the run log and builds every
// collaborator from the persistent flags of cmd.
func InitDependencies(cmd *cobra.Command) error {
	cfgPath := getStringFlag(cmd, "config")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.NewLoader(cfgPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if lvl := getStringFlag(cmd, "log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if getBoolFlag(cmd, "quiet") {
		cfg.Log.Quiet = true
	}
	if getBoolFlag(cmd, "no-color") {
		cfg.UI.NoColor = true
	}

	opts := logging.Options{Level: logging.ParseLevel(cfg.Log.Level)}
	if !cfg.Log.Quiet {
		opts.Console = cmd.OutOrStdout()
	}
	runLog, err := logging.New(opts)
	if err != nil {
		return err
	}

	deps = NewDependencies(cfg, runLog.Logger, tooling.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, cmd.OutOrStdout())
	deps.LogPath = runLog.Path
	deps.closer = runLog
	deps.Logger.Debug("dependencies initialized", "config", cfgPath, "log", runLog.Path)
	return nil
}

// NewDependencies wires the production collaborators for cfg. out receives
// progress output.
func NewDependencies(cfg *config.Config, logger *slog.Logger, stdio tooling.IO, out io.Writer) *Dependencies {
	if logger == nil {
		logger = logging.Discard()
	}
	theme := ui.NewTheme(ui.ThemeConfig{NoColor: cfg.UI.NoColor})
	headless := ui.NewHeadlessManager()

	d := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Theme:    theme,
		Headless: headless,
		Progress: ui.NewProgress(theme, headless, out),
		Static:   template.NewStaticProvider(nil),
		Prober:   netcheck.New(cfg.Network.ProbeAddr, cfg.Network.ProbeTimeout, netcheck.WithLogger(logger)),
		Checker:  tooling.NewChecker(tooling.WithCheckerLogger(logger)),
		Editor:   tooling.NewCommandEditor(tooling.ResolveEditor(cfg.Editor, os.Getenv), stdio, logger),
		VCS:      vcs.NewGitInitializer(vcs.WithLogger(logger)),
		Stdio:    stdio,
	}
	if cfg.Templates.RemoteURL != "" {
		d.Remote = template.NewRemoteProvider(cfg.Templates.RemoteURL, cfg.Templates.Timeout,
			template.WithRetries(cfg.Templates.Retries),
			template.WithRemoteLogger(logger),
		)
	}
	d.NewInstaller = func(env []string) (tooling.PackageInstaller, error) {
		pm, err := tooling.DetectPackageManager(nil)
		if err != nil {
			return nil, err
		}
		return tooling.NewSystemInstaller(pm, stdio, env, logger), nil
	}
	return d
}

// Close releases the run log.
func (d *Dependencies) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// getStringFlag returns a string flag value, or "" when undefined.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag returns a bool flag value, or false when undefined.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
