package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/internal/config"
	"github.com/modu-ai/webproj/internal/tooling"
	"github.com/modu-ai/webproj/pkg/version"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools and settings webproj relies on",
	Long: `Report whether git, Node.js, npm and an editor are installed, which
package manager would install missing tools, where configuration is read
from, and whether the network and remote templates are reachable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolP("verbose", "v", false, "Show paths and versions")
	doctorCmd.Flags().String("check", "", "Run only the named check")
	doctorCmd.Flags().String("export", "", "Write the results as JSON to this file")
}

// CheckStatus is the outcome of one diagnostic check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// DiagnosticCheck is one row of the doctor report.
type DiagnosticCheck struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if deps == nil {
		return errors.New("dependencies not initialized")
	}
	verbose := getBoolFlag(cmd, "verbose")
	filter := getStringFlag(cmd, "check")

	checks := runDiagnosticChecks(cmd.Context(), deps, verbose, filter)
	if filter != "" && len(checks) == 0 {
		return fmt.Errorf("unknown check %q", filter)
	}
	renderDiagnostics(cmd.OutOrStdout(), checks, verbose)

	if path := getStringFlag(cmd, "export"); path != "" {
		if err := exportDiagnostics(path, checks); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Diagnostics written to %s\n", path)
	}
	return nil
}

// toolNames maps requirement names to report names.
var toolNames = map[string]string{
	"git":  "Git",
	"node": "Node.js",
	"npm":  "npm",
	"vim":  "Editor",
}

// runDiagnosticChecks runs every check, or only the one named filter
// (case-insensitive).
func runDiagnosticChecks(ctx context.Context, d *Dependencies, verbose bool, filter string) []DiagnosticCheck {
	if ctx == nil {
		ctx = context.Background()
	}
	want := func(name string) bool {
		return filter == "" || strings.EqualFold(filter, name)
	}

	var checks []DiagnosticCheck
	if want("webproj") {
		checks = append(checks, checkVersion(verbose))
	}

	var reqs []tooling.Requirement
	for _, r := range tooling.DefaultRequirements() {
		if want(toolDisplayName(r)) {
			reqs = append(reqs, r)
		}
	}
	if len(reqs) > 0 {
		bar := d.Progress.Start("Checking tools", len(reqs))
		for _, r := range reqs {
			bar.SetTitle(toolDisplayName(r))
			for _, st := range d.Checker.Check(ctx, []tooling.Requirement{r}) {
				checks = append(checks, checkTool(st, verbose))
			}
			bar.Increment(1)
		}
		bar.Done()
	}

	if want("Package manager") {
		checks = append(checks, checkPackageManager(nil, verbose))
	}
	if want("Config") {
		checks = append(checks, checkConfig(config.DefaultPath(), d.Config, verbose))
	}
	if want("Network") {
		checks = append(checks, checkNetwork(ctx, d, verbose))
	}
	if want("Remote templates") {
		checks = append(checks, checkRemote(d.Config, verbose))
	}
	return checks
}

func toolDisplayName(r tooling.Requirement) string {
	if n, ok := toolNames[r.Name]; ok {
		return n
	}
	return r.Name
}

func checkVersion(verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: "webproj", Status: CheckOK, Message: version.GetVersion()}
	if verbose {
		c.Detail = fmt.Sprintf("commit: %s, built: %s, %s %s/%s",
			version.GetCommit(), version.GetDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return c
}

func checkTool(st tooling.Status, verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: toolDisplayName(st.Requirement)}
	switch {
	case st.OK():
		c.Status = CheckOK
		c.Message = st.Binary + " found"
		if st.Version != "" {
			c.Message = st.Binary + " " + st.Version
		}
		if verbose {
			c.Detail = "path: " + st.Path
		}
	case errors.Is(st.Err, tooling.ErrVersionTooOld):
		c.Status = CheckWarn
		c.Message = st.Err.Error()
		c.Detail = "Install " + st.Requirement.PackageName() + " " + st.Requirement.MinVersion + " or newer"
	default:
		c.Status = CheckFail
		c.Message = "not found on PATH"
		if st.Requirement.Name == "git" {
			c.Detail = GitInstallHint()
		} else {
			c.Detail = "Install " + st.Requirement.PackageName() + " with your package manager, or run webproj new --install"
		}
	}
	return c
}

func checkPackageManager(lookPath tooling.LookPathFunc, verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: "Package manager"}
	pm, err := tooling.DetectPackageManager(lookPath)
	if err != nil {
		c.Status = CheckWarn
		c.Message = "none found; missing tools must be installed by hand"
		return c
	}
	c.Status = CheckOK
	c.Message = pm.Name
	if verbose {
		name, args := pm.Command([]string{"<package>"}, os.Geteuid() == 0)
		c.Detail = "install command: " + name + " " + strings.Join(args, " ")
	}
	return c
}

func checkConfig(path string, cfg *config.Config, verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: "Config", Status: CheckOK}
	if path == "" {
		c.Status = CheckWarn
		c.Message = "no user config directory; using defaults"
		return c
	}
	if _, err := os.Stat(path); err != nil {
		c.Message = "using defaults"
		if verbose {
			c.Detail = "would read " + path
		}
		return c
	}
	c.Message = "loaded " + path
	if verbose && cfg != nil {
		c.Detail = fmt.Sprintf("log level: %s, editor: %q", cfg.Log.Level, cfg.Editor)
	}
	return c
}

func checkNetwork(ctx context.Context, d *Dependencies, verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: "Network"}
	timeout := d.Config.Network.ProbeTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if d.Prober.Reachable(ctx) {
		c.Status = CheckOK
		c.Message = "online"
	} else {
		c.Status = CheckWarn
		c.Message = "offline; built-in templates will be used"
	}
	if verbose {
		c.Detail = "probe: " + d.Config.Network.ProbeAddr
	}
	return c
}

func checkRemote(cfg *config.Config, verbose bool) DiagnosticCheck {
	c := DiagnosticCheck{Name: "Remote templates"}
	if cfg.Templates.RemoteURL == "" {
		c.Status = CheckWarn
		c.Message = "disabled"
		return c
	}
	c.Status = CheckOK
	c.Message = cfg.Templates.RemoteURL
	if verbose {
		c.Detail = fmt.Sprintf("timeout: %s, retries: %d", cfg.Templates.Timeout, cfg.Templates.Retries)
	}
	return c
}

// GitInstallHint returns an OS-specific hint for installing git.
func GitInstallHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install git: xcode-select --install (or brew install git)"
	case "windows":
		return "Install git: winget install Git.Git (or download from https://git-scm.com)"
	default:
		return "Install git: sudo apt install git (Debian/Ubuntu) or sudo yum install git (RHEL/Fedora)"
	}
}

// renderDiagnostics prints checks as a table followed by a one-line summary.
func renderDiagnostics(w io.Writer, checks []DiagnosticCheck, verbose bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	header := table.Row{"", "Check", "Result"}
	if verbose {
		header = append(header, "Detail")
	}
	t.AppendHeader(header)

	var warn, fail int
	for _, c := range checks {
		row := table.Row{statusIcon(c.Status), c.Name, c.Message}
		if verbose {
			row = append(row, c.Detail)
		}
		t.AppendRow(row)
		switch c.Status {
		case CheckWarn:
			warn++
		case CheckFail:
			fail++
		}
	}
	t.Render()

	for _, c := range checks {
		if c.Status == CheckFail && c.Detail != "" && !verbose {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", c.Name, c.Detail)
		}
	}
	_, _ = fmt.Fprintf(w, "%d checks, %d warnings, %d failures\n", len(checks), warn, fail)
}

func statusIcon(s CheckStatus) string {
	switch s {
	case CheckOK:
		return "✓"
	case CheckWarn:
		return "!"
	default:
		return "✗"
	}
}

// exportDiagnostics writes checks to path as indented JSON.
func exportDiagnostics(path string, checks []DiagnosticCheck) error {
	data, err := json.MarshalIndent(checks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write diagnostics: %w", err)
	}
	return nil
}
