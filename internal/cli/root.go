package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "webproj",
	Short: "Scaffold and manage small web projects",
	Long: `webproj creates a ready-to-edit web project: a fixed directory layout,
HTML/CSS/JavaScript starters, a Node development server, a README and
project config, optional remote templates and an initial git commit.

After creation the management console edits files, shows the project
tree and environment, resets permissions and checks connectivity.`,
	Version:      version.GetVersion(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if deps != nil {
			return nil
		}
		return InitDependencies(cmd)
	},
}

// Execute runs the root command and releases the run log afterwards.
func Execute() error {
	defer func() {
		_ = deps.Close()
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("webproj %s\n", version.GetVersion()))

	rootCmd.PersistentFlags().String("config", "", "Config file (default: $WEBPROJ_CONFIG or <user config dir>/webproj/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Do not echo log lines to stdout (the log file is still written)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}
