package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modu-ai/webproj/internal/core/project"
	"github.com/modu-ai/webproj/internal/preview"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Preview a project in the browser",
	Long: `Serve the project containing dir (default: current directory) over HTTP.
Html/ is served at the site root; CSS/, JavaScript/ and Assets/ under their
own names. GET /healthz reports the project name and webproj version.
The port defaults to PORT from Config/project.config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (default: project port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if deps == nil {
		return errors.New("dependencies not initialized")
	}
	session, err := loadProject(args)
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetInt("port")
	port = servePort(port, session)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s (Ctrl+C to stop)\n",
		session.Spec.Name(), deps.Theme.Title(fmt.Sprintf("http://localhost:%d/", port)))
	return preview.NewServer(session, deps.Logger).ListenAndServe(ctx, preview.Addr(port))
}

// servePort returns flagPort, or the project's port when the flag is unset.
func servePort(flagPort int, session project.Session) int {
	if flagPort > 0 {
		return flagPort
	}
	return session.Spec.Port()
}
