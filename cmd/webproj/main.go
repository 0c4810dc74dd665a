// Command webproj scaffolds and manages small web projects.
package main

import (
	"os"

	"github.com/modu-ai/webproj/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
