// Command oilpalm is a command-line interface for the oil-palm growth
// and yield simulation model.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/oilpalm/cliutil"
)

func main() {
	cfg := cliutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cliutil.ExitCode(err))
	}
}
