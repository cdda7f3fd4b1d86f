// Command slua translates SL source files to Lua: `slua build` runs
// the full pipeline, `slua check` stops after type checking, and
// `slua verify` round-trips already-emitted Lua through a real VM.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"lunar/internal/diagnostics"
)

const version = "0.2.0"

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:           "slua",
		Short:         "slua — an SL-to-Lua transpiler",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	log := diagnostics.New(false)
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		log = diagnostics.New(verbose)
	}

	root.AddCommand(
		newBuildCommand(&log),
		newCheckCommand(&log),
		newVerifyCommand(&log),
	)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
