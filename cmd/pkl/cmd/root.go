package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pkl",
	Short: "Pkl configuration language evaluator",
	Long: `pkl is a Go implementation of Apple's Pkl configuration language.

Pkl is a programmable configuration format with:
  - Object amendment: layering overrides onto a base configuration
  - A structural type system with constraints
  - Lazy, memoized property evaluation
  - Renderers to JSON, YAML, XML, PList, and MessagePack

This evaluator implements Pkl's module, object, and type semantics from
scratch in Go, rather than wrapping the reference JVM implementation.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
