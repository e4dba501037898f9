package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-pkl/pkg/pkl"
)

var testCmd = &cobra.Command{
	Use:   "test [modules...]",
	Short: "Evaluate Pkl modules and report failures",
	Long: `Evaluate each given module, treating any evaluation error (including a
failed type constraint or an explicit throw()) as a test failure.

This is a thin wrapper over the embedding facade rather than a full
pkl:test harness (no "facts"/"examples" comparison block support) - each
module's successful evaluation to a fully-amended object is the pass
condition.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(_ *cobra.Command, args []string) error {
	opts := pkl.DefaultOptions()
	opts.TrustLevel = parseTrustLevel(trustLevel)

	failures := 0
	for _, path := range args {
		opts.RootDir = filepath.Dir(path)
		ev := pkl.New(opts)
		if _, err := ev.EvaluateFile(filepath.Base(path)); err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failures++
			continue
		}
		fmt.Printf("PASS %s\n", path)
	}

	fmt.Printf("\n%d passed, %d failed\n", len(args)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
	return nil
}
