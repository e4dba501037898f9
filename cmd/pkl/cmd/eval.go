package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
	"github.com/cwbudde/go-pkl/internal/security"
	"github.com/cwbudde/go-pkl/pkg/pkl"
)

var (
	evalExpr    string
	outputFile  string
	outputFmt   string
	trustLevel  string
	allowedMods []string
	deniedMods  []string
)

var evalCmd = &cobra.Command{
	Use:   "eval [module]",
	Short: "Evaluate a Pkl module and render its output",
	Long: `Evaluate a Pkl module from a file or inline expression and render it.

Examples:
  # Evaluate a module file to JSON
  pkl eval config.pkl

  # Evaluate to YAML
  pkl eval -f yaml config.pkl

  # Evaluate an inline expression
  pkl eval -e '1 + 1'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalExpr, "expression", "e", "", "evaluate an inline expression instead of reading a file")
	evalCmd.Flags().StringVarP(&outputFile, "output-path", "o", "", "write rendered output to this file instead of stdout")
	evalCmd.Flags().StringVarP(&outputFmt, "format", "f", "json", "output format: json, yaml, xml, plist, pkl-binary")
	evalCmd.Flags().StringVar(&trustLevel, "trust-level", "sandbox", "security trust level: sandbox, standard, trusted")
	evalCmd.Flags().StringSliceVar(&allowedMods, "allowed-modules", nil, "glob patterns of module URIs permitted beyond the trust level default")
	evalCmd.Flags().StringSliceVar(&deniedMods, "denied-modules", nil, "glob patterns of module URIs explicitly forbidden")
}

func runEval(_ *cobra.Command, args []string) error {
	opts := pkl.DefaultOptions()
	opts.TrustLevel = parseTrustLevel(trustLevel)
	opts.AllowedModules = allowedMods
	opts.DeniedModules = deniedMods
	if verbose {
		opts.Trace = func(moduleURI, message string) {
			fmt.Fprintf(os.Stderr, "trace %s: %s\n", moduleURI, message)
		}
	}

	var filename string
	switch {
	case evalExpr != "":
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		opts.RootDir = filepath.Dir(filename)
	default:
		return fmt.Errorf("either provide a module path or use -e for an inline expression")
	}

	ev := pkl.New(opts)

	var (
		root *runtime.Object
		err  error
	)
	if evalExpr != "" {
		root, err = ev.EvaluateText(evalExpr)
	} else {
		root, err = ev.EvaluateFile(filepath.Base(filename))
	}
	if err != nil {
		exitWithError("%v", err)
	}

	out, err := pkl.Render(root, pkl.Format(outputFmt))
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	if outputFile != "" {
		return os.WriteFile(outputFile, []byte(out), 0o644)
	}
	fmt.Println(out)
	return nil
}

func parseTrustLevel(s string) security.Level {
	switch s {
	case "standard":
		return security.LevelStandard
	case "trusted":
		return security.LevelTrusted
	default:
		return security.LevelSandbox
	}
}
