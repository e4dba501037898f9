package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-pkl/pkg/pkl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate Pkl expressions interactively",
	Long: `Start an interactive loop that reads one expression per line from
stdin, evaluates it in a fresh module scope, and prints its rendered value.
Enter an empty line or EOF (Ctrl-D) to exit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	opts := pkl.DefaultOptions()
	opts.TrustLevel = parseTrustLevel(trustLevel)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "pkl> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}

		ev := pkl.New(opts)
		root, err := ev.EvaluateText(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, "pkl> ")
			continue
		}

		out, err := pkl.Render(root, pkl.FormatJSON)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Println(out)
		}
		fmt.Fprint(os.Stderr, "pkl> ")
	}
	fmt.Fprintln(os.Stderr)
	return scanner.Err()
}
