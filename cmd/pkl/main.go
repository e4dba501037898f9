// Command pkl is the CLI front end for the go-pkl evaluator.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-pkl/cmd/pkl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
