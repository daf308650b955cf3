/*
PURPOSE:
  Entry point for sd-testgen.
  Initializes the CLI root command and executes it.

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o sd-testgen ./cmd/sd-testgen
  ./sd-testgen --mode sdxl_only
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/sd-testgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
