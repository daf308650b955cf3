/*
PURPOSE:
  Defines the 'instances' and 'modes' subcommands.
  Helps pick a mode and check instance sizing before generating.

ARCHITECTURE INTEGRATION:
  - Calls: internal/output.PrintInstances / PrintModes
  - Uses: internal/engine.DefaultMatrix

USAGE:
  sd-testgen instances
  sd-testgen modes
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/sd-testgen/internal/engine"
	"github.com/daryltucker/sd-testgen/internal/model"
	"github.com/daryltucker/sd-testgen/internal/output"
)

func newInstancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List known instance types and their SDXL suitability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.PrintInstances(cmd.OutOrStdout(), model.KnownInstances)
			return nil
		},
	}
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List test modes and their default matrices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.PrintModes(cmd.OutOrStdout(), engine.DefaultMatrix)
			return nil
		},
	}
}
