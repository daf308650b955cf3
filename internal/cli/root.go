/*
PURPOSE:
  Defines the root Cobra command for the sd-testgen CLI.
  The root command itself generates the test plan; subcommands inspect presets.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Commands are built by NewRootCmd so tests get fresh flag state.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/sd-testgen/main.go
  - Calls: Child commands (instances, modes)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.

RELATED FILES:
  - cmd/sd-testgen/main.go
  - internal/cli/generate.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/sd-testgen/internal/output"
)

type globalFlags struct {
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile  string
	envFile  string
	logLevel string
}

// NewRootCmd builds the full command tree writing to stdout/stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sd-testgen",
		Short: "Generate Stable Diffusion benchmark test plans",
		Long: `Expands models, instance types, batch sizes, inference steps, resolutions
and precisions into a JSON test plan for run_universal_tests.sh.
Each mode supplies default lists; any list can be overridden.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := output.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			output.SetLogger(output.NewLogger(stderr, level))
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file, YAML or TOML (default is ./sd_testgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file with SDGEN_* overrides")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	attachGenerate(rootCmd, g)
	rootCmd.AddCommand(newInstancesCmd(), newModesCmd())

	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return NewRootCmd(os.Stdout, os.Stderr).Execute()
}
