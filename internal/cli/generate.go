/*
PURPOSE:
  Wires the generation flags onto the root command.

REQUIREMENTS:
  User-specified:
  - --mode plus one override flag per matrix list.
  - --prompt, --output/-o and the three comparison-mode resource flags.

  Implementation-discovered:
  - Need to load config first, then environment, then apply flags.
  - Only flags the user actually set override lower layers.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Runner.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load, validation, or generation fails.

USAGE:
  sd-testgen --mode sdxl_only -o plan.json
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/sd-testgen/internal/config"
	"github.com/daryltucker/sd-testgen/internal/engine"
	"github.com/daryltucker/sd-testgen/internal/model"
)

type generateFlags struct {
	mode           string
	models         []string
	instanceTypes  []string
	batchSizes     []int
	inferenceSteps []int
	resolutions    []string
	precisions     []string
	prompt         string
	output         string
	csvOutput      string
	cmpRequest     string
	cmpLimit       string
	cmpTimeout     int
}

func attachGenerate(cmd *cobra.Command, g *globalFlags) {
	f := &generateFlags{}

	cmd.Args = cobra.NoArgs
	cmd.Example = `  # Default mixed mode
  sd-testgen

  # SDXL presets, written to a custom path
  sd-testgen --mode sdxl_only -o sdxl_plan.json

  # Compare SD 2.1 and SDXL on 32GB hosts
  sd-testgen --mode comparison --comparison-memory-request 24Gi --comparison-memory-limit 30Gi

  # Override individual lists
  sd-testgen --mode sd_only --batch-sizes 1,2,4 --resolutions 512x512,768x768`
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		if err := config.LoadDotEnv(g.envFile); err != nil {
			return err
		}
		cfg, err := config.Load(g.cfgFile)
		if err != nil {
			return err
		}
		if err := config.ApplyEnv(cfg); err != nil {
			return err
		}

		// 2. Overrides
		f.apply(cmd, cfg)

		mode, err := cfg.Validate()
		if err != nil {
			return err
		}

		// 3. Execution
		_, err = engine.New(cfg, mode, cmd.OutOrStdout()).Run()
		return err
	}

	flags := cmd.Flags()
	flags.StringVar(&f.mode, "mode", string(model.ModeMixed), "test mode: "+model.ModeNames())
	flags.StringSliceVar(&f.models, "models", nil, "models to test (default depends on mode)")
	flags.StringSliceVar(&f.instanceTypes, "instance-types", nil, "instance types (default depends on mode)")
	flags.IntSliceVar(&f.batchSizes, "batch-sizes", nil, "batch sizes (default depends on mode)")
	flags.IntSliceVar(&f.inferenceSteps, "inference-steps", nil, "inference step counts (default depends on mode)")
	flags.StringSliceVar(&f.resolutions, "resolutions", nil, "resolutions as WIDTHxHEIGHT (default depends on mode)")
	flags.StringSliceVar(&f.precisions, "precisions", nil, "precisions, float16 or float32 (default depends on mode)")
	flags.StringVar(&f.prompt, "prompt", config.DefaultPrompt, "prompt shared by every test")
	flags.StringVarP(&f.output, "output", "o", config.DefaultOutput, "output file")
	flags.StringVar(&f.csvOutput, "csv", "", "also export the tests as CSV to this path")
	flags.StringVar(&f.cmpRequest, "comparison-memory-request", config.DefaultComparisonMemoryRequest, "comparison mode CPU memory request")
	flags.StringVar(&f.cmpLimit, "comparison-memory-limit", config.DefaultComparisonMemoryLimit, "comparison mode CPU memory limit")
	flags.IntVar(&f.cmpTimeout, "comparison-timeout", config.DefaultComparisonTimeout, "comparison mode timeout in seconds")
}

func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("mode") {
		cfg.Mode = f.mode
	}
	if changed("models") {
		cfg.Matrix.Models = f.models
	}
	if changed("instance-types") {
		cfg.Matrix.InstanceTypes = f.instanceTypes
	}
	if changed("batch-sizes") {
		cfg.Matrix.BatchSizes = f.batchSizes
	}
	if changed("inference-steps") {
		cfg.Matrix.InferenceSteps = f.inferenceSteps
	}
	if changed("resolutions") {
		cfg.Matrix.Resolutions = f.resolutions
	}
	if changed("precisions") {
		cfg.Matrix.Precisions = f.precisions
	}
	if changed("prompt") {
		cfg.Prompt = f.prompt
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("csv") {
		cfg.CSVOutput = f.csvOutput
	}
	if changed("comparison-memory-request") {
		cfg.Comparison.MemoryRequest = f.cmpRequest
	}
	if changed("comparison-memory-limit") {
		cfg.Comparison.MemoryLimit = f.cmpLimit
	}
	if changed("comparison-timeout") {
		cfg.Comparison.Timeout = f.cmpTimeout
	}
}
