/*
PURPOSE:
  High-level runner that orchestrates one generation.
  Resolve matrix -> expand -> assemble document -> write -> summarize.

REQUIREMENTS:
  User-specified:
  - One document per invocation, written once.
  - Console summary after the write.

  Implementation-discovered:
  - Clock is injectable so generated_at is deterministic in tests.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine (generator), internal/output, internal/config

ERROR HANDLING:
  - Any error aborts before the summary; writes are atomic so no partial file remains.

USAGE:
  doc, err := engine.New(cfg, mode, os.Stdout).Run()

RELATED FILES:
  - internal/engine/generator.go
*/

package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/daryltucker/sd-testgen/internal/config"
	"github.com/daryltucker/sd-testgen/internal/model"
	"github.com/daryltucker/sd-testgen/internal/output"
)

// Document constants.
const (
	DocumentVersion = "1.0"
	GeneratedBy     = "sd-testgen"
	DefaultTimeout  = 1800
	Method          = "universal_intelligent"

	// Local time with microseconds.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// Runner generates and persists a test plan.
type Runner struct {
	Config *config.Config
	Mode   model.Mode
	Out    io.Writer
	Now    func() time.Time
}

// New creates a new Runner. mode must come from cfg.Validate().
func New(cfg *config.Config, mode model.Mode, out io.Writer) *Runner {
	return &Runner{
		Config: cfg,
		Mode:   mode,
		Out:    out,
		Now:    time.Now,
	}
}

func (r *Runner) comparison() Resources {
	return Resources{
		MemoryRequest: r.Config.Comparison.MemoryRequest,
		MemoryLimit:   r.Config.Comparison.MemoryLimit,
		Timeout:       r.Config.Comparison.Timeout,
	}
}

// Build generates the document without writing it.
func (r *Runner) Build() (*model.Document, error) {
	matrix, tests, err := Generate(Options{
		Mode:       r.Mode,
		Overrides:  r.Config.Matrix,
		Prompt:     r.Config.Prompt,
		Comparison: r.comparison(),
	})
	if err != nil {
		return nil, err
	}

	return &model.Document{
		Description:            fmt.Sprintf("Universal Stable Diffusion test configuration - %s mode", r.Mode),
		Version:                DocumentVersion,
		TestMode:               r.Mode,
		GeneratedBy:            GeneratedBy,
		GeneratedAt:            r.Now().Format(TimestampLayout),
		TotalTests:             len(tests),
		InstanceSpecifications: model.KnownInstances,
		DefaultSettings: model.DefaultSettings{
			Prompt:  r.Config.Prompt,
			Timeout: DefaultTimeout,
			Method:  Method,
		},
		TestMatrix: matrix,
		Tests:      tests,
	}, nil
}

// Run builds the document, writes it (and the optional CSV), and prints the summary.
func (r *Runner) Run() (*model.Document, error) {
	cmp := r.comparison()
	summaryCmp := output.ComparisonResources{
		MemoryRequest: cmp.MemoryRequest,
		MemoryLimit:   cmp.MemoryLimit,
		Timeout:       cmp.Timeout,
	}
	output.PrintBanner(r.Out, r.Mode, summaryCmp)

	doc, err := r.Build()
	if err != nil {
		return nil, err
	}
	output.Logger.Info("Generated test plan", "mode", r.Mode, "combinations", doc.TestMatrix.Size(), "tests", doc.TotalTests)

	if err := output.WriteDocument(r.Config.Output, doc); err != nil {
		return nil, fmt.Errorf("failed to write test config: %w", err)
	}
	output.Logger.Info("Wrote test config", "path", r.Config.Output)

	if r.Config.CSVOutput != "" {
		if err := output.WriteCSV(r.Config.CSVOutput, doc.Tests); err != nil {
			return nil, fmt.Errorf("failed to write CSV export: %w", err)
		}
		output.Logger.Info("Wrote CSV export", "path", r.Config.CSVOutput)
	}

	output.PrintSummary(r.Out, doc, r.Config.Output, summaryCmp)
	return doc, nil
}
