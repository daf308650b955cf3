/*
PURPOSE:
  Expands a parameter matrix into validated test cases.
  Applies the per-instance compatibility rules and resource sizing.

REQUIREMENTS:
  User-specified:
  - Cartesian product in fixed order: models, instances, batches, steps, resolutions, precisions.
  - SDXL on small-GPU instances is forced to float16 and batch 1.
  - SDXL on g4dn.xlarge is skipped unless the mode is instance_optimized.
  - Comparison mode applies no rules and uses uniform resources.

  Implementation-discovered:
  - Resolutions are parsed once up front so a bad value aborts before any case is built.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Uses: internal/model, internal/output (logger)

ERROR HANDLING:
  - Malformed resolutions return *FormatError (unwraps to ErrMalformedResolution).
  - Incompatible combinations are dropped silently (debug log only).

IMPLEMENTATION RULES:
  - Keep Adjust pure; logging happens in Generate.
  - Never dedupe test names; duplicate override values produce duplicate names.

USAGE:
  matrix, tests, err := engine.Generate(opts)

RELATED FILES:
  - internal/engine/defaults.go
  - internal/model/types.go

MAINTENANCE:
  - Update sizingRules when new instance families are added.
*/

package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/daryltucker/sd-testgen/internal/model"
	"github.com/daryltucker/sd-testgen/internal/output"
)

// ErrMalformedResolution marks a resolution string that is not "<width>x<height>".
var ErrMalformedResolution = errors.New("malformed resolution")

// FormatError describes a resolution that could not be parsed.
type FormatError struct {
	Resolution string
	Reason     string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed resolution %q: %s", e.Resolution, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrMalformedResolution
}

const (
	precisionFloat16 = "float16"

	g4dnInstance = "g4dn.xlarge"

	// SDXL on g4dn.xlarge drops to this edge length when width >= 1024.
	g4dnFallbackEdge = 896

	maxNameLength = 50
)

// smallGPUInstances have 24GB of GPU memory or less.
var smallGPUInstances = []string{"g5.xlarge", "g6.xlarge", g4dnInstance}

// Resources is the memory and timeout sizing of one test case.
type Resources struct {
	MemoryRequest string
	MemoryLimit   string
	Timeout       int
}

// Combination is one tuple of the matrix with the resolution parsed.
type Combination struct {
	Model     string
	Instance  string
	Batch     int
	Steps     int
	Width     int
	Height    int
	Precision string
	SDXL      bool
}

// Options controls a single generation.
type Options struct {
	Mode       model.Mode
	Overrides  model.Matrix
	Prompt     string
	Comparison Resources
}

type sizingRule struct {
	match    []string
	sdxl     Resources
	standard Resources
}

// First match wins; g6e is checked before the g5/g6 rule.
var sizingRules = []sizingRule{
	{
		match:    []string{"g6e.xlarge"},
		sdxl:     Resources{MemoryRequest: "16Gi", MemoryLimit: "24Gi", Timeout: 2400},
		standard: Resources{MemoryRequest: "12Gi", MemoryLimit: "20Gi", Timeout: 1800},
	},
	{
		match:    []string{"g5.xlarge", "g6.xlarge"},
		sdxl:     Resources{MemoryRequest: "8Gi", MemoryLimit: "12Gi", Timeout: 2400},
		standard: Resources{MemoryRequest: "6Gi", MemoryLimit: "10Gi", Timeout: 1800},
	},
	{
		match:    []string{g4dnInstance},
		sdxl:     Resources{MemoryRequest: "8Gi", MemoryLimit: "12Gi", Timeout: 3000},
		standard: Resources{MemoryRequest: "6Gi", MemoryLimit: "10Gi", Timeout: 1800},
	},
}

var defaultSizing = sizingRule{
	sdxl:     Resources{MemoryRequest: "8Gi", MemoryLimit: "12Gi", Timeout: 2400},
	standard: Resources{MemoryRequest: "6Gi", MemoryLimit: "10Gi", Timeout: 1800},
}

// ParseResolution splits "<width>x<height>" into positive integers.
func ParseResolution(s string) (int, int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, &FormatError{Resolution: s, Reason: "expected exactly one 'x' separator"}
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &FormatError{Resolution: s, Reason: "width is not an integer"}
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, &FormatError{Resolution: s, Reason: "height is not an integer"}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, &FormatError{Resolution: s, Reason: "width and height must be positive"}
	}
	return width, height, nil
}

// IsSDXL reports whether a model identifier names an SDXL variant.
func IsSDXL(modelID string) bool {
	lower := strings.ToLower(modelID)
	return strings.Contains(lower, "stable-diffusion-xl") || strings.Contains(lower, "sdxl")
}

// SizeFor returns the resource sizing for an instance and model class.
func SizeFor(instance string, sdxl bool) Resources {
	rule := defaultSizing
	for _, r := range sizingRules {
		if lo.SomeBy(r.match, func(m string) bool { return strings.Contains(instance, m) }) {
			rule = r
			break
		}
	}
	if sdxl {
		return rule.sdxl
	}
	return rule.standard
}

// Adjust applies the compatibility rules to one combination.
// It returns false when the combination must be skipped.
func Adjust(c Combination, mode model.Mode, comparison Resources) (Combination, Resources, bool) {
	if mode == model.ModeComparison {
		return c, comparison, true
	}

	onG4dn := strings.Contains(c.Instance, g4dnInstance)
	if c.SDXL && onG4dn && mode != model.ModeInstanceOptimized {
		return Combination{}, Resources{}, false
	}

	if c.SDXL && lo.Contains(smallGPUInstances, c.Instance) {
		if c.Precision != precisionFloat16 {
			c.Precision = precisionFloat16
		}
		if c.Batch > 1 {
			c.Batch = 1
		}
	}

	if c.SDXL && onG4dn && c.Width >= 1024 {
		c.Width, c.Height = g4dnFallbackEdge, g4dnFallbackEdge
	}

	return c, SizeFor(c.Instance, c.SDXL), true
}

// TestName derives the short test name, cut to 50 characters.
func TestName(modelID, instance string, batch, steps int, precision string) string {
	short := modelID
	if i := strings.LastIndex(short, "/"); i >= 0 {
		short = short[i+1:]
	}
	short = strings.ReplaceAll(short, "stable-diffusion-", "sd-")
	short = strings.ReplaceAll(short, ".", "-")
	if strings.Contains(short, "xl") {
		short = strings.ReplaceAll(short, "sd-xl-", "sdxl-")
	}
	name := fmt.Sprintf("%s-%s-b%d-s%d-%s", short, strings.ReplaceAll(instance, ".", ""), batch, steps, precision)
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	return name
}

// Describe returns the human description of an adjusted combination.
func Describe(c Combination) string {
	return fmt.Sprintf("%s test: %s, batch=%d, steps=%d, %dx%d, %s",
		c.Model, c.Instance, c.Batch, c.Steps, c.Width, c.Height, c.Precision)
}

type resolution struct {
	width, height int
}

// Generate resolves the matrix and expands it into test cases.
// The returned slice is never nil.
func Generate(opts Options) (model.Matrix, []model.TestCase, error) {
	m := ResolveMatrix(opts.Mode, opts.Overrides)

	resolutions := make([]resolution, len(m.Resolutions))
	for i, r := range m.Resolutions {
		w, h, err := ParseResolution(r)
		if err != nil {
			return m, nil, err
		}
		resolutions[i] = resolution{width: w, height: h}
	}

	tests := make([]model.TestCase, 0, m.Size())
	for _, modelID := range m.Models {
		sdxl := IsSDXL(modelID)
		modelType := model.ModelTypeStandard
		if sdxl {
			modelType = model.ModelTypeSDXL
		}
		for _, instance := range m.InstanceTypes {
			for _, batch := range m.BatchSizes {
				for _, steps := range m.InferenceSteps {
					for _, res := range resolutions {
						for _, precision := range m.Precisions {
							in := Combination{
								Model:     modelID,
								Instance:  instance,
								Batch:     batch,
								Steps:     steps,
								Width:     res.width,
								Height:    res.height,
								Precision: precision,
								SDXL:      sdxl,
							}
							c, size, ok := Adjust(in, opts.Mode, opts.Comparison)
							if !ok {
								output.Logger.Debug("Skipping incompatible combination",
									"model", modelID, "instance", instance, "batch", batch,
									"steps", steps, "resolution", fmt.Sprintf("%dx%d", res.width, res.height),
									"precision", precision)
								continue
							}
							if c != in {
								output.Logger.Debug("Adjusted combination",
									"model", modelID, "instance", instance,
									"batch", fmt.Sprintf("%d->%d", in.Batch, c.Batch),
									"precision", fmt.Sprintf("%s->%s", in.Precision, c.Precision),
									"resolution", fmt.Sprintf("%dx%d->%dx%d", in.Width, in.Height, c.Width, c.Height))
							}

							tests = append(tests, model.TestCase{
								Name:           TestName(c.Model, c.Instance, c.Batch, c.Steps, c.Precision),
								Description:    Describe(c),
								Model:          c.Model,
								ModelType:      modelType,
								InstanceType:   c.Instance,
								BatchSize:      c.Batch,
								InferenceSteps: c.Steps,
								ImageWidth:     c.Width,
								ImageHeight:    c.Height,
								Precision:      c.Precision,
								Prompt:         opts.Prompt,
								MemoryRequest:  size.MemoryRequest,
								MemoryLimit:    size.MemoryLimit,
								Timeout:        size.Timeout,
							})
						}
					}
				}
			}
		}
	}
	return m, tests, nil
}
