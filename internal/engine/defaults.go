package engine

import (
	"slices"

	"github.com/daryltucker/sd-testgen/internal/model"
)

// Model identifiers used by the presets.
const (
	ModelSD21 = "stabilityai/stable-diffusion-2-1"
	ModelSDXL = "stabilityai/stable-diffusion-xl-base-1.0"
)

var modeDefaults = map[model.Mode]model.Matrix{
	model.ModeSDXLOnly: {
		Models:         []string{ModelSDXL},
		InstanceTypes:  []string{"g6e.xlarge", "g5.xlarge", "g6.xlarge"},
		BatchSizes:     []int{1},
		InferenceSteps: []int{20, 30, 50},
		Resolutions:    []string{"1024x1024", "1152x896", "896x1152"},
		Precisions:     []string{"float16"},
	},
	model.ModeSDOnly: {
		Models:         []string{ModelSD21},
		InstanceTypes:  []string{"g5.xlarge", "g6.xlarge"},
		BatchSizes:     []int{1, 4},
		InferenceSteps: []int{15, 25, 50},
		Resolutions:    []string{"512x512", "1024x1024"},
		Precisions:     []string{"float16", "float32"},
	},
	model.ModeComparison: {
		Models:         []string{ModelSD21, ModelSDXL},
		InstanceTypes:  []string{"g6e.xlarge", "g5.xlarge", "g6.xlarge"},
		BatchSizes:     []int{1},
		InferenceSteps: []int{20, 30},
		Resolutions:    []string{"1024x1024"},
		Precisions:     []string{"float16"},
	},
	model.ModeInstanceOptimized: {
		Models:         []string{ModelSDXL},
		InstanceTypes:  []string{"g6e.xlarge", "g5.xlarge", "g6.xlarge", "g4dn.xlarge"},
		BatchSizes:     []int{1},
		InferenceSteps: []int{20},
		// 896x896 is the fallback for g4dn.xlarge.
		Resolutions: []string{"1024x1024", "896x896"},
		Precisions:  []string{"float16"},
	},
	model.ModeMixed: {
		Models:         []string{ModelSD21},
		InstanceTypes:  []string{"g5.xlarge"},
		BatchSizes:     []int{1, 4},
		InferenceSteps: []int{15, 25, 50},
		Resolutions:    []string{"1024x1024"},
		Precisions:     []string{"float32"},
	},
}

// DefaultMatrix returns a copy of the preset lists for a mode.
// Unknown modes fall back to mixed.
func DefaultMatrix(mode model.Mode) model.Matrix {
	d, ok := modeDefaults[mode]
	if !ok {
		d = modeDefaults[model.ModeMixed]
	}
	return model.Matrix{
		Models:         slices.Clone(d.Models),
		InstanceTypes:  slices.Clone(d.InstanceTypes),
		BatchSizes:     slices.Clone(d.BatchSizes),
		InferenceSteps: slices.Clone(d.InferenceSteps),
		Resolutions:    slices.Clone(d.Resolutions),
		Precisions:     slices.Clone(d.Precisions),
	}
}

// ResolveMatrix fills every empty override with the mode default.
// Non-empty overrides are used verbatim, without validation.
func ResolveMatrix(mode model.Mode, overrides model.Matrix) model.Matrix {
	d := DefaultMatrix(mode)
	return model.Matrix{
		Models:         orDefault(overrides.Models, d.Models),
		InstanceTypes:  orDefault(overrides.InstanceTypes, d.InstanceTypes),
		BatchSizes:     orDefault(overrides.BatchSizes, d.BatchSizes),
		InferenceSteps: orDefault(overrides.InferenceSteps, d.InferenceSteps),
		Resolutions:    orDefault(overrides.Resolutions, d.Resolutions),
		Precisions:     orDefault(overrides.Precisions, d.Precisions),
	}
}

func orDefault[T any](override, def []T) []T {
	if len(override) > 0 {
		return slices.Clone(override)
	}
	return def
}
