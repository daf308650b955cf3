package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/daryltucker/sd-testgen/internal/model"
)

func TestDefaultMatrix(t *testing.T) {
	want := model.Matrix{
		Models:         []string{ModelSD21, ModelSDXL},
		InstanceTypes:  []string{"g6e.xlarge", "g5.xlarge", "g6.xlarge"},
		BatchSizes:     []int{1},
		InferenceSteps: []int{20, 30},
		Resolutions:    []string{"1024x1024"},
		Precisions:     []string{"float16"},
	}
	if diff := cmp.Diff(want, DefaultMatrix(model.ModeComparison)); diff != "" {
		t.Errorf("DefaultMatrix(comparison) mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMatrixUnknownModeFallsBackToMixed(t *testing.T) {
	if diff := cmp.Diff(DefaultMatrix(model.ModeMixed), DefaultMatrix("bogus")); diff != "" {
		t.Errorf("unknown mode mismatch (-mixed +got):\n%s", diff)
	}
}

func TestDefaultMatrixReturnsCopy(t *testing.T) {
	m := DefaultMatrix(model.ModeSDXLOnly)
	m.InstanceTypes[0] = "mutated"
	m.BatchSizes[0] = 99

	fresh := DefaultMatrix(model.ModeSDXLOnly)
	assert.Equal(t, "g6e.xlarge", fresh.InstanceTypes[0])
	assert.Equal(t, 1, fresh.BatchSizes[0])
}

func TestResolveMatrix(t *testing.T) {
	overrides := model.Matrix{
		Models:     []string{"custom/model"},
		BatchSizes: []int{2, 2},
		Precisions: []string{},
	}
	got := ResolveMatrix(model.ModeSDOnly, overrides)

	want := DefaultMatrix(model.ModeSDOnly)
	want.Models = []string{"custom/model"}
	want.BatchSizes = []int{2, 2}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveMatrix mismatch (-want +got):\n%s", diff)
	}
}

func TestMatrixSizes(t *testing.T) {
	sizes := map[model.Mode]int{
		model.ModeMixed:             6,
		model.ModeSDXLOnly:          27,
		model.ModeSDOnly:            48,
		model.ModeComparison:        12,
		model.ModeInstanceOptimized: 8,
	}
	for mode, want := range sizes {
		assert.Equal(t, want, DefaultMatrix(mode).Size(), mode)
	}
}
