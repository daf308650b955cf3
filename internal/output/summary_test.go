package output

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/sd-testgen/internal/model"
)

var testCmp = ComparisonResources{MemoryRequest: "12Gi", MemoryLimit: "15Gi", Timeout: 2400}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, model.ModeMixed, testCmp)
	assert.Contains(t, buf.String(), "Selected test mode: mixed")
	assert.Contains(t, buf.String(), model.ModeMixed.Description())
	assert.NotContains(t, buf.String(), "Comparison mode memory sizing")

	buf.Reset()
	PrintBanner(&buf, model.ModeComparison, testCmp)
	assert.Contains(t, buf.String(), "Comparison mode memory sizing")
	assert.Contains(t, buf.String(), "--comparison-memory-request 24Gi --comparison-memory-limit 30Gi")
	assert.Contains(t, buf.String(), "Current: 12Gi/15Gi, timeout 2400s")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	doc := sampleDocument()
	doc.TestMatrix.BatchSizes = []int{1, 4}
	PrintSummary(&buf, doc, "out.json", testCmp)
	s := buf.String()

	assert.Contains(t, s, "Generated 1 test configurations (mixed mode)")
	assert.Contains(t, s, "Config file saved to: out.json")
	assert.Contains(t, s, "Models: stabilityai/stable-diffusion-2-1")
	assert.Contains(t, s, "Batch sizes: 1, 4")
	assert.Contains(t, s, "Inference steps: 15")
	assert.Contains(t, s, "Prompt: a <cat> & a dog")
	assert.Contains(t, s, "chmod +x run_universal_tests.sh")
	assert.Contains(t, s, "./run_universal_tests.sh out.json")
	assert.NotContains(t, s, "\x1b[")
}

func TestPrintSummaryModeNotes(t *testing.T) {
	notes := map[model.Mode]string{
		model.ModeSDXLOnly:          "float16 precision enforced",
		model.ModeComparison:        "Uniform settings: 12Gi/15Gi CPU memory, requested precision, timeout=2400s",
		model.ModeInstanceOptimized: "Fallback resolutions included",
	}
	for mode, want := range notes {
		t.Run(string(mode), func(t *testing.T) {
			var buf bytes.Buffer
			doc := sampleDocument()
			doc.TestMode = mode
			PrintSummary(&buf, doc, "out.json", testCmp)
			assert.Contains(t, buf.String(), want)
		})
	}

	var buf bytes.Buffer
	PrintSummary(&buf, sampleDocument(), "out.json", testCmp)
	for _, want := range notes {
		assert.NotContains(t, buf.String(), want)
	}
}

func TestPrintInstances(t *testing.T) {
	var buf bytes.Buffer
	PrintInstances(&buf, model.KnownInstances)
	s := buf.String()
	for _, inst := range model.KnownInstances {
		assert.Contains(t, s, inst.Name)
	}
	assert.Contains(t, s, "sdxl=NOT_RECOMMENDED")
	assert.Contains(t, s, "gpu=48GB")
}

func TestPrintModes(t *testing.T) {
	var buf bytes.Buffer
	PrintModes(&buf, func(model.Mode) model.Matrix {
		return model.Matrix{
			Models: []string{"m"}, InstanceTypes: []string{"i"}, BatchSizes: []int{1, 2},
			InferenceSteps: []int{20}, Resolutions: []string{"512x512"}, Precisions: []string{"float16"},
		}
	})
	s := buf.String()
	for _, mode := range model.Modes {
		assert.Contains(t, s, string(mode))
	}
	assert.Contains(t, s, "batch sizes: 1, 2")
	assert.Contains(t, s, "combinations: 2")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn,
		"warning": slog.LevelWarn, "error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=value")
}
