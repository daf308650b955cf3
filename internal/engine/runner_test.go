package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/sd-testgen/internal/config"
	"github.com/daryltucker/sd-testgen/internal/model"
)

func newTestRunner(t *testing.T, mode model.Mode) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Mode = string(mode)
	cfg.Output = filepath.Join(t.TempDir(), "plan.json")

	var out bytes.Buffer
	r := New(cfg, mode, &out)
	r.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 6000, time.Local) }
	return r, &out
}

func readDocument(t *testing.T, path string) model.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc model.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestBuild(t *testing.T) {
	r, _ := newTestRunner(t, model.ModeMixed)
	doc, err := r.Build()
	require.NoError(t, err)

	assert.Equal(t, "Universal Stable Diffusion test configuration - mixed mode", doc.Description)
	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, model.ModeMixed, doc.TestMode)
	assert.Equal(t, "sd-testgen", doc.GeneratedBy)
	assert.Equal(t, "2025-01-02T03:04:05.000006", doc.GeneratedAt)
	assert.Equal(t, 6, doc.TotalTests)
	assert.Len(t, doc.Tests, 6)
	assert.Equal(t, model.DefaultSettings{Prompt: config.DefaultPrompt, Timeout: 1800, Method: "universal_intelligent"}, doc.DefaultSettings)
	assert.Equal(t, model.KnownInstances, doc.InstanceSpecifications)
}

func TestRunWritesDocument(t *testing.T) {
	for _, mode := range model.Modes {
		t.Run(string(mode), func(t *testing.T) {
			r, out := newTestRunner(t, mode)
			doc, err := r.Run()
			require.NoError(t, err)

			got := readDocument(t, r.Config.Output)
			assert.Equal(t, doc.TotalTests, got.TotalTests)
			assert.Len(t, got.Tests, got.TotalTests)
			assert.Equal(t, mode, got.TestMode)

			resolutions := map[string]bool{}
			for _, res := range got.TestMatrix.Resolutions {
				resolutions[res] = true
			}
			for _, tc := range got.Tests {
				res := fmt.Sprintf("%dx%d", tc.ImageWidth, tc.ImageHeight)
				assert.True(t, resolutions[res], "resolution %s not in matrix", res)
				assert.NotEmpty(t, tc.MemoryRequest)
				assert.NotEmpty(t, tc.MemoryLimit)
				assert.Positive(t, tc.Timeout)
			}

			assert.Contains(t, out.String(), "Selected test mode: "+string(mode))
			assert.Contains(t, out.String(), fmt.Sprintf("Generated %d test configurations (%s mode)", doc.TotalTests, mode))
		})
	}
}

func TestRunComparisonUsesConfiguredResources(t *testing.T) {
	r, out := newTestRunner(t, model.ModeComparison)
	r.Config.Comparison = config.Comparison{MemoryRequest: "24Gi", MemoryLimit: "30Gi", Timeout: 3600}

	_, err := r.Run()
	require.NoError(t, err)

	got := readDocument(t, r.Config.Output)
	require.Len(t, got.Tests, 12)
	for _, tc := range got.Tests {
		assert.Equal(t, "24Gi", tc.MemoryRequest)
		assert.Equal(t, "30Gi", tc.MemoryLimit)
		assert.Equal(t, 3600, tc.Timeout)
	}
	assert.Contains(t, out.String(), "Current: 24Gi/30Gi, timeout 3600s")
	assert.Contains(t, out.String(), "24Gi/30Gi CPU memory")
}

func TestRunWritesCSV(t *testing.T) {
	r, _ := newTestRunner(t, model.ModeMixed)
	r.Config.CSVOutput = filepath.Join(filepath.Dir(r.Config.Output), "plan.csv")

	_, err := r.Run()
	require.NoError(t, err)
	assert.FileExists(t, r.Config.CSVOutput)
}

func TestRunMalformedResolutionWritesNothing(t *testing.T) {
	r, out := newTestRunner(t, model.ModeMixed)
	r.Config.Matrix.Resolutions = []string{"1024by1024"}

	_, err := r.Run()
	require.ErrorIs(t, err, ErrMalformedResolution)
	assert.NoFileExists(t, r.Config.Output)
	assert.NotContains(t, out.String(), "Generated")
}

func TestRunUnwritableOutput(t *testing.T) {
	r, _ := newTestRunner(t, model.ModeMixed)
	r.Config.Output = filepath.Join(t.TempDir(), "missing", "plan.json")

	_, err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write test config")
	assert.NoFileExists(t, r.Config.Output)
}
