/*
PURPOSE:
  Defines the core data structures used throughout sd-testgen.
  These models represent the test plan handed to the downstream runner.

REQUIREMENTS:
  User-specified:
  - Six overridable parameter lists (models, instances, batches, steps, resolutions, precisions).
  - One test case per surviving combination, with memory/timeout sizing.
  - A static instance specification table embedded in every document.

  Implementation-discovered:
  - JSON key order must match what run_universal_tests.sh expects, so
    ordered structs are used instead of maps.
  - instance_specifications needs a fixed key order; see InstanceTable.MarshalJSON.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output, internal/cli
  - Shared across boundaries.

ERROR HANDLING:
  - ParseMode returns ErrUnknownMode for names outside the enumeration.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Never emit null lists; nil slices are normalised by the engine.

USAGE:
  mode, err := model.ParseMode("sdxl_only")

RELATED FILES:
  - internal/output/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when the runner script reads new fields.
*/

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name is not one of the known presets.
var ErrUnknownMode = errors.New("unknown test mode")

// Mode selects the default parameter lists.
type Mode string

const (
	ModeMixed             Mode = "mixed"
	ModeSDXLOnly          Mode = "sdxl_only"
	ModeSDOnly            Mode = "sd_only"
	ModeComparison        Mode = "comparison"
	ModeInstanceOptimized Mode = "instance_optimized"
)

// Modes lists every mode in CLI help order.
var Modes = []Mode{ModeMixed, ModeSDXLOnly, ModeSDOnly, ModeComparison, ModeInstanceOptimized}

var modeDescriptions = map[Mode]string{
	ModeMixed:             "Mixed mode - standard settings for general testing",
	ModeSDXLOnly:          "SDXL-only mode - settings tuned for SDXL",
	ModeSDOnly:            "Standard SD mode - tests standard SD models only",
	ModeComparison:        "Comparison mode - SD 2.1 vs SDXL performance comparison",
	ModeInstanceOptimized: "Instance-optimized mode - best settings per instance type",
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownMode, s, ModeNames())
}

// ModeNames returns the valid mode names joined with "|".
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// Description returns the one-line human description of the mode.
func (m Mode) Description() string {
	return modeDescriptions[m]
}

// Matrix holds the resolved parameter lists. Order is significant.
type Matrix struct {
	Models         []string `json:"models" yaml:"models" toml:"models"`
	InstanceTypes  []string `json:"instance_types" yaml:"instance_types" toml:"instance_types"`
	BatchSizes     []int    `json:"batch_sizes" yaml:"batch_sizes" toml:"batch_sizes"`
	InferenceSteps []int    `json:"inference_steps" yaml:"inference_steps" toml:"inference_steps"`
	Resolutions    []string `json:"resolutions" yaml:"resolutions" toml:"resolutions"`
	Precisions     []string `json:"precisions" yaml:"precisions" toml:"precisions"`
}

// Size is the number of combinations before compatibility filtering.
func (m Matrix) Size() int {
	return len(m.Models) * len(m.InstanceTypes) * len(m.BatchSizes) *
		len(m.InferenceSteps) * len(m.Resolutions) * len(m.Precisions)
}

// Model type labels.
const (
	ModelTypeSDXL     = "SDXL"
	ModelTypeStandard = "Standard SD"
)

// TestCase is one resolved, validated combination.
type TestCase struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Model          string `json:"model"`
	ModelType      string `json:"model_type"`
	InstanceType   string `json:"instance_type"`
	BatchSize      int    `json:"batch_size"`
	InferenceSteps int    `json:"inference_steps"`
	ImageWidth     int    `json:"image_width"`
	ImageHeight    int    `json:"image_height"`
	Precision      string `json:"precision"`
	Prompt         string `json:"prompt"`
	MemoryRequest  string `json:"memory_request"`
	MemoryLimit    string `json:"memory_limit"`
	Timeout        int    `json:"timeout"`
}

// SDXL suitability ratings.
const (
	SuitabilityExcellent      = "EXCELLENT"
	SuitabilityGood           = "GOOD"
	SuitabilityNotRecommended = "NOT_RECOMMENDED"
)

// InstanceSpec describes a known accelerator instance.
type InstanceSpec struct {
	CPUMemory  string `json:"cpu_memory"`
	GPUMemory  string `json:"gpu_memory"`
	SDXLStatus string `json:"sdxl_status"`
}

// NamedInstanceSpec pairs an instance identifier with its spec.
type NamedInstanceSpec struct {
	Name string
	InstanceSpec
}

// InstanceTable is an ordered instance specification table.
// It marshals as a JSON object whose keys keep slice order.
type InstanceTable []NamedInstanceSpec

// KnownInstances is the static reference table written into every document.
var KnownInstances = InstanceTable{
	{Name: "g6e.xlarge", InstanceSpec: InstanceSpec{CPUMemory: "32GB", GPUMemory: "48GB", SDXLStatus: SuitabilityExcellent}},
	{Name: "g5.xlarge", InstanceSpec: InstanceSpec{CPUMemory: "16GB", GPUMemory: "24GB", SDXLStatus: SuitabilityGood}},
	{Name: "g6.xlarge", InstanceSpec: InstanceSpec{CPUMemory: "16GB", GPUMemory: "24GB", SDXLStatus: SuitabilityGood}},
	{Name: "g4dn.xlarge", InstanceSpec: InstanceSpec{CPUMemory: "16GB", GPUMemory: "16GB", SDXLStatus: SuitabilityNotRecommended}},
}

// Lookup returns the spec for an instance identifier.
func (t InstanceTable) Lookup(name string) (InstanceSpec, bool) {
	for _, s := range t {
		if s.Name == name {
			return s.InstanceSpec, true
		}
	}
	return InstanceSpec{}, false
}

// MarshalJSON writes the table as an object, preserving order.
func (t InstanceTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.InstanceSpec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back into a table. Key order follows the input.
func (t *InstanceTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("instance table: expected object, got %v", tok)
	}
	out := InstanceTable{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("instance table: expected key, got %v", tok)
		}
		var spec InstanceSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("instance table %s: %w", name, err)
		}
		out = append(out, NamedInstanceSpec{Name: name, InstanceSpec: spec})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// DefaultSettings holds document-level settings shared by all tests.
type DefaultSettings struct {
	Prompt  string `json:"prompt"`
	Timeout int    `json:"timeout"`
	Method  string `json:"method"`
}

// Document is the persisted test plan.
type Document struct {
	Description            string          `json:"description"`
	Version                string          `json:"version"`
	TestMode               Mode            `json:"test_mode"`
	GeneratedBy            string          `json:"generated_by"`
	GeneratedAt            string          `json:"generated_at"`
	TotalTests             int             `json:"total_tests"`
	InstanceSpecifications InstanceTable   `json:"instance_specifications"`
	DefaultSettings        DefaultSettings `json:"default_settings"`
	TestMatrix             Matrix          `json:"test_matrix"`
	Tests                  []TestCase      `json:"tests"`
}
