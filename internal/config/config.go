/*
PURPOSE:
  Defines the configuration structure and loading logic for sd-testgen.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Mode, prompt, output path and comparison-mode resources are configurable.
  - Any of the six matrix lists can be overridden.

  Implementation-discovered:
  - Supports YAML and TOML files (chosen by extension).
  - Supports environment overrides (SDGEN_...), optionally from a .env file.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/BurntSushi/toml, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if an explicit config file is missing or invalid.
  - Missing default files and a missing .env are not errors.

IMPLEMENTATION RULES:
  - Precedence: defaults < file < environment < CLI flags (flags applied in internal/cli).
  - Validate() runs after every layer has been merged.

USAGE:
  cfg, err := config.Load("sd_testgen.yaml")
  err = config.ApplyEnv(cfg)

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig() and ApplyEnv().

RELATED FILES:
  - internal/cli/generate.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/sd-testgen/internal/model"
)

// Default values for the CLI.
const (
	DefaultPrompt                  = "a photo of an astronaut riding a horse on mars"
	DefaultOutput                  = "universal_test_config.json"
	DefaultComparisonMemoryRequest = "12Gi"
	DefaultComparisonMemoryLimit   = "15Gi"
	DefaultComparisonTimeout       = 2400
)

// Environment variable names.
const (
	EnvMode                    = "SDGEN_MODE"
	EnvPrompt                  = "SDGEN_PROMPT"
	EnvOutput                  = "SDGEN_OUTPUT"
	EnvCSVOutput               = "SDGEN_CSV_OUTPUT"
	EnvComparisonMemoryRequest = "SDGEN_COMPARISON_MEMORY_REQUEST"
	EnvComparisonMemoryLimit   = "SDGEN_COMPARISON_MEMORY_LIMIT"
	EnvComparisonTimeout       = "SDGEN_COMPARISON_TIMEOUT"
)

// DefaultFiles are searched in order when no config path is given.
var DefaultFiles = []string{"sd_testgen.yaml", "sd_testgen.yml", "sd_testgen.toml"}

// Comparison holds the uniform resources used in comparison mode.
type Comparison struct {
	MemoryRequest string `yaml:"memory_request" toml:"memory_request"`
	MemoryLimit   string `yaml:"memory_limit" toml:"memory_limit"`
	Timeout       int    `yaml:"timeout" toml:"timeout"`
}

// Config represents the full configuration for sd-testgen.
type Config struct {
	Mode       string     `yaml:"mode" toml:"mode"`
	Prompt     string     `yaml:"prompt" toml:"prompt"`
	Output     string     `yaml:"output" toml:"output"`
	CSVOutput  string     `yaml:"csv_output" toml:"csv_output"`
	Comparison Comparison `yaml:"comparison" toml:"comparison"`
	// Matrix lists left empty fall back to the mode defaults.
	Matrix model.Matrix `yaml:"matrix" toml:"matrix"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:   string(model.ModeMixed),
		Prompt: DefaultPrompt,
		Output: DefaultOutput,
		Comparison: Comparison{
			MemoryRequest: DefaultComparisonMemoryRequest,
			MemoryLimit:   DefaultComparisonMemoryLimit,
			Timeout:       DefaultComparisonTimeout,
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadDotEnv loads variables from a .env file without overriding the
// existing environment. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with non-empty SDGEN_* variables.
func ApplyEnv(cfg *Config) error {
	setString(&cfg.Mode, EnvMode)
	setString(&cfg.Prompt, EnvPrompt)
	setString(&cfg.Output, EnvOutput)
	setString(&cfg.CSVOutput, EnvCSVOutput)
	setString(&cfg.Comparison.MemoryRequest, EnvComparisonMemoryRequest)
	setString(&cfg.Comparison.MemoryLimit, EnvComparisonMemoryLimit)

	if v := os.Getenv(EnvComparisonTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer number of seconds: %w", EnvComparisonTimeout, err)
		}
		cfg.Comparison.Timeout = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the merged configuration and returns the parsed mode.
func (c *Config) Validate() (model.Mode, error) {
	mode, err := model.ParseMode(c.Mode)
	if err != nil {
		return "", err
	}
	if c.Output == "" {
		return "", errors.New("output path must not be empty")
	}
	return mode, nil
}
