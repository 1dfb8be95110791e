// Package config loads runtime settings from defaults, an optional YAML file
// and the environment, in that order of precedence (later wins). Command-line
// flags are applied on top by the caller before Validate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/sasa/internal/logging"
	"github.com/petasbytes/sasa/internal/provider"
	"github.com/petasbytes/sasa/internal/safety"
	"github.com/petasbytes/sasa/internal/telemetry"
)

const DefaultMaxIterations = 10

var ErrMissingAPIKey = errors.New("config: ANTHROPIC_API_KEY is not set")

type Config struct {
	APIKey        string        `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	BaseURL       string        `yaml:"base_url" env:"ANTHROPIC_BASE_URL"`
	Model         string        `yaml:"model" env:"SASA_MODEL"`
	MaxTokens     int           `yaml:"max_tokens" env:"SASA_MAX_TOKENS"`
	MaxIterations int           `yaml:"max_iterations" env:"SASA_MAX_ITERATIONS"`
	ModelTimeout  time.Duration `yaml:"model_timeout" env:"SASA_MODEL_TIMEOUT"`
	// InputBudget caps the estimated input tokens of a request; 0 disables it.
	InputBudget int `yaml:"input_budget" env:"SASA_INPUT_BUDGET"`

	Policy    safety.Policy   `yaml:"policy"`
	Tools     ToolsConfig     `yaml:"tools"`
	Log       logging.Config  `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ToolsConfig struct {
	Shell        string        `yaml:"shell" env:"SASA_SHELL"`
	ShellTimeout time.Duration `yaml:"shell_timeout" env:"SASA_SHELL_TIMEOUT"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"SASA_HTTP_TIMEOUT"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled" env:"SASA_TELEMETRY"`
	Dir     string `yaml:"dir" env:"SASA_TELEMETRY_DIR"`
}

func Default() *Config {
	return &Config{
		Model:         string(provider.DefaultModel),
		MaxTokens:     provider.DefaultMaxTokens,
		MaxIterations: DefaultMaxIterations,
		Policy:        safety.Unrestricted(),
		Tools:         ToolsConfig{Shell: "sh"},
		Log:           logging.DefaultConfig(),
		Telemetry:     TelemetryConfig{Dir: telemetry.DefaultDir},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Validate reports the first setting that would prevent a run.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch {
	case c.Model == "":
		return errors.New("config: model must not be empty")
	case c.MaxTokens <= 0:
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.MaxTokens)
	case c.MaxIterations <= 0:
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.MaxIterations)
	case c.InputBudget < 0:
		return fmt.Errorf("config: input_budget must not be negative, got %d", c.InputBudget)
	case c.ModelTimeout < 0 || c.Tools.ShellTimeout < 0 || c.Tools.HTTPTimeout < 0:
		return errors.New("config: timeouts must not be negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
