// Package config holds all tunable settings for lumina. Thresholds are
// heuristics, not contract: changing them changes findings, not engine
// behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lumina-tools/lumina/pkg/models"
)

// Config holds all configuration options for lumina.
type Config struct {
	Analysis AnalysisConfig `koanf:"analysis"`
	Sandbox  SandboxConfig  `koanf:"sandbox"`
	Cache    CacheConfig    `koanf:"cache"`
	Output   OutputConfig   `koanf:"output"`
}

// AnalysisConfig controls the static passes.
type AnalysisConfig struct {
	MaxFunctionLines int                   `koanf:"max_function_lines"`
	RiskThresholds   models.RiskThresholds `koanf:"risk_thresholds"`
	EnableDynamic    bool                  `koanf:"enable_dynamic"`
}

// SandboxConfig controls the traced execution.
type SandboxConfig struct {
	TimeoutSeconds float64 `koanf:"timeout_seconds"`
	MaxTraceEvents int     `koanf:"max_trace_events"`
	MaxReprLength  int     `koanf:"max_repr_length"`
	MemoryLimitMB  int     `koanf:"memory_limit_mb"`
	Python         string  `koanf:"python"`
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // hours
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json, markdown
	Color  bool   `koanf:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxFunctionLines: 50,
			RiskThresholds:   models.DefaultRiskThresholds(),
			EnableDynamic:    true,
		},
		Sandbox: SandboxConfig{
			TimeoutSeconds: 5,
			MaxTraceEvents: 500,
			MaxReprLength:  100,
			MemoryLimitMB:  128,
			Python:         "python3",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lumina/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layered over defaults. The parser
// is chosen by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"lumina.toml", "lumina.yaml", "lumina.yml", "lumina.json",
		".lumina.toml", ".lumina.yaml", ".lumina.yml", ".lumina.json",
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// Fingerprint summarizes the settings that affect analysis output, for
// cache invalidation.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("fn=%d;risk=%d/%d/%d;dyn=%t;to=%g;ev=%d;repr=%d;mem=%d",
		c.Analysis.MaxFunctionLines,
		c.Analysis.RiskThresholds.Low,
		c.Analysis.RiskThresholds.Medium,
		c.Analysis.RiskThresholds.High,
		c.Analysis.EnableDynamic,
		c.Sandbox.TimeoutSeconds,
		c.Sandbox.MaxTraceEvents,
		c.Sandbox.MaxReprLength,
		c.Sandbox.MemoryLimitMB,
	)
}
