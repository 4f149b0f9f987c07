package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MINDFILE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: MINDFILE_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("MINDFILE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MINDFILE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderAnthropic: true,
	ProviderOpenAI:    true,
	ProviderOllama:    true,
}

// validSourceTypes is the set of recognized context source types.
var validSourceTypes = map[SourceType]bool{
	SourceFile:    true,
	SourceCommand: true,
	SourceURL:     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of anthropic, openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.MemoryFile == "" {
		return fmt.Errorf("memory_file is required")
	}

	if c.LookbackDays < 1 {
		return fmt.Errorf("lookback_days must be at least 1")
	}

	if c.MaxPromptBytes < 0 {
		return fmt.Errorf("max_prompt_bytes must be non-negative")
	}

	if c.Evidence.ByteBudget < 0 {
		return fmt.Errorf("evidence.byte_budget must be non-negative")
	}

	for i, src := range c.ContextSources {
		if !validSourceTypes[src.Type] {
			return fmt.Errorf("context_sources[%d]: invalid type %q: must be one of file, command, url", i, src.Type)
		}
		if src.Value == "" {
			return fmt.Errorf("context_sources[%d]: value is required", i)
		}
		if src.MaxBytes < 0 {
			return fmt.Errorf("context_sources[%d]: max_bytes must be non-negative", i)
		}
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
