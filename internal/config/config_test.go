package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.LookbackDays != DefaultLookbackDays {
		t.Errorf("LookbackDays = %d", cfg.LookbackDays)
	}
	if cfg.MaxPromptBytes != DefaultMaxPromptBytes {
		t.Errorf("MaxPromptBytes = %d", cfg.MaxPromptBytes)
	}
	if cfg.Evidence.ByteBudget != DefaultEvidenceBudget {
		t.Errorf("Evidence.ByteBudget = %d", cfg.Evidence.ByteBudget)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mindfile.yml")
	body := `provider: ollama
model: llama3.1
memory_file: /tmp/MEMORY.md
lookback_days: 3
evidence:
  source_root: /tmp/sessions
  byte_budget: 50000
context_sources:
  - type: command
    value: git log --oneline -20
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != ProviderOllama || cfg.Model != "llama3.1" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.LookbackDays != 3 {
		t.Errorf("LookbackDays = %d", cfg.LookbackDays)
	}
	if cfg.Evidence.SourceRoot != "/tmp/sessions" || cfg.Evidence.ByteBudget != 50000 {
		t.Errorf("Evidence = %+v", cfg.Evidence)
	}
	if len(cfg.ContextSources) != 1 || cfg.ContextSources[0].Type != SourceCommand {
		t.Errorf("ContextSources = %+v", cfg.ContextSources)
	}
	// Unset fields keep their defaults.
	if cfg.MaxPromptBytes != DefaultMaxPromptBytes {
		t.Errorf("MaxPromptBytes = %d, want default", cfg.MaxPromptBytes)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mindfile.yml")
	if err := os.WriteFile(path, []byte("provider: openai\nmodel: gpt-4o\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MINDFILE_MODEL", "gpt-4o-mini")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, env should win over file", cfg.Model)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, file value should survive", cfg.Provider)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mindfile.yml")
	orig := DefaultConfig()
	orig.Provider = ProviderOpenAI
	orig.Model = "gpt-4o"
	orig.MemoryFile = "/home/me/MEMORY.md"
	orig.Git.AutoCommit = true
	if err := orig.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Provider != orig.Provider || loaded.Model != orig.Model ||
		loaded.MemoryFile != orig.MemoryFile || !loaded.Git.AutoCommit {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.MemoryFile = "/tmp/MEMORY.md"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }, "provider is required"},
		{"bad provider", func(c *Config) { c.Provider = "bard" }, "invalid provider"},
		{"empty model", func(c *Config) { c.Model = "" }, "model is required"},
		{"empty memory file", func(c *Config) { c.MemoryFile = "" }, "memory_file is required"},
		{"zero lookback", func(c *Config) { c.LookbackDays = 0 }, "lookback_days"},
		{"negative budget", func(c *Config) { c.Evidence.ByteBudget = -1 }, "byte_budget"},
		{"bad source type", func(c *Config) {
			c.ContextSources = []ContextSource{{Type: "ftp", Value: "x"}}
		}, "invalid type"},
		{"source missing value", func(c *Config) {
			c.ContextSources = []ContextSource{{Type: SourceFile}}
		}, "value is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("err = %v, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderAnthropic); got != "ANTHROPIC_API_KEY" {
		t.Errorf("anthropic: %q", got)
	}
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("openai: %q", got)
	}
	if got := APIKeyEnvVar(ProviderOllama); got != "" {
		t.Errorf("ollama should need no key, got %q", got)
	}
}
