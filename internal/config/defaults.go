package config

import (
	"os"
	"path/filepath"
)

// Default byte ceilings. MaxPromptBytes bounds the whole analysis prompt;
// the evidence budget bounds the packed transcript text inside it.
const (
	DefaultMaxPromptBytes     = 180_000
	DefaultEvidenceBudget     = 120_000
	DefaultCommandMaxBytes    = 60_000
	DefaultLookbackDays       = 1
	DefaultContextSourceBytes = 8_000
)

// defaultModels maps each provider to its default analysis model.
var defaultModels = map[ProviderType]string{
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOpenAI:    "gpt-4o",
	ProviderOllama:    "llama3",
}

// DefaultModel returns the default model for the given provider.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderAnthropic]
}

// DefaultConfig returns a Config with sensible defaults. Paths are rooted
// in the user's home directory when it can be resolved.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".mindfile")
	return &Config{
		Provider:       ProviderAnthropic,
		Model:          DefaultModel(ProviderAnthropic),
		MemoryFile:     filepath.Join(home, "MEMORY.md"),
		BackupDir:      filepath.Join(base, "backups"),
		HistoryFile:    filepath.Join(base, "history.json"),
		LookbackDays:   DefaultLookbackDays,
		MaxPromptBytes: DefaultMaxPromptBytes,
		Evidence: EvidenceConfig{
			SourceRoot:      filepath.Join(home, ".mindfile", "sessions"),
			ByteBudget:      DefaultEvidenceBudget,
			CommandMaxBytes: DefaultCommandMaxBytes,
		},
		Git: GitConfig{
			AutoCommit: false,
		},
	}
}
