package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// wellKnownMemoryFiles are filenames that agent runtimes conventionally use
// for their long-lived memory/identity document, checked relative to the
// user's home directory.
var wellKnownMemoryFiles = []string{
	"MEMORY.md",
	"SOUL.md",
	"CLAUDE.md",
	"AGENTS.md",
}

// detectMemoryFile looks for a well-known memory document in the home
// directory and returns its path, or empty if none exists.
func detectMemoryFile(home string) string {
	for _, name := range wellKnownMemoryFiles {
		path := filepath.Join(home, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .mindfile.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to mindfile! Let's configure your agent memory reflection.")
	fmt.Println()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	defaults := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"anthropic", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Analysis model",
		Default: DefaultModel(provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Memory document.
	detected := detectMemoryFile(home)
	if detected != "" {
		fmt.Printf("Detected memory document: %s\n\n", detected)
	} else {
		detected = defaults.MemoryFile
	}
	memoryPrompt := promptui.Prompt{
		Label:   "Memory document to maintain",
		Default: detected,
	}
	memoryFile, err := memoryPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("memory file: %w", err)
	}

	// 4. Session log root.
	rootPrompt := promptui.Prompt{
		Label:   "Session log root directory",
		Default: defaults.Evidence.SourceRoot,
	}
	sourceRoot, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("session log root: %w", err)
	}

	// 5. Lookback window.
	lookbackPrompt := promptui.Prompt{
		Label:   "Lookback window in days",
		Default: strconv.Itoa(defaults.LookbackDays),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	lookbackStr, err := lookbackPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("lookback window: %w", err)
	}
	lookback, _ := strconv.Atoi(lookbackStr)

	// 6. Git auto-commit.
	commitPrompt := promptui.Select{
		Label: "Auto-commit the memory document after a successful run",
		Items: []string{"no", "yes"},
	}
	commitIdx, _, err := commitPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("auto-commit selection: %w", err)
	}

	cfg := defaults
	cfg.Provider = provider
	cfg.Model = model
	cfg.MemoryFile = memoryFile
	cfg.Evidence.SourceRoot = sourceRoot
	cfg.LookbackDays = lookback
	cfg.Git.AutoCommit = commitIdx == 1

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running mindfile run.\n", envVar)
		}
	}

	// Save to .mindfile.yml.
	configPath := ".mindfile.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
