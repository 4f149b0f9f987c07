package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// SourceType identifies a kind of auxiliary context source.
type SourceType string

const (
	SourceFile    SourceType = "file"
	SourceCommand SourceType = "command"
	SourceURL     SourceType = "url"
)

// Config is the top-level mindfile configuration, corresponding to .mindfile.yml.
type Config struct {
	Provider       ProviderType    `yaml:"provider" koanf:"provider"`
	Model          string          `yaml:"model" koanf:"model"`
	MemoryFile     string          `yaml:"memory_file" koanf:"memory_file"`
	BackupDir      string          `yaml:"backup_dir" koanf:"backup_dir"`
	HistoryFile    string          `yaml:"history_file" koanf:"history_file"`
	LookbackDays   int             `yaml:"lookback_days" koanf:"lookback_days"`
	PromptTemplate string          `yaml:"prompt_template" koanf:"prompt_template"`
	MaxPromptBytes int             `yaml:"max_prompt_bytes" koanf:"max_prompt_bytes"`
	Evidence       EvidenceConfig  `yaml:"evidence" koanf:"evidence"`
	ContextSources []ContextSource `yaml:"context_sources" koanf:"context_sources"`
	Git            GitConfig       `yaml:"git" koanf:"git"`
}

// EvidenceConfig controls where session evidence comes from and how much
// of it is packed into a single reflection run.
type EvidenceConfig struct {
	SourceRoot      string `yaml:"source_root" koanf:"source_root"`
	ByteBudget      int    `yaml:"byte_budget" koanf:"byte_budget"`
	Command         string `yaml:"command" koanf:"command"`
	CommandMaxBytes int    `yaml:"command_max_bytes" koanf:"command_max_bytes"`
}

// ContextSource describes one auxiliary context input concatenated into
// the prompt alongside the evidence.
type ContextSource struct {
	Type     SourceType `yaml:"type" koanf:"type"`
	Value    string     `yaml:"value" koanf:"value"`
	MaxBytes int        `yaml:"max_bytes" koanf:"max_bytes"`
}

// GitConfig holds version-control side-effect settings.
type GitConfig struct {
	AutoCommit bool `yaml:"auto_commit" koanf:"auto_commit"`
}
