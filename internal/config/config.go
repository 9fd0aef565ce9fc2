package config

import "time"

// Config represents the main application configuration.
type Config struct {
	API          APIConfig          `yaml:"api"`
	Model        ModelConfig        `yaml:"model"`
	Agent        AgentConfig        `yaml:"agent"`
	GitHub       GitHubConfig       `yaml:"github"`
	Logging      LoggingConfig      `yaml:"logging"`
	Repositories []RepositoryConfig `yaml:"repositories"`

	// Runtime version information
	Version string `yaml:"-"`
}

// APIConfig holds credentials and retry settings for external APIs.
type APIConfig struct {
	// GeminiKey is the Gemini API key. Usually set via GEMINI_API_KEY.
	GeminiKey string `yaml:"gemini_key,omitempty"`

	// GitHubToken is the bearer token for the GitHub API. Usually set via
	// GITHUB_TOKEN. May be empty: tools then report the missing credential
	// as an observation instead of failing the process.
	GitHubToken string `yaml:"github_token,omitempty"`

	// Retry configuration for planner API calls.
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig holds retry settings for API calls.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"` // Maximum number of retry attempts (default: 3)
	RetryDelay time.Duration `yaml:"retry_delay"` // Initial delay between retries (default: 1s)
	MaxDelay   time.Duration `yaml:"max_delay"`   // Cap on the backoff delay (default: 30s)
}

// ModelConfig holds planner model settings.
type ModelConfig struct {
	Name            string  `yaml:"name"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// AgentConfig bounds a single agent run.
type AgentConfig struct {
	// MaxIterations caps the number of Thought/Action/Observation cycles.
	MaxIterations int `yaml:"max_iterations"`

	// WallClockBudget bounds the total run duration independently of the
	// iteration cap. Zero disables the budget.
	WallClockBudget time.Duration `yaml:"wall_clock_budget"`

	// PlannerTimeout bounds a single planner invocation.
	PlannerTimeout time.Duration `yaml:"planner_timeout"`

	// ToolTimeout bounds a single tool call.
	ToolTimeout time.Duration `yaml:"tool_timeout"`
}

// GitHubConfig holds GitHub API client settings.
type GitHubConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// RepositoryConfig describes one allow-listed repository.
type RepositoryConfig struct {
	Owner       string `yaml:"owner"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
