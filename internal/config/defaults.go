package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Retry: RetryConfig{
				MaxRetries: 3,
				RetryDelay: 1 * time.Second,
				MaxDelay:   30 * time.Second,
			},
		},
		Model: ModelConfig{
			Name:            "gemini-2.5-pro",
			Temperature:     0.2,
			MaxOutputTokens: 8192,
		},
		Agent: AgentConfig{
			MaxIterations:   100,
			WallClockBudget: 10 * time.Minute,
			PlannerTimeout:  2 * time.Minute,
			ToolTimeout:     30 * time.Second,
		},
		GitHub: GitHubConfig{
			BaseURL:           "https://api.github.com",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 30,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Repositories: DefaultRepositories(),
	}
}

// DefaultRepositories returns the built-in repository allow-list: the
// Adoptium AQAvit projects and the OpenJ9 JVM.
func DefaultRepositories() []RepositoryConfig {
	return []RepositoryConfig{
		{Owner: "adoptium", Name: "aqa-tests", Description: "The central project for AQAvit (Adoptium Quality Assurance)."},
		{Owner: "adoptium", Name: "TKG", Description: "A lightweight test harness for running a diverse set of tests or commands."},
		{Owner: "adoptium", Name: "aqa-systemtest", Description: "System verification tests."},
		{Owner: "adoptium", Name: "aqa-test-tools", Description: "Various test tools that improve workflow."},
		{Owner: "adoptium", Name: "STF", Description: "System Test Framework for running system tests."},
		{Owner: "adoptium", Name: "bumblebench", Description: "A microbenchmarking test framework."},
		{Owner: "adoptium", Name: "run-aqa", Description: "A GitHub action for running AQA tests."},
		{Owner: "adoptium", Name: "openj9-systemtest", Description: "System verification tests for OpenJ9."},
		{Owner: "eclipse-openj9", Name: "openj9", Description: "The Eclipse OpenJ9 JVM project."},
	}
}
