package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vitai/internal/agent"
	"vitai/internal/client"
	"vitai/internal/config"
	"vitai/internal/github"
	"vitai/internal/logging"
	"vitai/internal/repos"
	"vitai/internal/tools"
	"vitai/internal/ui"
)

var (
	version       = "0.1.0"
	cfgFile       string
	model         string
	maxIterations int
	logStderr     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitai [question]",
		Short: "AI assistant for the Adoptium AQAvit repositories",
		Long: `VitAI answers questions about a fixed set of GitHub repositories by
iteratively searching, listing, and reading their code with Gemini.

Pass a question as an argument for a one-shot answer, or run without
arguments for an interactive prompt.`,
		Args: cobra.ArbitraryArgs,
		RunE: run,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/vitai/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "planner model to use (default is gemini-2.5-pro)")
	rootCmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", 0, "cap on reasoning iterations per question (default 100)")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "log to stderr instead of the log file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vitai version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return err
	}
	cfg.Version = version
	if model != "" {
		cfg.Model.Name = model
	}
	if maxIterations > 0 {
		cfg.Agent.MaxIterations = maxIterations
	}

	switch {
	case logStderr:
		logging.Configure(logging.Level(cfg.Logging.Level), os.Stderr)
	case cfg.Logging.Enabled:
		if dir := config.ConfigDir(); dir != "" {
			if err := os.MkdirAll(dir, 0755); err == nil {
				_ = logging.EnableFileLogging(dir, logging.Level(cfg.Logging.Level))
			}
		}
	}
	defer logging.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	planner, err := client.NewGeminiClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer planner.Close()

	allowList := make([]repos.Repository, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		allowList = append(allowList, repos.Repository{
			Owner:       r.Owner,
			Name:        r.Name,
			Description: r.Description,
		})
	}
	allow := repos.NewSet(allowList)
	if err := allow.Validate(); err != nil {
		return err
	}

	gh := github.NewClient(cfg.API.GitHubToken,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithTimeout(cfg.GitHub.Timeout),
		github.WithRequestsPerMinute(cfg.GitHub.RequestsPerMinute),
		github.WithUserAgent("VitAI/"+cfg.Version),
	)

	printer := ui.NewPrinter(os.Stdout)

	registry := tools.DefaultRegistry(gh, allow)
	a := agent.New(planner, registry, allow, cfg.Agent)
	a.SetOnStep(printer.Step)

	if len(args) > 0 {
		question := strings.TrimSpace(strings.Join(args, " "))
		return askOnce(ctx, a, printer, question)
	}

	return interactive(ctx, a, printer)
}

// askOnce runs a single question and prints the outcome.
func askOnce(ctx context.Context, a *agent.Agent, printer *ui.Printer, question string) error {
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	turn := a.Ask(ctx, question)

	switch turn.Status {
	case agent.StatusDone:
		printer.Answer(turn.FinalAnswer)
		return nil
	case agent.StatusError:
		printer.Error(turn.Err)
		return fmt.Errorf("agent run failed")
	default:
		return fmt.Errorf("agent run ended in unexpected status %q", turn.Status)
	}
}

// interactive reads questions from stdin until EOF.
func interactive(ctx context.Context, a *agent.Agent, printer *ui.Printer) error {
	fmt.Println("VitAI - ask about the Adoptium AQAvit repositories. Ctrl-D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		turn := a.Ask(ctx, question)
		switch turn.Status {
		case agent.StatusDone:
			printer.Answer(turn.FinalAnswer)
		case agent.StatusError:
			printer.Error(turn.Err)
		}
	}
}
