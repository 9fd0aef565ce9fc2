// Package agent drives the bounded Thought/Action/Observation loop that
// coordinates the planner with the GitHub tools.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"vitai/internal/client"
	"vitai/internal/config"
	"vitai/internal/logging"
	"vitai/internal/repos"
	"vitai/internal/tools"
)

// Agent runs one ReAct loop per question against a fixed tool registry and
// repository allow-list.
type Agent struct {
	planner  client.Client
	registry *tools.Registry
	allow    *repos.Set
	conv     *Conversation

	maxIterations   int
	wallClockBudget time.Duration
	plannerTimeout  time.Duration
	toolTimeout     time.Duration

	onStep func(ThinkingStep)
}

// New creates an agent. Zero values in cfg fall back to the defaults from
// config.DefaultConfig.
func New(planner client.Client, registry *tools.Registry, allow *repos.Set, cfg config.AgentConfig) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = config.DefaultConfig().Agent.MaxIterations
	}
	return &Agent{
		planner:         planner,
		registry:        registry,
		allow:           allow,
		conv:            NewConversation(),
		maxIterations:   cfg.MaxIterations,
		wallClockBudget: cfg.WallClockBudget,
		plannerTimeout:  cfg.PlannerTimeout,
		toolTimeout:     cfg.ToolTimeout,
	}
}

// Conversation returns the conversation for read-only observation.
func (a *Agent) Conversation() *Conversation {
	return a.conv
}

// SetOnStep sets a callback invoked after every recorded thinking step.
func (a *Agent) SetOnStep(fn func(ThinkingStep)) {
	a.onStep = fn
}

// Ask runs the full loop for one question and returns the finished agent
// turn. The turn ends in StatusDone with FinalAnswer set, or StatusError
// with Err describing the terminal condition; tool-level failures never end
// a run, they are fed back to the planner as observations.
func (a *Agent) Ask(ctx context.Context, question string) AgentTurn {
	runID := uuid.NewString()

	a.conv.AddUserTurn(question)
	a.conv.BeginAgentTurn(runID)

	a.planner.SetTools(a.registry.GeminiTools())

	tr := &transcript{}
	repositories := a.allow.List()
	start := time.Now()

	logging.Info("agent run started", "run_id", runID, "max_iterations", a.maxIterations)

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return a.fail(runID, fmt.Sprintf("run canceled: %s", ctx.Err()))
		default:
		}

		if a.wallClockBudget > 0 && time.Since(start) > a.wallClockBudget {
			return a.fail(runID, fmt.Sprintf(
				"The agent exceeded its wall-clock budget of %s without finding an answer.", a.wallClockBudget))
		}

		prompt := BuildPrompt(question, repositories, tr.Lines())

		resp, err := a.invokePlanner(ctx, prompt)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return a.fail(runID, fmt.Sprintf("The planner call timed out after %s.", a.plannerTimeout))
			}
			return a.fail(runID, err.Error())
		}

		thought := resp.Text
		if thought == "" {
			thought = "(No thought generated)"
		}

		call := selectToolCall(resp)
		if call == nil {
			return a.fail(runID, fmt.Sprintf(
				"The agent got stuck and returned no tool call. Last thought: %s", thought))
		}

		tr.appendThought(thought)

		if call.Name == tools.FinishToolName {
			answer, _ := call.Args["answer"].(string)
			a.conv.Finish(runID, answer)
			logging.Info("agent run finished", "run_id", runID, "iterations", iteration+1)
			turn, _ := a.conv.AgentTurnFor(runID)
			return turn
		}

		tr.appendAction(call.Name, call.Args)

		observation := a.dispatch(ctx, call)
		tr.appendObservation(observation)

		step := ThinkingStep{
			Thought:     thought,
			Action:      Action{Tool: call.Name, Args: call.Args},
			Observation: observation,
		}
		if a.conv.AppendStep(runID, step) && a.onStep != nil {
			a.onStep(step)
		}
	}

	return a.fail(runID, "The agent reached the maximum number of iterations without finding an answer.")
}

// invokePlanner calls the planner under the per-call timeout.
func (a *Agent) invokePlanner(ctx context.Context, prompt string) (*client.Response, error) {
	if a.plannerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.plannerTimeout)
		defer cancel()
	}
	return a.planner.Generate(ctx, prompt)
}

// selectToolCall picks the single call honored this step. The protocol is
// one call per step; if the planner emitted several, only the first counts.
// When no structured call came back, a call embedded in the free text is
// accepted as a fallback.
func selectToolCall(resp *client.Response) *genai.FunctionCall {
	if len(resp.FunctionCalls) > 0 {
		if len(resp.FunctionCalls) > 1 {
			logging.Debug("planner returned multiple tool calls, honoring the first",
				"count", len(resp.FunctionCalls))
		}
		return resp.FunctionCalls[0]
	}
	return client.ParseToolCallFromText(resp.Text)
}

// dispatch executes the selected tool and returns its observation. Unknown
// names and malformed arguments become observations, never failures.
func (a *Agent) dispatch(ctx context.Context, call *genai.FunctionCall) string {
	tool, ok := a.registry.Get(call.Name)
	if !ok {
		return fmt.Sprintf("Observation: Unknown tool %q was called.", call.Name)
	}

	if err := tool.Validate(call.Args); err != nil {
		return fmt.Sprintf("Observation: Invalid arguments for tool %q: %s.", call.Name, err)
	}

	if a.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.toolTimeout)
		defer cancel()
	}

	result := tool.Execute(ctx, call.Args)
	if !result.Success {
		logging.Debug("tool reported an error condition", "tool", call.Name)
	}
	return result.Observation
}

// fail freezes the run's turn with an error message and returns the final
// snapshot. Prior thinking steps stay visible.
func (a *Agent) fail(runID, message string) AgentTurn {
	a.conv.Fail(runID, message)
	logging.Warn("agent run failed", "run_id", runID, "error", message)
	turn, _ := a.conv.AgentTurnFor(runID)
	return turn
}
