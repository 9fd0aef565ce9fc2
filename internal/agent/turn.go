package agent

import (
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an agent turn.
type Status string

const (
	StatusThinking Status = "thinking"
	StatusDone     Status = "done"
	StatusError    Status = "error"
)

// Action is one tool invocation selected by the planner.
type Action struct {
	Tool string
	Args map[string]any
}

// ThinkingStep records one completed loop iteration. Steps are append-only:
// once recorded they are never mutated.
type ThinkingStep struct {
	Thought     string
	Action      Action
	Observation string
}

// UserTurn is the user's question. Immutable once created.
type UserTurn struct {
	ID      string
	Content string
}

// AgentTurn is the agent's full multi-step response to one question. It is
// mutated only by the run that owns it (matched by RunID) and frozen once
// Status leaves StatusThinking.
type AgentTurn struct {
	ID            string
	RunID         string
	ThinkingSteps []ThinkingStep
	FinalAnswer   string
	Status        Status
	Err           string
}

// Turn is either a UserTurn or an AgentTurn.
type Turn interface {
	TurnID() string
}

func (t UserTurn) TurnID() string  { return t.ID }
func (t AgentTurn) TurnID() string { return t.ID }

// Conversation owns the ordered turn list for one interaction. Exactly one
// agent turn is live at a time; starting a new run supersedes the previous
// one, and writes carrying a superseded run ID are discarded rather than
// landing in a turn that is no longer current.
type Conversation struct {
	mu        sync.RWMutex
	turns     []Turn
	agentIdx  map[string]int // run ID -> index into turns
	activeRun string
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		agentIdx: make(map[string]int),
	}
}

// AddUserTurn appends the user's question.
func (c *Conversation) AddUserTurn(content string) UserTurn {
	turn := UserTurn{ID: uuid.NewString(), Content: content}

	c.mu.Lock()
	c.turns = append(c.turns, turn)
	c.mu.Unlock()

	return turn
}

// BeginAgentTurn appends a live agent turn owned by runID and makes runID
// the active run, superseding any previous one.
func (c *Conversation) BeginAgentTurn(runID string) {
	turn := AgentTurn{
		ID:     uuid.NewString(),
		RunID:  runID,
		Status: StatusThinking,
	}

	c.mu.Lock()
	c.turns = append(c.turns, turn)
	c.agentIdx[runID] = len(c.turns) - 1
	c.activeRun = runID
	c.mu.Unlock()
}

// AppendStep records a thinking step on the turn owned by runID. Returns
// false, discarding the write, when runID has been superseded.
func (c *Conversation) AppendStep(runID string, step ThinkingStep) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn, ok := c.liveTurn(runID)
	if !ok {
		return false
	}
	turn.ThinkingSteps = append(turn.ThinkingSteps, step)
	c.turns[c.agentIdx[runID]] = *turn
	return true
}

// Finish freezes the turn owned by runID with the final answer.
func (c *Conversation) Finish(runID, answer string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn, ok := c.liveTurn(runID)
	if !ok {
		return false
	}
	turn.FinalAnswer = answer
	turn.Status = StatusDone
	c.turns[c.agentIdx[runID]] = *turn
	return true
}

// Fail freezes the turn owned by runID with an error message.
func (c *Conversation) Fail(runID, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn, ok := c.liveTurn(runID)
	if !ok {
		return false
	}
	turn.Err = message
	turn.Status = StatusError
	c.turns[c.agentIdx[runID]] = *turn
	return true
}

// liveTurn returns a copy of the agent turn owned by runID, but only while
// runID is still the active run and the turn is still thinking.
func (c *Conversation) liveTurn(runID string) (*AgentTurn, bool) {
	if runID != c.activeRun {
		return nil, false
	}
	idx, ok := c.agentIdx[runID]
	if !ok {
		return nil, false
	}
	turn, ok := c.turns[idx].(AgentTurn)
	if !ok || turn.Status != StatusThinking {
		return nil, false
	}
	copied := turn
	copied.ThinkingSteps = append([]ThinkingStep(nil), turn.ThinkingSteps...)
	return &copied, true
}

// Turns returns a read-only snapshot of the conversation. Observers may call
// this at any time; a live turn's step list grows between snapshots.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	for i, t := range c.turns {
		if at, ok := t.(AgentTurn); ok {
			at.ThinkingSteps = append([]ThinkingStep(nil), at.ThinkingSteps...)
			out[i] = at
			continue
		}
		out[i] = t
	}
	return out
}

// AgentTurnFor returns a snapshot of the agent turn owned by runID.
func (c *Conversation) AgentTurnFor(runID string) (AgentTurn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.agentIdx[runID]
	if !ok {
		return AgentTurn{}, false
	}
	turn := c.turns[idx].(AgentTurn)
	turn.ThinkingSteps = append([]ThinkingStep(nil), turn.ThinkingSteps...)
	return turn, true
}
