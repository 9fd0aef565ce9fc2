package agent

import (
	"encoding/json"
	"fmt"
)

// transcript is the running plain-text record rebuilt into the planner's
// prompt each iteration. It is distinct from the ThinkingSteps shown to
// observers, though both are populated from the same events. Owned by a
// single run and discarded when a new question starts.
type transcript struct {
	lines []string
}

func (t *transcript) appendThought(thought string) {
	t.lines = append(t.lines, "Thought: "+thought)
}

func (t *transcript) appendAction(tool string, args map[string]any) {
	// json.Marshal sorts map keys, keeping the rendered line deterministic
	// for identical arguments.
	encoded, err := json.Marshal(args)
	if err != nil {
		encoded = []byte("{}")
	}
	t.lines = append(t.lines, fmt.Sprintf("Action: Calling tool %s with arguments %s", tool, encoded))
}

func (t *transcript) appendObservation(observation string) {
	t.lines = append(t.lines, observation)
}

// Lines returns the transcript lines accumulated so far.
func (t *transcript) Lines() []string {
	return t.lines
}
