package agent

import "github.com/felixgeelhaar/agent-shell/domain/action"

// Decision instructs the runtime to execute one action of one worker.
type Decision struct {
	WorkerID string      `json:"worker_id"`
	Action   string      `json:"action"`
	Args     action.Args `json:"args"`
	Reason   string      `json:"reason,omitempty"`
}

// NewDecision creates a decision.
func NewDecision(workerID, actionName string, args action.Args, reason string) Decision {
	if args == nil {
		args = action.Args{}
	}
	return Decision{
		WorkerID: workerID,
		Action:   actionName,
		Args:     args,
		Reason:   reason,
	}
}

// Plan is an ordered list of decisions. An empty plan means the agent idles.
type Plan []Decision

// IsIdle returns true if the plan has nothing to execute.
func (p Plan) IsIdle() bool {
	return len(p) == 0
}
