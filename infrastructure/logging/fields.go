package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for agent shell logging.

// AgentName adds an agent name field.
func AgentName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("agent", name)
	}
}

// WorkerID adds a worker id field.
func WorkerID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("worker", id)
	}
}

// ActionName adds an action name field.
func ActionName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", name)
	}
}

// Status adds an action status field.
func Status(s action.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", string(s))
	}
}

// Mode adds a trigger mode field.
func Mode(m agent.Mode) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("mode", string(m))
	}
}

// TaskID adds a task id field.
func TaskID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("task_id", id)
	}
}

// SessionID adds a prompt session id field.
func SessionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("session_id", id)
	}
}

// Tick adds a tick counter field.
func Tick(n int64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("tick", n)
	}
}

// PlanSize adds the number of decisions in a plan.
func PlanSize(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("plan_size", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Goal adds a goal field.
func Goal(goal string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", goal)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an integer field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
