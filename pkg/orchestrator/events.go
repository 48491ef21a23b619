package orchestrator

// Event types emitted during a turn. The gateway streams these to session
// watchers over websockets.
const (
	EventToolExecuted          = "tool_executed"
	EventConfirmationRequested = "confirmation_requested"
	EventConfirmationResolved  = "confirmation_resolved"
)

// Event is one observable step of a turn.
type Event struct {
	Type    string `json:"type"`
	Tool    string `json:"tool,omitempty"`
	Success bool   `json:"success,omitempty"`
	// Text carries the error for failed executions and the decision for
	// resolved confirmations.
	Text string `json:"text,omitempty"`
}

// EventPublisher receives events as they happen. Implementations must not
// block; a turn holds its session lock while publishing.
type EventPublisher interface {
	Publish(sessionKey string, event Event)
}
