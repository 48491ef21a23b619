// Package guard holds the destructive-action confirmation state machine.
// A session is either idle or awaiting a yes/no answer for exactly one
// pending call; no destructive call reaches Canvas without passing through
// here first.
package guard

import (
	"strings"
	"time"

	"github.com/raihanp/canvassist/pkg/normalize"
)

// State is the confirmation state of a session.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// Decision classifies a user reply to a pending confirmation.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	// DecisionAbandon means the reply was neither approval nor rejection.
	// The pending call is discarded and the reply handled as a fresh message.
	DecisionAbandon Decision = "abandon"
)

var (
	approveWords = map[string]struct{}{
		"yes": {}, "y": {}, "confirm": {}, "ok": {}, "approve": {},
	}
	rejectWords = map[string]struct{}{
		"no": {}, "n": {}, "cancel": {}, "deny": {}, "stop": {},
	}
)

// ParseDecision classifies a user reply. Matching is case-insensitive on
// the trimmed message; anything that is not an exact keyword counts as
// abandonment, so "yes please delete it" starts over rather than deleting.
func ParseDecision(text string) Decision {
	word := strings.ToLower(strings.TrimSpace(text))
	if _, ok := approveWords[word]; ok {
		return DecisionApprove
	}
	if _, ok := rejectWords[word]; ok {
		return DecisionReject
	}
	return DecisionAbandon
}

// PendingConfirmation is a destructive call held back until the user
// answers.
type PendingConfirmation struct {
	Call      normalize.NormalizedCall `json:"call"`
	CreatedAt time.Time                `json:"created_at"`
}

// Guard tracks the confirmation state for one session. It is not
// goroutine-safe; the session manager serializes turns per session.
type Guard struct {
	pending *PendingConfirmation
}

// New creates an idle guard.
func New() *Guard {
	return &Guard{}
}

// State returns the current confirmation state.
func (g *Guard) State() State {
	if g.pending != nil {
		return StateAwaitingConfirmation
	}
	return StateIdle
}

// Pending returns the held call, or nil when idle.
func (g *Guard) Pending() *PendingConfirmation {
	return g.pending
}

// Hold parks a destructive call and moves to AwaitingConfirmation. A call
// already pending is replaced; the orchestrator stops the batch at the
// first destructive call, so this only happens across turns.
func (g *Guard) Hold(call normalize.NormalizedCall) *PendingConfirmation {
	g.pending = &PendingConfirmation{
		Call:      call,
		CreatedAt: time.Now().UTC(),
	}
	return g.pending
}

// Resolve consumes the pending call and returns it together with the
// decision the reply encodes. The guard is idle afterwards regardless of
// the decision; approval hands the call back for dispatch, rejection and
// abandonment drop it.
func (g *Guard) Resolve(text string) (Decision, *PendingConfirmation) {
	pending := g.pending
	g.pending = nil
	return ParseDecision(text), pending
}

// Restore reinstates a pending call loaded from a persisted session.
func (g *Guard) Restore(pending *PendingConfirmation) {
	g.pending = pending
}
