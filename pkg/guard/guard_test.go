package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanp/canvassist/pkg/normalize"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		text string
		want Decision
	}{
		{"yes", DecisionApprove},
		{"y", DecisionApprove},
		{"confirm", DecisionApprove},
		{"ok", DecisionApprove},
		{"approve", DecisionApprove},
		{"YES", DecisionApprove},
		{"  Yes  ", DecisionApprove},
		{"no", DecisionReject},
		{"n", DecisionReject},
		{"cancel", DecisionReject},
		{"deny", DecisionReject},
		{"stop", DecisionReject},
		{"No", DecisionReject},
		{"yes please delete it", DecisionAbandon},
		{"actually, list my courses", DecisionAbandon},
		{"", DecisionAbandon},
		{"maybe", DecisionAbandon},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDecision(tt.text))
		})
	}
}

func TestGuardHoldAndResolve(t *testing.T) {
	g := New()
	assert.Equal(t, StateIdle, g.State())
	assert.Nil(t, g.Pending())

	call := normalize.NormalizedCall{
		Name:      "delete_page",
		Arguments: map[string]any{"course_id": int64(7), "url_or_id": "welcome"},
	}

	pending := g.Hold(call)
	require.NotNil(t, pending)
	assert.Equal(t, StateAwaitingConfirmation, g.State())
	assert.False(t, pending.CreatedAt.IsZero())

	decision, resolved := g.Resolve("yes")
	assert.Equal(t, DecisionApprove, decision)
	require.NotNil(t, resolved)
	assert.Equal(t, "delete_page", resolved.Call.Name)

	// Resolving clears the pending call no matter the decision
	assert.Equal(t, StateIdle, g.State())
	assert.Nil(t, g.Pending())
}

func TestGuardRejectDiscards(t *testing.T) {
	g := New()
	g.Hold(normalize.NormalizedCall{Name: "delete_course", Arguments: map[string]any{"course_id": int64(7)}})

	decision, resolved := g.Resolve("no")
	assert.Equal(t, DecisionReject, decision)
	require.NotNil(t, resolved)
	assert.Equal(t, StateIdle, g.State())
}

func TestGuardAbandonDiscards(t *testing.T) {
	g := New()
	g.Hold(normalize.NormalizedCall{Name: "delete_course", Arguments: map[string]any{"course_id": int64(7)}})

	decision, resolved := g.Resolve("what courses do I have?")
	assert.Equal(t, DecisionAbandon, decision)
	require.NotNil(t, resolved)
	assert.Equal(t, StateIdle, g.State())
}

func TestGuardHoldReplacesPending(t *testing.T) {
	g := New()
	g.Hold(normalize.NormalizedCall{Name: "delete_page", Arguments: map[string]any{}})
	g.Hold(normalize.NormalizedCall{Name: "delete_quiz", Arguments: map[string]any{}})

	require.NotNil(t, g.Pending())
	assert.Equal(t, "delete_quiz", g.Pending().Call.Name)
}

func TestGuardRestore(t *testing.T) {
	g := New()
	g.Restore(&PendingConfirmation{Call: normalize.NormalizedCall{Name: "delete_module"}})
	assert.Equal(t, StateAwaitingConfirmation, g.State())
}
