// Package orchestrator drives one conversation turn: user message in,
// model consulted, tool calls normalized, guarded, dispatched, and a final
// natural-language reply out. A turn holds its session's lock end to end,
// so per-session state is never mutated concurrently.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/raihanp/canvassist/internal/config"
	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/internal/tracing"
	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/dispatch"
	"github.com/raihanp/canvassist/pkg/guard"
	"github.com/raihanp/canvassist/pkg/llm"
	"github.com/raihanp/canvassist/pkg/normalize"
	"github.com/raihanp/canvassist/pkg/session"
)

// Result is what one turn produces for the caller.
type Result struct {
	// Reply is the assistant text to show the user.
	Reply string `json:"reply"`
	// AwaitingConfirmation is true when the turn paused on a destructive
	// call and Reply is the confirmation prompt.
	AwaitingConfirmation bool `json:"awaiting_confirmation"`
	// Outcomes lists the tool executions this turn performed, in order.
	Outcomes []dispatch.Outcome `json:"outcomes,omitempty"`
}

// Orchestrator wires the per-turn pipeline together.
type Orchestrator struct {
	sessions   *session.Manager
	registry   *catalog.Registry
	normalizer *normalize.Normalizer
	dispatcher *dispatch.Dispatcher
	provider   llm.Provider
	metrics    *metrics.Metrics
	events     EventPublisher
	logger     zerolog.Logger

	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	toolSpecs    []llm.ToolSpec
}

// Config holds the orchestrator's collaborators. Metrics and Events may be
// nil.
type Config struct {
	Sessions   *session.Manager
	Registry   *catalog.Registry
	Dispatcher *dispatch.Dispatcher
	Provider   llm.Provider
	Metrics    *metrics.Metrics
	Events     EventPublisher
	Logger     zerolog.Logger
	LLM        config.LLMConfig
}

// New creates an orchestrator. The tool specs advertised to the model are
// derived from the registry once, matching its read-only-after-startup rule.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}

	systemPrompt := cfg.LLM.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = llm.DefaultSystemPrompt
	}

	return &Orchestrator{
		sessions:     cfg.Sessions,
		registry:     cfg.Registry,
		normalizer:   normalize.New(cfg.Registry),
		dispatcher:   cfg.Dispatcher,
		provider:     cfg.Provider,
		metrics:      cfg.Metrics,
		events:       cfg.Events,
		logger:       cfg.Logger,
		model:        cfg.LLM.Model,
		temperature:  cfg.LLM.Temperature,
		maxTokens:    cfg.LLM.MaxTokens,
		systemPrompt: systemPrompt,
		toolSpecs:    llm.SpecsFromCatalog(cfg.Registry),
	}, nil
}

// Turn processes one user message for a session and returns the reply.
// The session is locked for the duration; concurrent turns on the same
// session queue behind each other.
func (o *Orchestrator) Turn(ctx context.Context, sessionKey, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("message cannot be empty")
	}

	if tracing.GetTraceID(ctx) == "" {
		ctx = tracing.NewRequestContext(ctx)
	}
	ctx = tracing.WithSessionKey(ctx, sessionKey)
	logger := tracing.LoggerFromContext(ctx, o.logger)

	state, release, err := o.sessions.Acquire(sessionKey)
	if err != nil {
		return Result{}, err
	}
	defer release()

	if o.metrics != nil {
		o.metrics.TurnsTotal.Inc()
	}

	o.appendUser(state, sessionKey, text)

	if state.Guard().State() == guard.StateAwaitingConfirmation {
		result, done := o.resolveConfirmation(ctx, logger, state, sessionKey, text)
		if done {
			return result, nil
		}
		// Abandoned: the pending call is gone, the message is a fresh
		// request and falls through to the normal path.
	}

	return o.processMessage(ctx, logger, state, sessionKey, text)
}

// resolveConfirmation handles a reply while a destructive call is pending.
// It returns done=false only for abandonment, which hands the message back
// to the normal path.
func (o *Orchestrator) resolveConfirmation(ctx context.Context, logger zerolog.Logger, state *session.State, sessionKey, text string) (Result, bool) {
	decision, pending := state.Guard().Resolve(text)
	state.Persist()

	if o.metrics != nil {
		o.metrics.ConfirmationsTotal.WithLabelValues(string(decision)).Inc()
	}
	o.publish(sessionKey, Event{
		Type: EventConfirmationResolved,
		Tool: pending.Call.Name,
		Text: string(decision),
	})

	switch decision {
	case guard.DecisionApprove:
		logger.Info().Str("tool", pending.Call.Name).Msg("Destructive call approved")
		outcome := o.executePending(ctx, state, sessionKey, pending)
		reply := o.summarize(ctx, logger, state, sessionKey, nil, []dispatch.Outcome{outcome})
		return Result{Reply: reply, Outcomes: []dispatch.Outcome{outcome}}, true

	case guard.DecisionReject:
		logger.Info().Str("tool", pending.Call.Name).Msg("Destructive call rejected")
		reply := fmt.Sprintf("Okay, I won't run %s. Nothing was changed.", pending.Call.Name)
		o.appendAssistant(state, sessionKey, reply)
		return Result{Reply: reply}, true

	default:
		logger.Info().Str("tool", pending.Call.Name).Msg("Pending confirmation abandoned")
		return Result{}, false
	}
}

// executePending re-normalizes and dispatches an approved call. The
// re-normalization re-types arguments that lost their kinds in the state
// file round trip (JSON has no int64) and re-checks placeholders against
// the current catalog.
func (o *Orchestrator) executePending(ctx context.Context, state *session.State, sessionKey string, pending *guard.PendingConfirmation) dispatch.Outcome {
	call := llm.ToolCall{
		ID:        pending.Call.ID,
		Name:      pending.Call.Name,
		Arguments: pending.Call.Arguments,
	}

	normalized, err := o.normalizer.Normalize(call, state.ActiveCourseID())
	if err != nil {
		return dispatch.Outcome{Tool: pending.Call.Name, Error: err.Error()}
	}
	return o.execute(ctx, sessionKey, normalized)
}

// processMessage runs the tool-calling path for a fresh user message.
func (o *Orchestrator) processMessage(ctx context.Context, logger zerolog.Logger, state *session.State, sessionKey, text string) (Result, error) {
	response, err := o.complete(ctx, llm.Request{
		Model:        o.model,
		Messages:     state.History(),
		Tools:        o.toolSpecs,
		Temperature:  o.temperature,
		MaxTokens:    o.maxTokens,
		SystemPrompt: o.systemPrompt,
	})
	if err != nil {
		return Result{}, fmt.Errorf("model request failed: %w", err)
	}

	toolCalls := response.ToolCalls
	if len(toolCalls) == 0 {
		if reply := strings.TrimSpace(response.Content); reply != "" {
			o.appendAssistant(state, sessionKey, reply)
			return Result{Reply: reply}, nil
		}
		fallback, ok := fallbackCall(text)
		if !ok {
			reply := "I couldn't work out what to do with that. Could you rephrase it?"
			o.appendAssistant(state, sessionKey, reply)
			return Result{Reply: reply}, nil
		}
		logger.Info().Str("tool", fallback.Name).Msg("Model returned nothing, using fallback tool")
		toolCalls = []llm.ToolCall{fallback}
	}

	outcomes := make([]dispatch.Outcome, 0, len(toolCalls))
	processed := make([]llm.ToolCall, 0, len(toolCalls))

	for i, call := range toolCalls {
		normalized, err := o.normalizer.Normalize(call, state.ActiveCourseID())
		if err != nil {
			// Validation and placeholder failures go back to the model as
			// tool errors so the summary can ask for the missing pieces.
			logger.Warn().Str("tool", call.Name).Err(err).Msg("Tool call failed normalization")
			outcomes = append(outcomes, dispatch.Outcome{Tool: call.Name, Error: err.Error()})
			processed = append(processed, call)
			continue
		}

		if def, ok := o.registry.Get(normalized.Name); ok && def.Destructive {
			pending := state.Guard().Hold(normalized)
			state.Persist()

			if o.metrics != nil {
				o.metrics.ConfirmationsTotal.WithLabelValues("requested").Inc()
			}
			o.publish(sessionKey, Event{Type: EventConfirmationRequested, Tool: normalized.Name})

			if discarded := len(toolCalls) - i - 1; discarded > 0 {
				logger.Info().Int("discarded", discarded).Msg("Discarding calls behind confirmation pause")
			}

			reply := confirmationPrompt(pending)
			o.appendAssistant(state, sessionKey, reply)
			return Result{Reply: reply, AwaitingConfirmation: true, Outcomes: outcomes}, nil
		}

		outcomes = append(outcomes, o.execute(ctx, sessionKey, normalized))
		processed = append(processed, call)
	}

	reply := o.summarize(ctx, logger, state, sessionKey, processed, outcomes)
	return Result{Reply: reply, Outcomes: outcomes}, nil
}

// execute dispatches one normalized call and publishes its event.
func (o *Orchestrator) execute(ctx context.Context, sessionKey string, call normalize.NormalizedCall) dispatch.Outcome {
	outcome := o.dispatcher.Execute(tracing.WithToolName(ctx, call.Name), call)
	o.publish(sessionKey, Event{
		Type:    EventToolExecuted,
		Tool:    outcome.Tool,
		Success: outcome.Success,
		Text:    outcome.Error,
	})
	return outcome
}

// summarize folds the outcomes into a transient message list and asks the
// model for the final reply. A model failure here degrades to a plain
// rendering of the outcomes rather than losing the turn.
func (o *Orchestrator) summarize(ctx context.Context, logger zerolog.Logger, state *session.State, sessionKey string, calls []llm.ToolCall, outcomes []dispatch.Outcome) string {
	messages := make([]llm.Message, len(state.History()), len(state.History())+len(outcomes)+1)
	copy(messages, state.History())

	if len(calls) > 0 {
		messages = append(messages, llm.Message{Role: "assistant", ToolCalls: calls})
		for i, outcome := range outcomes {
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    renderOutcome(outcome),
				ToolCallID: calls[i].ID,
			})
		}
	} else {
		// Confirmation approvals have no originating assistant tool-call
		// message, so the outcome rides in as plain context.
		for _, outcome := range outcomes {
			messages = append(messages, llm.Message{
				Role:    "user",
				Content: fmt.Sprintf("[tool result] %s", renderOutcome(outcome)),
			})
		}
	}

	response, err := o.complete(ctx, llm.Request{
		Model:        o.model,
		Messages:     messages,
		Temperature:  o.temperature,
		MaxTokens:    o.maxTokens,
		SystemPrompt: o.systemPrompt,
	})

	var reply string
	if err != nil || strings.TrimSpace(response.Content) == "" {
		if err != nil {
			logger.Warn().Err(err).Msg("Summary request failed, rendering outcomes directly")
		}
		reply = renderOutcomes(outcomes)
	} else {
		reply = strings.TrimSpace(response.Content)
	}

	o.appendAssistant(state, sessionKey, reply)
	return reply
}

func (o *Orchestrator) complete(ctx context.Context, request llm.Request) (*llm.Response, error) {
	response, err := o.provider.Complete(ctx, request)

	if o.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		o.metrics.LLMRequestsTotal.WithLabelValues(o.provider.Name(), status).Inc()
	}

	return response, err
}

func (o *Orchestrator) appendUser(state *session.State, sessionKey, text string) {
	state.AppendHistory(llm.Message{Role: "user", Content: text})
	if err := o.sessions.AppendMessage(sessionKey, session.Message{Role: "user", Content: text}); err != nil {
		o.logger.Warn().Str("session_key", sessionKey).Err(err).Msg("Failed to append user message to transcript")
	}
}

func (o *Orchestrator) appendAssistant(state *session.State, sessionKey, text string) {
	state.AppendHistory(llm.Message{Role: "assistant", Content: text})
	if err := o.sessions.AppendMessage(sessionKey, session.Message{Role: "assistant", Content: text}); err != nil {
		o.logger.Warn().Str("session_key", sessionKey).Err(err).Msg("Failed to append assistant message to transcript")
	}
}

func (o *Orchestrator) publish(sessionKey string, event Event) {
	if o.events != nil {
		o.events.Publish(sessionKey, event)
	}
}

// confirmationPrompt renders the held call for the user. Arguments are
// listed sorted so the prompt is stable.
func confirmationPrompt(pending *guard.PendingConfirmation) string {
	keys := make([]string, 0, len(pending.Call.Arguments))
	for key := range pending.Call.Arguments {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, pending.Call.Arguments[key]))
	}

	return fmt.Sprintf("This will run %s (%s), which cannot be undone. Reply \"yes\" to proceed or \"no\" to cancel.",
		pending.Call.Name, strings.Join(parts, ", "))
}

// renderOutcome serializes one outcome for the model's second pass.
func renderOutcome(outcome dispatch.Outcome) string {
	if !outcome.Success {
		return fmt.Sprintf(`{"tool": %q, "error": %q}`, outcome.Tool, outcome.Error)
	}

	payload, err := json.Marshal(outcome.Payload)
	if err != nil {
		payload = []byte(`"unrenderable payload"`)
	}
	return fmt.Sprintf(`{"tool": %q, "result": %s}`, outcome.Tool, payload)
}

// renderOutcomes is the degraded reply used when the summary pass fails.
func renderOutcomes(outcomes []dispatch.Outcome) string {
	if len(outcomes) == 0 {
		return "Nothing was executed."
	}

	lines := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Success {
			lines = append(lines, fmt.Sprintf("%s completed.", outcome.Tool))
		} else {
			lines = append(lines, fmt.Sprintf("%s failed: %s", outcome.Tool, outcome.Error))
		}
	}
	return strings.Join(lines, "\n")
}

// fallbackCall maps a handful of unmistakable intents to a read-only tool
// when the model returns neither text nor calls. It is deliberately narrow.
func fallbackCall(text string) (llm.ToolCall, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "course") &&
		(strings.Contains(lower, "list") || strings.Contains(lower, "show") || strings.Contains(lower, "what are my")) {
		return llm.ToolCall{ID: "fallback_list_courses", Name: "list_courses", Arguments: map[string]any{}}, true
	}
	return llm.ToolCall{}, false
}
