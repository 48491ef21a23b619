// Package dispatch executes normalized tool calls and folds every result,
// success or failure, into an Outcome. Failures inside a call never escape
// as errors or panics; the conversation must always continue.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/raihanp/canvassist/internal/metrics"
	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/normalize"
)

// DefaultTimeout bounds a single tool execution.
const DefaultTimeout = 30 * time.Second

// Outcome is the terminal result of one tool call. Exactly one of Payload
// and Error is meaningful, selected by Success.
type Outcome struct {
	Tool     string        `json:"tool"`
	Success  bool          `json:"success"`
	Payload  any           `json:"payload,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Dispatcher runs normalized calls against the catalog.
type Dispatcher struct {
	registry *catalog.Registry
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// New creates a dispatcher. metrics may be nil.
func New(registry *catalog.Registry, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		metrics:  m,
		timeout:  DefaultTimeout,
	}
}

// Execute runs one call to completion and returns its outcome. The schema
// check is a final gate: normalization should already have produced
// conforming arguments, so a failure here points at a catalog bug rather
// than user input.
func (d *Dispatcher) Execute(ctx context.Context, call normalize.NormalizedCall) Outcome {
	start := time.Now()

	def, ok := d.registry.Get(call.Name)
	if !ok {
		return d.finish(call.Name, start, nil, fmt.Errorf("tool not found: %s", call.Name))
	}

	if err := d.validate(call); err != nil {
		log.Error().Str("tool", call.Name).Err(err).Msg("Argument validation failed")
		return d.finish(call.Name, start, nil, err)
	}

	log.Debug().Str("tool", call.Name).Msg("Executing tool")

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	payload, err := d.run(timeoutCtx, def, call.Arguments)
	return d.finish(call.Name, start, payload, err)
}

// run invokes the handler, converting a panic into an error.
func (d *Dispatcher) run(ctx context.Context, def *catalog.Definition, args map[string]any) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", def.Name).Any("panic", r).Msg("Tool handler panicked")
			err = fmt.Errorf("tool %s failed unexpectedly", def.Name)
		}
	}()
	return def.Handler(ctx, args)
}

func (d *Dispatcher) validate(call normalize.NormalizedCall) error {
	schema := d.registry.Schema(call.Name)
	if schema == nil {
		return fmt.Errorf("no schema for tool %s", call.Name)
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("invalid arguments for %s: %s", call.Name, first.String())
	}
	return nil
}

// finish builds the outcome, records metrics, and humanizes API errors.
func (d *Dispatcher) finish(tool string, start time.Time, payload any, err error) Outcome {
	duration := time.Since(start)

	outcome := Outcome{
		Tool:     tool,
		Duration: duration,
	}

	status := "success"
	if err != nil {
		status = "error"
		outcome.Error = describeError(tool, err)
		log.Error().Str("tool", tool).Dur("duration", duration).Err(err).Msg("Tool execution failed")
	} else {
		outcome.Success = true
		outcome.Payload = payload
		log.Debug().Str("tool", tool).Dur("duration", duration).Msg("Tool execution completed")
	}

	if d.metrics != nil {
		d.metrics.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
		d.metrics.ToolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
	}

	return outcome
}

// describeError renders an execution failure for the model and the user.
// Canvas API errors keep their HTTP status so the model can explain what
// went wrong (404 vs 401 read very differently).
func describeError(tool string, err error) string {
	var apiErr *canvas.APIError
	if errors.As(err, &apiErr) {
		// A zero status means the request never got an HTTP response.
		if apiErr.StatusCode == 0 {
			return fmt.Sprintf("network error while running %s: %s", tool, apiErr.Message)
		}
		return fmt.Sprintf("Canvas API error (HTTP %d) while running %s: %s", apiErr.StatusCode, tool, apiErr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("tool %s timed out", tool)
	}
	return err.Error()
}
