package normalize

import "fmt"

// ValidationError reports a tool call that cannot be executed as given:
// unknown tool, missing required parameter, or a value that cannot be
// coerced to the declared type. It is a user-facing condition, not a fault.
type ValidationError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid call to %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q for %s: %s", e.Param, e.Tool, e.Reason)
}

// PlaceholderError reports a template-like value the model emitted instead
// of a real one, such as <YOUR_COURSE_ID>. These calls must never reach the
// Canvas API.
type PlaceholderError struct {
	Tool  string
	Param string
	Value string
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("placeholder value for %q in %s: %s; provide an actual value", e.Param, e.Tool, e.Value)
}
