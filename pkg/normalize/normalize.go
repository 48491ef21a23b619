// Package normalize turns raw model tool calls into validated, typed
// argument sets. Model output is untrusted: parameter names drift, numbers
// arrive as strings, and template placeholders leak through. Every call
// passes this pipeline before it can be confirmed or dispatched.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/raihanp/canvassist/pkg/catalog"
	"github.com/raihanp/canvassist/pkg/llm"
)

// NormalizedCall is a tool call whose arguments have passed alias
// resolution, type coercion, and placeholder screening.
type NormalizedCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// placeholderFragments are template markers models emit when they lack a
// real value. Matched case-insensitively anywhere in a string argument.
var placeholderFragments = []string{
	"<YOUR_", "<HTML_", "<INSERT_", "<COURSE_", "<PAGE_", "<MODULE_",
}

// Normalizer validates and coerces raw tool calls against the catalog.
type Normalizer struct {
	registry *catalog.Registry
}

// New creates a normalizer backed by the given catalog.
func New(registry *catalog.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize runs the full pipeline on one raw call. activeCourseID, when
// set, fills an absent course_id parameter so the user does not have to
// repeat the course on every message. Errors are *ValidationError or
// *PlaceholderError.
func (n *Normalizer) Normalize(call llm.ToolCall, activeCourseID *int64) (NormalizedCall, error) {
	def, ok := n.registry.Get(call.Name)
	if !ok {
		return NormalizedCall{}, &ValidationError{Tool: call.Name, Reason: "unknown tool"}
	}

	args := make(map[string]any, len(call.Arguments))
	for k, v := range call.Arguments {
		args[k] = v
	}

	resolveAliases(def, args)
	resolveIncludeItems(def, args)
	dropUnknown(def, args)
	injectCourseID(def, args, activeCourseID)

	for name, value := range args {
		param, _ := def.Param(name)

		coerced, err := coerceValue(param, value)
		if err != nil {
			return NormalizedCall{}, &ValidationError{Tool: def.Name, Param: name, Reason: err.Error()}
		}
		args[name] = coerced

		if err := screenPlaceholders(def.Name, name, coerced); err != nil {
			return NormalizedCall{}, err
		}
	}

	applyDefaults(def, args)

	if err := checkRequired(def, args); err != nil {
		return NormalizedCall{}, err
	}

	return NormalizedCall{ID: call.ID, Name: def.Name, Arguments: args}, nil
}

// resolveAliases renames known alternate parameter names to their canonical
// form. A canonical key already present wins over its alias.
func resolveAliases(def *catalog.Definition, args map[string]any) {
	for _, param := range def.Parameters {
		for _, alias := range param.Aliases {
			value, present := args[alias]
			if !present {
				continue
			}
			delete(args, alias)
			if _, taken := args[param.Name]; taken {
				continue
			}
			log.Debug().Str("tool", def.Name).Str("alias", alias).Str("param", param.Name).Msg("Resolved parameter alias")
			args[param.Name] = value
		}
	}
}

// resolveIncludeItems maps the include_items flag some models invent onto
// the include list the API actually takes.
func resolveIncludeItems(def *catalog.Definition, args map[string]any) {
	value, present := args["include_items"]
	if !present {
		return
	}
	if _, declared := def.Param("include_items"); declared {
		return
	}
	delete(args, "include_items")

	if _, hasInclude := def.Param("include"); !hasInclude {
		return
	}
	switch v := value.(type) {
	case bool:
		if v {
			args["include"] = []any{"items"}
		}
	case string:
		if v == "true" || v == "True" || v == "1" {
			args["include"] = []any{"items"}
		}
	}
}

// dropUnknown removes arguments that match no declared parameter.
func dropUnknown(def *catalog.Definition, args map[string]any) {
	for name := range args {
		if _, ok := def.Param(name); !ok {
			log.Warn().Str("tool", def.Name).Str("param", name).Msg("Dropped unknown argument")
			delete(args, name)
		}
	}
}

// injectCourseID fills course_id from the active course context when the
// tool takes one and the model left it empty.
func injectCourseID(def *catalog.Definition, args map[string]any, activeCourseID *int64) {
	if activeCourseID == nil {
		return
	}
	if _, ok := def.Param("course_id"); !ok {
		return
	}
	if present, ok := args["course_id"]; ok && !isEmptyValue(present) {
		return
	}
	args["course_id"] = *activeCourseID
	log.Debug().Str("tool", def.Name).Int64("course_id", *activeCourseID).Msg("Injected active course")
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	}
	return false
}

// coerceValue converts a raw argument to the parameter's declared kind.
// JSON decoding hands every number over as float64, and models frequently
// quote numbers and booleans, so both forms are accepted.
func coerceValue(param *catalog.Parameter, value any) (any, error) {
	switch param.Kind {
	case catalog.KindInteger:
		return coerceInteger(value)
	case catalog.KindNumber:
		return coerceNumber(value)
	case catalog.KindBoolean:
		return coerceBoolean(value)
	case catalog.KindString:
		return coerceString(value)
	case catalog.KindEnum:
		return coerceEnum(param, value)
	case catalog.KindObject:
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
		return nil, fmt.Errorf("expected an object, got %T", value)
	case catalog.KindArray:
		return coerceArray(value)
	}
	return nil, fmt.Errorf("unhandled parameter kind %q", param.Kind)
}

func coerceInteger(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", v)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("expected an integer, got %T", value)
}

func coerceNumber(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", v)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("expected a number, got %T", value)
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %q", v)
	case float64:
		if v == 0 {
			return false, nil
		}
		if v == 1 {
			return true, nil
		}
	}
	return nil, fmt.Errorf("expected a boolean, got %T", value)
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("expected a string, got %T", value)
}

func coerceEnum(param *catalog.Parameter, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected one of %s, got %T", strings.Join(param.Enum, ", "), value)
	}
	for _, allowed := range param.Enum {
		if strings.EqualFold(s, allowed) {
			return allowed, nil
		}
	}
	return nil, fmt.Errorf("expected one of %s, got %q", strings.Join(param.Enum, ", "), s)
}

func coerceArray(value any) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case string:
		return []any{v}, nil
	}
	return nil, fmt.Errorf("expected an array, got %T", value)
}

// screenPlaceholders rejects template-like string values. Real HTML content
// is allowed; a lone <LIKE_THIS> tag with no closing element is not.
func screenPlaceholders(tool, param string, value any) error {
	check := func(s string) error {
		upper := strings.ToUpper(s)
		for _, fragment := range placeholderFragments {
			if strings.Contains(upper, fragment) {
				return &PlaceholderError{Tool: tool, Param: param, Value: s}
			}
		}
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") && !strings.Contains(trimmed, "</") {
			return &PlaceholderError{Tool: tool, Param: param, Value: s}
		}
		return nil
	}

	var walk func(v any) error
	walk = func(v any) error {
		switch t := v.(type) {
		case string:
			return check(t)
		case []any:
			for _, item := range t {
				if err := walk(item); err != nil {
					return err
				}
			}
		case map[string]any:
			for _, item := range t {
				if err := walk(item); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(value)
}

// applyDefaults fills declared defaults for absent parameters.
func applyDefaults(def *catalog.Definition, args map[string]any) {
	for _, param := range def.Parameters {
		if param.Default == nil {
			continue
		}
		if _, present := args[param.Name]; !present {
			args[param.Name] = param.Default
		}
	}
}

// checkRequired reports the first required parameter that is absent or
// blank after coercion and defaulting. A blank value counts as a
// placeholder: the model supplied the parameter but not a real value.
func checkRequired(def *catalog.Definition, args map[string]any) error {
	for _, param := range def.Parameters {
		if !param.Required {
			continue
		}
		value, present := args[param.Name]
		if !present {
			return &ValidationError{Tool: def.Name, Param: param.Name, Reason: "required parameter is missing"}
		}
		if isEmptyValue(value) {
			return &PlaceholderError{Tool: def.Name, Param: param.Name, Value: fmt.Sprintf("%v", value)}
		}
	}
	return nil
}
