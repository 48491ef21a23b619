// Package catalog holds the static registry of Canvas operations the
// assistant may invoke. The catalog is built once at startup and read-only
// afterwards; a duplicate tool name is a configuration error, not a runtime
// condition.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Kind is the declared type of a tool parameter
type Kind string

const (
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindString  Kind = "string"
	KindEnum    Kind = "enum"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// Parameter defines a single tool parameter
type Parameter struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	// Aliases are alternate names accepted from model output and resolved
	// to the canonical name during normalization.
	Aliases []string `json:"aliases,omitempty"`
	// Enum lists the allowed values for KindEnum parameters.
	Enum []string `json:"enum,omitempty"`
	// Items is the element kind for KindArray parameters; empty means string.
	Items Kind `json:"items,omitempty"`
}

// Handler executes a tool call with normalized, typed arguments
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Definition describes one Canvas operation
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	// Destructive operations require user confirmation before dispatch.
	Destructive bool    `json:"destructive"`
	Handler     Handler `json:"-"`
}

// Param returns the parameter with the given canonical name
func (d *Definition) Param(name string) (*Parameter, bool) {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i], true
		}
	}
	return nil, false
}

// Registry is the immutable-after-startup tool catalog
type Registry struct {
	mu      sync.RWMutex
	defs    map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	order   []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register adds a tool definition. Registering a duplicate name or an
// invalid definition is an error the caller must treat as fatal at startup.
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	schema, err := compileSchema(def)
	if err != nil {
		return fmt.Errorf("failed to compile schema for %s: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("duplicate tool name %q", def.Name)
	}

	r.defs[def.Name] = &def
	r.schemas[def.Name] = schema
	r.order = append(r.order, def.Name)

	log.Debug().Str("tool", def.Name).Bool("destructive", def.Destructive).Msg("Tool registered")

	return nil
}

// RegisterAll registers a batch of definitions, stopping at the first error
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a tool definition by name
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

// Schema returns the compiled JSON schema for a tool
func (r *Registry) Schema(name string) *gojsonschema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.schemas[name]
}

// List returns all definitions in registration order
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.defs)
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}

	seen := make(map[string]string)
	claim := func(name, owner string) error {
		if prev, taken := seen[name]; taken {
			return fmt.Errorf("parameter name %q of %s collides with %s", name, owner, prev)
		}
		seen[name] = owner
		return nil
	}

	for _, param := range def.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if param.Description == "" {
			return fmt.Errorf("parameter description cannot be empty for %s", param.Name)
		}

		switch param.Kind {
		case KindInteger, KindNumber, KindBoolean, KindString, KindObject:
		case KindArray:
			switch param.Items {
			case "", KindString, KindInteger, KindNumber, KindObject:
			default:
				return fmt.Errorf("invalid array item kind %q for %s", param.Items, param.Name)
			}
		case KindEnum:
			if len(param.Enum) == 0 {
				return fmt.Errorf("enum parameter %s needs allowed values", param.Name)
			}
		default:
			return fmt.Errorf("invalid parameter kind %q for %s", param.Kind, param.Name)
		}

		if err := claim(param.Name, param.Name); err != nil {
			return err
		}
		for _, alias := range param.Aliases {
			if err := claim(alias, param.Name); err != nil {
				return err
			}
		}
	}

	return nil
}

// compileSchema builds the JSON schema used to validate normalized arguments
// right before dispatch.
func compileSchema(def Definition) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.InputSchema()))
}

// InputSchema returns the tool's argument schema as a plain JSON-schema map,
// suitable both for compilation and for advertising the tool to a model.
func (d *Definition) InputSchema() map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for _, param := range d.Parameters {
		paramSchema := map[string]any{
			"description": param.Description,
		}

		switch param.Kind {
		case KindEnum:
			paramSchema["type"] = "string"
			paramSchema["enum"] = param.Enum
		case KindArray:
			items := param.Items
			if items == "" {
				items = KindString
			}
			paramSchema["type"] = "array"
			paramSchema["items"] = map[string]any{"type": string(items)}
		default:
			paramSchema["type"] = string(param.Kind)
		}

		if param.Default != nil {
			paramSchema["default"] = param.Default
		}

		properties[param.Name] = paramSchema
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schemaMap := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		schemaMap["required"] = required
	}

	return schemaMap
}
