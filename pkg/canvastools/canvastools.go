// Package canvastools binds the Canvas API client to the tool catalog:
// one Definition per operation the assistant may perform, with argument
// schemas, parameter aliases, and handler closures over the client.
package canvastools

import (
	"github.com/raihanp/canvassist/pkg/canvas"
	"github.com/raihanp/canvassist/pkg/catalog"
)

// Options tunes the generated definitions.
type Options struct {
	// DefaultAccountID is used by create_course when the model omits
	// account_id.
	DefaultAccountID int64
}

// Definitions returns the complete tool set bound to the given client:
// courses, modules, pages, assignments, quizzes, and discussions.
func Definitions(client *canvas.Client, opts Options) []catalog.Definition {
	if opts.DefaultAccountID == 0 {
		opts.DefaultAccountID = 1
	}

	var defs []catalog.Definition
	defs = append(defs, courseDefinitions(client, opts)...)
	defs = append(defs, moduleDefinitions(client)...)
	defs = append(defs, pageDefinitions(client)...)
	defs = append(defs, assignmentDefinitions(client)...)
	defs = append(defs, quizDefinitions(client)...)
	defs = append(defs, discussionDefinitions(client)...)
	return defs
}

// NewRegistry builds and populates a catalog registry with the full tool
// set. Registration errors mean a broken definition and are fatal.
func NewRegistry(client *canvas.Client, opts Options) (*catalog.Registry, error) {
	registry := catalog.NewRegistry()
	if err := registry.RegisterAll(Definitions(client, opts)); err != nil {
		return nil, err
	}
	return registry, nil
}

// courseIDParam is on almost every tool, so it is built once.
func courseIDParam() catalog.Parameter {
	return catalog.Parameter{
		Name:        "course_id",
		Kind:        catalog.KindInteger,
		Description: "The Canvas course ID",
		Required:    true,
	}
}
