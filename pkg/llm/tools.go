package llm

import "github.com/raihanp/canvassist/pkg/catalog"

// SpecsFromCatalog converts registered tool definitions into the
// provider-neutral wire form, preserving registration order.
func SpecsFromCatalog(registry *catalog.Registry) []ToolSpec {
	defs := registry.List()
	specs := make([]ToolSpec, 0, len(defs))
	for _, def := range defs {
		specs = append(specs, ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	return specs
}
