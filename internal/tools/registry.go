package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Handler executes one tool invocation. Input has already been
// validated against the tool's input schema when the handler runs.
type Handler func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// Definition declares one named, schema-typed capability a routing
// model may choose to invoke. Immutable once registered.
type Definition struct {
	// Name is the unique key the model calls the tool by.
	Name string

	// Description is read by the routing model to decide applicability.
	Description string

	// InputSchema is the JSON Schema the invocation arguments must satisfy.
	InputSchema map[string]any

	// OutputSchema is the JSON Schema the handler's return value must satisfy.
	OutputSchema map[string]any

	Handler Handler
}

// Descriptor is one manifest entry exposed to the routing model.
type Descriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Result is the validated output of one successful invocation.
type Result struct {
	Tool   string
	Output json.RawMessage
}

// Registry holds a fixed set of tools keyed by name. Tools are
// registered once at startup; after that the registry is read-only and
// safe for concurrent Describe and Invoke calls.
type Registry struct {
	defs  map[string]Definition
	order []string

	// schemas caches compiled schemas keyed by "<tool>/<side>",
	// scoped to this registry's definitions.
	schemas sync.Map // map[string]*jsonschema.Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds one tool. Returns *DuplicateToolError if the name is
// already taken.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", def.Name)
	}
	if _, exists := r.defs[def.Name]; exists {
		return &DuplicateToolError{Name: def.Name}
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister registers each definition and panics on error. For
// startup wiring where a registration failure is a programming defect.
func (r *Registry) MustRegister(defs ...Definition) *Registry {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Describe returns the tool manifest in registration order. The order
// is stable across calls; models may be sensitive to it when breaking
// ties between similar tools.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		out = append(out, Descriptor{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Invoke validates rawInput against the named tool's input schema,
// runs the handler, and validates the handler's output against the
// output schema. An unknown name fails closed with
// *SchemaValidationError rather than panicking: the name came from a
// model, not from trusted code.
func (r *Registry) Invoke(ctx context.Context, name string, rawInput json.RawMessage) (*Result, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, &SchemaValidationError{
			Tool: name,
			Err:  fmt.Errorf("unknown tool"),
		}
	}

	if err := r.validateAgainst(def.Name, "input", def.InputSchema, rawInput); err != nil {
		return nil, &SchemaValidationError{
			Tool:   name,
			Fields: violatingFields(err),
			Err:    err,
		}
	}

	output, err := def.Handler(ctx, rawInput)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}

	if err := r.validateAgainst(def.Name, "output", def.OutputSchema, output); err != nil {
		return nil, &ContractViolationError{
			Tool:   name,
			Output: output,
			Err:    err,
		}
	}

	return &Result{Tool: name, Output: output}, nil
}
