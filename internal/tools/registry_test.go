package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func echoHandler(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return input, nil
}

func simpleDef(name string) Definition {
	return Definition{
		Name:        name,
		Description: "test tool " + name,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{"type": "string"},
			},
			"required": []any{"value"},
		},
		OutputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{"type": "string"},
			},
			"required": []any{"value"},
		},
		Handler: echoHandler,
	}
}

func TestRegistry_DescribeReturnsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"explainConcept", "createStory", "createVisualAid", "addStudent"}
	for _, name := range names {
		if err := reg.Register(simpleDef(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	// Order must be stable across calls.
	for i := 0; i < 3; i++ {
		manifest := reg.Describe()
		if len(manifest) != len(names) {
			t.Fatalf("expected %d entries, got %d", len(names), len(manifest))
		}
		for j, name := range names {
			if manifest[j].Name != name {
				t.Fatalf("call %d entry %d: expected %q, got %q", i, j, name, manifest[j].Name)
			}
		}
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(simpleDef("explainConcept")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := reg.Register(simpleDef("explainConcept"))
	var dup *DuplicateToolError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateToolError, got: %v", err)
	}
	if dup.Name != "explainConcept" {
		t.Fatalf("expected name in error, got %q", dup.Name)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 tool after failed duplicate, got %d", reg.Len())
	}
}

func TestRegistry_RegisterRejectsIncomplete(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(Definition{Handler: echoHandler}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if err := reg.Register(Definition{Name: "noHandler"}); err == nil {
		t.Fatal("expected error for missing handler")
	}
}

func TestRegistry_InvokeValidInput(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(simpleDef("echo")); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := reg.Invoke(context.Background(), "echo", json.RawMessage(`{"value":"hi"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tool != "echo" {
		t.Fatalf("expected tool 'echo', got %q", result.Tool)
	}
	if string(result.Output) != `{"value":"hi"}` {
		t.Fatalf("unexpected output: %s", result.Output)
	}
}

func TestRegistry_InvokeUnknownToolFailsClosed(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Invoke(context.Background(), "deleteEverything", json.RawMessage(`{}`))
	var verr *SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got: %v", err)
	}
	if verr.Tool != "deleteEverything" {
		t.Fatalf("expected tool name in error, got %q", verr.Tool)
	}
}

func TestRegistry_InvokeInvalidInputNamesFields(t *testing.T) {
	reg := NewRegistry()
	def := Definition{
		Name:        "addSubjectToStudent",
		Description: "add a subject with a gpa",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"studentName": map[string]any{"type": "string"},
				"subject":   map[string]any{"type": "string"},
				"gpa": map[string]any{
					"type":    "number",
					"minimum": 0.0,
					"maximum": 5.0,
				},
			},
			"required": []any{"studentName", "subject", "gpa"},
		},
	}
	called := false
	def.Handler = func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		called = true
		return input, nil
	}
	if err := reg.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := reg.Invoke(context.Background(), "addSubjectToStudent",
		json.RawMessage(`{"studentName":"s1","subject":"Math","gpa":7.0}`))
	var verr *SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got: %v", err)
	}
	found := false
	for _, f := range verr.Fields {
		if strings.Contains(f, "gpa") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected gpa in violating fields, got %v", verr.Fields)
	}
	if called {
		t.Fatal("handler must not run on invalid input")
	}
}

func TestRegistry_InvokeHandlerError(t *testing.T) {
	reg := NewRegistry()
	wantErr := fmt.Errorf("upstream down")
	def := simpleDef("flaky")
	def.Handler = func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		return nil, wantErr
	}
	if err := reg.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := reg.Invoke(context.Background(), "flaky", json.RawMessage(`{"value":"x"}`))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error to propagate, got: %v", err)
	}
}

func TestRegistry_InvokeContractViolation(t *testing.T) {
	reg := NewRegistry()
	def := simpleDef("broken")
	def.Handler = func(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"wrong":"shape"}`), nil
	}
	if err := reg.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := reg.Invoke(context.Background(), "broken", json.RawMessage(`{"value":"x"}`))
	var cerr *ContractViolationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ContractViolationError, got: %v", err)
	}
	if cerr.Tool != "broken" {
		t.Fatalf("expected tool name, got %q", cerr.Tool)
	}
	if string(cerr.Output) != `{"wrong":"shape"}` {
		t.Fatalf("expected offending output in error, got %s", cerr.Output)
	}
}

func TestRegistry_SchemasScopedPerRegistry(t *testing.T) {
	requiring := func(field string) Definition {
		return Definition{
			Name:        "lookupStudent",
			Description: "test tool",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					field: map[string]any{"type": "string"},
				},
				"required": []any{field},
			},
			Handler: echoHandler,
		}
	}

	regA := NewRegistry()
	if err := regA.Register(requiring("alpha")); err != nil {
		t.Fatalf("register A: %v", err)
	}
	regB := NewRegistry()
	if err := regB.Register(requiring("beta")); err != nil {
		t.Fatalf("register B: %v", err)
	}

	// Warm A's compiled-schema cache, then invoke the same name on B.
	// B must validate against its own schema, not A's.
	if _, err := regA.Invoke(context.Background(), "lookupStudent", json.RawMessage(`{"alpha":"x"}`)); err != nil {
		t.Fatalf("invoke A: %v", err)
	}
	if _, err := regB.Invoke(context.Background(), "lookupStudent", json.RawMessage(`{"beta":"y"}`)); err != nil {
		t.Fatalf("invoke B with B's required field: %v", err)
	}
	if _, err := regB.Invoke(context.Background(), "lookupStudent", json.RawMessage(`{"alpha":"x"}`)); err == nil {
		t.Fatal("expected B to reject input satisfying only A's schema")
	}
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	NewRegistry().MustRegister(simpleDef("a"), simpleDef("a"))
}
