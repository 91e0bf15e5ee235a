package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DuplicateToolError indicates two tools were registered under the same
// name. This is a programming defect and should fail fast at startup.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// SchemaValidationError indicates a tool was invoked with input that
// fails its declared schema, or with a name no tool is registered
// under. Recoverable: the caller may ask the model to retry with
// corrected arguments or surface a rephrase prompt.
type SchemaValidationError struct {
	// Tool is the tool name the invocation targeted.
	Tool string

	// Fields lists the JSON pointer locations that failed validation.
	// Empty when the tool name itself was unknown.
	Fields []string

	Err error
}

func (e *SchemaValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("tool %q: invalid input at %s: %v", e.Tool, strings.Join(e.Fields, ", "), e.Err)
	}
	return fmt.Sprintf("tool %q: invalid invocation: %v", e.Tool, e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// ContractViolationError indicates a tool handler produced output that
// violates its own declared schema. This is an internal defect: the
// caller logs it and drops the tool result rather than forwarding the
// malformed payload.
type ContractViolationError struct {
	Tool   string
	Output json.RawMessage
	Err    error
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("tool %q: handler output violates contract: %v", e.Tool, e.Err)
}

func (e *ContractViolationError) Unwrap() error {
	return e.Err
}
