package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// validateAgainst validates raw JSON against the given schema
// definition. A nil definition accepts anything. The cache belongs to
// the registry that owns the definition: two registries may register
// the same tool name with different schemas, so compiled entries must
// never be shared across registries. Definitions are immutable after
// registration, so entries within one registry never go stale.
func (r *Registry) validateAgainst(tool, side string, def map[string]any, raw json.RawMessage) error {
	if def == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := r.compileSchema(tool+"/"+side, def)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", side, err)
	}

	return compiled.Validate(parsed)
}

func (r *Registry) compileSchema(key string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := r.schemas.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value, so round-trip the map.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://tools/%s.json", key)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	r.schemas.Store(key, compiled)
	return compiled, nil
}

// violatingFields extracts the JSON pointer locations of the leaf
// validation failures, so callers can name the offending fields.
func violatingFields(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	var fields []string
	seen := make(map[string]bool)
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := "/" + strings.Join(e.InstanceLocation, "/")
			if !seen[loc] {
				seen[loc] = true
				fields = append(fields, loc)
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return fields
}
