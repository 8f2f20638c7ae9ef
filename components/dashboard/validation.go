package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SelectionValidator checks a filter payload against the fields a view exposes.
type SelectionValidator interface {
	Validate(view string, fields []FilterField, selections Selections) error
}

// JSONSchemaValidator compiles one JSON Schema per distinct field set and
// validates selection payloads against it.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// SelectionSchema describes a selections object: every property is one of
// the field options (All included) and no other properties are allowed.
// Fields without resolved options accept any string.
func SelectionSchema(fields []FilterField) map[string]any {
	properties := make(map[string]any, len(fields))
	for _, field := range fields {
		property := map[string]any{"type": "string"}
		if len(field.Options) > 0 {
			property["enum"] = field.Options
		}
		properties[field.Name] = property
	}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

// Validate ensures the selections satisfy the schema derived from fields.
func (v *JSONSchemaValidator) Validate(view string, fields []FilterField, selections Selections) error {
	schema, err := v.schemaFor(view, fields)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	for key, value := range selections.Normalize() {
		payload[key] = value
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, view, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(view string, fields []FilterField) (*jsonschema.Schema, error) {
	key := view + "-" + configHash(fields)
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(SelectionSchema(fields))
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", view, err)
	}
	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", view, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", view, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}
