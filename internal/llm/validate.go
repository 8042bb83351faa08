package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// CompileSchema compiles schemaMap once so it can be reused across requests.
func CompileSchema(name string, schemaMap map[string]any) (*Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompileSchema is CompileSchema for package-level schemas built in code.
func MustCompileSchema(name string, schemaMap map[string]any) *Schema {
	s, err := CompileSchema(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a JSON document against the schema.
func (s *Schema) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match %s: %w", s.name, err)
	}
	return nil
}
