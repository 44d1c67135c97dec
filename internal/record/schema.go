package record

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const handSchemaURL = "https://handgen.dev/schemas/hand.json"

// SchemaValidator validates raw hand JSON against the embedded JSON Schema.
// It complements the key-set validator: the schema also constrains value
// types and card codes, and can be handed to non-Go consumers of the format.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded hand schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	data, err := schemaFiles.ReadFile("schemas/hand.json")
	if err != nil {
		return nil, fmt.Errorf("read hand schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(handSchemaURL, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("add hand schema: %w", err)
	}
	schema, err := compiler.Compile(handSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile hand schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// ValidateBytes validates a single hand object in wire form.
func (v *SchemaValidator) ValidateBytes(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateHand marshals a typed hand and validates its wire form.
func (v *SchemaValidator) ValidateHand(h *Hand) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal hand: %w", err)
	}
	return v.ValidateBytes(data)
}
