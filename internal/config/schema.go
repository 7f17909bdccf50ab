package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed permissions.schema.json
var schemaSource []byte

// schemaURL matches the $id of the embedded schema.
const schemaURL = "https://github.com/dgerlanc/ccgate/permissions.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// ValidateSchema checks a decoded permission document against the
// embedded schema. TOML and YAML documents are normalized through JSON
// first so every format is validated the same way.
func ValidateSchema(doc map[string]any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	var normalized any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&normalized); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	if err := schema.Validate(normalized); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("schema validation failed: %w", &SchemaError{Causes: flatten(verr)})
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// SchemaError lists the leaf violations of a failed validation.
type SchemaError struct {
	Causes []string
}

func (e *SchemaError) Error() string {
	if len(e.Causes) == 1 {
		return e.Causes[0]
	}
	return fmt.Sprintf("%d violations, first: %s", len(e.Causes), e.Causes[0])
}

func flatten(verr *jsonschema.ValidationError) []string {
	var causes []string
	for _, unit := range verr.BasicOutput().Errors {
		if unit.Error == "" {
			continue
		}
		loc := unit.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		causes = append(causes, fmt.Sprintf("%s: %s", loc, unit.Error))
	}
	if len(causes) == 0 {
		causes = append(causes, verr.Error())
	}
	return causes
}
