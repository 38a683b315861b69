// Package schemas provides JSON Schema validation of service response bodies.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/skill-diagnostic/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("validation against %s failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled schema that can validate many documents.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses schema content once for repeated validation.
func Compile(name, content string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    name,
			Message: "schema compilation failed",
			Cause:   err,
		}
	}
	return &Schema{name: name, schema: s}, nil
}

// Validate checks a JSON document against the schema.
// The document must already be syntactically valid JSON.
func (s *Schema) Validate(doc []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &SchemaLoadError{
			Path:    s.name,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	return toValidationError(s.name, result)
}

var (
	responseOnce    sync.Once
	responseSchemas map[string]*Schema
	responseErr     error
)

// Response returns the compiled embedded schema with the given file name
// (see the constants in the root schemas package).
func Response(name string) (*Schema, error) {
	responseOnce.Do(func() {
		responseSchemas = make(map[string]*Schema)
		for _, n := range schemafiles.Names() {
			content, err := schemafiles.Read(n)
			if err != nil {
				responseErr = &SchemaLoadError{Path: n, Message: "embedded schema missing", Cause: err}
				return
			}
			compiled, err := Compile(n, content)
			if err != nil {
				responseErr = err
				return
			}
			responseSchemas[n] = compiled
		}
	})
	if responseErr != nil {
		return nil, responseErr
	}

	s, ok := responseSchemas[name]
	if !ok {
		return nil, &SchemaLoadError{Path: name, Message: "unknown response schema"}
	}
	return s, nil
}

func toValidationError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
