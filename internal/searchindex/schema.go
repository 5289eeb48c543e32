package searchindex

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://docindex.dev/schema/search-index.json"

// artifactSchema describes the wire shape: one array-valued key whose items
// carry the five string fields of a record
const artifactSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "minProperties": 1,
  "maxProperties": 1,
  "additionalProperties": {
    "type": "array",
    "items": {
      "type": "object",
      "required": ["location", "page", "title", "text", "category"],
      "properties": {
        "location": {"type": "string", "minLength": 1},
        "page": {"type": "string"},
        "title": {"type": "string"},
        "text": {"type": "string"},
        "category": {"enum": ["page", "section"]}
      }
    }
  }
}`

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(artifactSchema))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateShape checks raw artifact bytes (wrapped or bare) against the
// artifact JSON Schema. Violations are returned as *ValidationErrors.
func ValidateShape(raw []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	_, body := Unwrap(raw)
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := sch.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationErrors{Errors: schemaErrors(verr)}
		}
		return &ValidationErrors{Errors: []ValidationError{{
			Code:    CodeSchema,
			Index:   -1,
			Message: err.Error(),
		}}}
	}
	return nil
}

// schemaErrors flattens the leaves of a jsonschema error tree
func schemaErrors(verr *jsonschema.ValidationError) []ValidationError {
	if len(verr.Causes) == 0 {
		return []ValidationError{{
			Code:    CodeSchema,
			Index:   recordIndex(verr.InstanceLocation),
			Message: fmt.Sprintf("/%s: %s", strings.Join(verr.InstanceLocation, "/"), verr.Error()),
		}}
	}

	var out []ValidationError
	for _, cause := range verr.Causes {
		out = append(out, schemaErrors(cause)...)
	}
	return out
}

// recordIndex extracts the array index from an instance location such as
// ["docs", "3", "category"]
func recordIndex(loc []string) int {
	if len(loc) < 2 {
		return -1
	}
	var idx int
	if _, err := fmt.Sscanf(loc[1], "%d", &idx); err != nil {
		return -1
	}
	return idx
}
