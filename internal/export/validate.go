package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *openapi3.Schema
	schemaErr  error
)

func loadSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(schemaJSON)
		if err != nil {
			schemaErr = fmt.Errorf("load analysis schema: %w", err)
			return
		}
		if doc.Components == nil {
			schemaErr = fmt.Errorf("analysis schema has no components")
			return
		}
		ref, ok := doc.Components.Schemas["Analysis"]
		if !ok || ref.Value == nil {
			schemaErr = fmt.Errorf("analysis schema is missing the Analysis component")
			return
		}
		schema = ref.Value
	})
	return schema, schemaErr
}

// Validate checks serialized analysis JSON against the format schema.
func Validate(data []byte) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("analysis output is not valid JSON: %w", err)
	}

	if err := s.VisitJSON(value); err != nil {
		return fmt.Errorf("analysis output violates schema: %w", err)
	}
	return nil
}
