package formats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "level.schema.json"

//go:embed level.schema.json
var levelSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// LevelSchema returns the compiled level schema.
func LevelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(levelSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("adding level schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling level schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateSchema checks a YAML level document against the level schema.
func ValidateSchema(data []byte) error {
	s, err := LevelSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting level to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("converting level to json: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("level schema: %w", err)
	}
	return nil
}
