// Package cfgloader loads configuration structures from yaml/json files and
// environment variables, with optional JSON-schema validation.
package cfgloader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// LoadFromPath loads a yaml or json file into target. A non-nil schema is
// applied to the document before decoding; validation failures surface as
// SchemaValidationError. A missing file is reported via the wrapped os error,
// so callers can check errors.Is(err, os.ErrNotExist).
func LoadFromPath(path string, target any, schema []byte) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	ext := filepath.Ext(path)

	var unmarshal func([]byte, any) error
	switch ext {
	case ".yaml", ".yml":
		unmarshal = func(b []byte, v any) error { return yaml.Unmarshal(b, v) }
	case ".json":
		unmarshal = func(b []byte, v any) error { return json.Unmarshal(b, v) }
	default:
		return fmt.Errorf("unsupported file extension: %q", ext)
	}

	if schema != nil {
		if err := validate(b, unmarshal, schema); err != nil {
			return err
		}
	}

	if err := unmarshal(b, target); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	return nil
}

// LoadFromEnv populates target from environment variables prefixed with
// prefix, e.g. APP_FOO for prefix "APP" and an `envconfig:"FOO"` tag.
func LoadFromEnv(prefix string, target any) error {
	if err := envconfig.Process(prefix, target); err != nil {
		return fmt.Errorf("process env vars: %w", err)
	}

	return nil
}

func validate(b []byte, unmarshal func([]byte, any) error, schema []byte) error {
	doc := make(map[string]any)
	if err := unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if !res.Valid() {
		return SchemaValidationError{Result: res}
	}

	return nil
}
