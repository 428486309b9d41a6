package appconfig

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the shape of the configuration file. Values coming from
// flags or the environment are checked after decoding by Config.Validate.
var configSchema = map[string]any{
	"type":     "object",
	"required": []any{"providers"},
	"properties": map[string]any{
		"prompt":          map[string]any{"type": "string"},
		"num_runs":        map[string]any{"type": "integer", "minimum": 1},
		"timeout":         map[string]any{"type": "integer"},
		"max_concurrency": map[string]any{"type": "integer", "minimum": 0},
		"log_file":        map[string]any{"type": "string"},
		"debug":           map[string]any{"type": "boolean"},
		"no_progress":     map[string]any{"type": "boolean"},
		"format":          map[string]any{"type": "string", "enum": []any{"table", "json"}},
		"providers": map[string]any{
			"type":          "object",
			"minProperties": 1,
			"additionalProperties": map[string]any{
				"type":     "object",
				"required": []any{"name", "base_url"},
				"properties": map[string]any{
					"name":     map[string]any{"type": "string", "minLength": 1},
					"type":     map[string]any{"type": "string"},
					"base_url": map[string]any{"type": "string", "minLength": 1},
					"api_key":  map[string]any{"type": "string"},
					"models": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "minLength": 1},
					},
				},
			},
		},
	},
}

// validateSettings checks settings against configSchema and converts every
// schema violation into a ConfigurationError.
func validateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(configSchema), gojsonschema.NewGoLoader(settings))
	if err != nil {
		return &ConfigurationError{Field: "config", Reason: fmt.Sprintf("schema validation failed: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, &ConfigurationError{Field: desc.Field(), Reason: desc.Description()})
	}
	return errors.Join(errs...)
}
