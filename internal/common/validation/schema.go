// internal/common/validation/schema.go

// Package validation checks worker job variables against the JSON schemas
// declared in the activity registry, so a malformed process variable fails
// fast with a field-level message instead of deep inside a handler.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"brv-workers/pkg/registry"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (r *ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	msg := "validation failed:"
	for _, e := range r.Errors {
		msg += fmt.Sprintf(" %s: %s;", e.Field, e.Message)
	}
	return msg
}

// ValidateAgainstSchema validates a payload against a JSON schema given as a
// decoded document (the registry stores schemas that way).
func ValidateAgainstSchema(payload map[string]interface{}, schema map[string]interface{}) (*ValidationResult, error) {
	if len(schema) == 0 {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluate schema: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return out, nil
}

// ValidateWorkerInput looks the task type up in the registry and validates
// the job variables against its declared input schema.
func ValidateWorkerInput(reg *registry.ActivityRegistry, taskType string, input map[string]interface{}) (*ValidationResult, error) {
	activity, err := reg.FindByTaskType(taskType)
	if err != nil {
		return nil, err
	}
	return ValidateAgainstSchema(input, activity.InputSchema)
}
