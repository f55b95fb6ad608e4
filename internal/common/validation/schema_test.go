// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brv-workers/pkg/registry"
)

func assignIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fileId":      map[string]interface{}{"type": "string", "minLength": 1},
			"fileName":    map[string]interface{}{"type": "string"},
			"candidateId": map[string]interface{}{"type": "string", "pattern": "^CAND-[0-9]{4}$"},
		},
		"required": []interface{}{"fileId", "candidateId"},
	}
}

func TestValidateAgainstSchemaValid(t *testing.T) {
	payload := map[string]interface{}{
		"fileId":      "file-1",
		"fileName":    "resume.pdf",
		"candidateId": "CAND-0001",
	}

	result, err := ValidateAgainstSchema(payload, assignIDSchema())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateAgainstSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing required field", map[string]interface{}{"candidateId": "CAND-0001"}},
		{"bad candidate ID pattern", map[string]interface{}{"fileId": "f1", "candidateId": "CAND-12"}},
		{"wrong type", map[string]interface{}{"fileId": 42, "candidateId": "CAND-0001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateAgainstSchema(tt.payload, assignIDSchema())
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.NotEmpty(t, result.Errors)
			assert.NotEmpty(t, result.Error())
		})
	}
}

func TestValidateAgainstSchemaEmptySchemaAllowsAnything(t *testing.T) {
	result, err := ValidateAgainstSchema(map[string]interface{}{"whatever": true}, nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateWorkerInput(t *testing.T) {
	reg := &registry.ActivityRegistry{
		Activities: []registry.Activity{
			{TaskType: "assign-candidate-id", InputSchema: assignIDSchema()},
		},
	}

	result, err := ValidateWorkerInput(reg, "assign-candidate-id", map[string]interface{}{
		"fileId": "f1", "candidateId": "CAND-0001",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = ValidateWorkerInput(reg, "unknown-task", map[string]interface{}{})
	assert.Error(t, err)
}
