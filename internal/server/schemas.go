package server

import (
	"errors"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

var nullableString = map[string]any{"type": []any{"string", "null"}}

func extractionFieldsSchema() map[string]any {
	props := map[string]any{
		"wordCount":       map[string]any{"type": "integer", "minimum": 0},
		"isImageBasedPdf": map[string]any{"type": "boolean"},
		"userId":          nullableString,
		"filePath":        nullableString,
	}
	for _, f := range constants.Fields() {
		props[string(f)] = nullableString
	}
	return map[string]any{"type": "object", "properties": props}
}

var (
	saveSchema = common.MustCompileSchema("save_contract.json", map[string]any{
		"type":     "object",
		"required": []any{"extractedData"},
		"properties": map[string]any{
			"extractedData": extractionFieldsSchema(),
			"userId":        map[string]any{"type": "string"},
			"filePath":      map[string]any{"type": "string"},
		},
	})

	updateSchema = common.MustCompileSchema("update_contract.json", map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"contractHolderName": nullableString,
			"contractIdentifier": nullableString,
			"renewalDate":        nullableString,
			"serviceProduct":     nullableString,
			"contactEmail":       nullableString,
			"filePath":           nullableString,
		},
	})

	reminderSchema = common.MustCompileSchema("schedule_reminder.json", map[string]any{
		"type":     "object",
		"required": []any{"renewalDate", "daysBeforeRenewal", "enabled"},
		"properties": map[string]any{
			"renewalDate":       map[string]any{"type": "string", "minLength": 1},
			"daysBeforeRenewal": map[string]any{"type": "integer", "minimum": 0},
			"enabled":           map[string]any{"type": "boolean"},
		},
	})
)

// validateBody checks raw JSON against schema and reports an INVALID_INPUT error.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	if err := common.ValidateJSON(schema, body); err != nil {
		return common.NewInvalidInputError(schemaMessage(err))
	}
	return nil
}

// schemaMessage keeps the most specific schema violation.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		if leaf.InstanceLocation != "" {
			return "invalid request body: " + leaf.InstanceLocation + ": " + leaf.Message
		}
		return "invalid request body: " + leaf.Message
	}
	return "invalid request body: " + err.Error()
}
