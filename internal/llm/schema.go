package llm

import (
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// BuildExtractionJSONSchema returns the reply schema as a generic map. Every
// field is required but may be null; unknown keys are tolerated.
func BuildExtractionJSONSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, 5)
	for _, f := range constants.Fields() {
		props[string(f)] = map[string]any{"type": []string{"string", "null"}}
		required = append(required, string(f))
	}
	props[string(constants.FieldRenewalDate)] = map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			map[string]any{"type": "null"},
		},
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

var (
	schemaOnce     sync.Once
	extractionCompiled *jsonschema.Schema
	schemaErr      error
)

func extractionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		extractionCompiled, schemaErr = common.CompileSchema("extraction.json", BuildExtractionJSONSchema())
	})
	return extractionCompiled, schemaErr
}

// SchemaParser locates the JSON span like SpanParser but then requires the
// object to match the extraction schema. Use it with providers that return
// native JSON output.
type SchemaParser struct{}

func NewSchemaParser() SchemaParser { return SchemaParser{} }

func (SchemaParser) Parse(raw string) (ExtractionResult, error) {
	obj, err := decodeSpan(raw)
	if err != nil {
		return ExtractionResult{}, err
	}
	schema, err := extractionSchema()
	if err != nil {
		return ExtractionResult{}, common.NewParseError("extraction schema unavailable", err)
	}
	b, _ := json.Marshal(obj)
	if err := common.ValidateJSON(schema, b); err != nil {
		return ExtractionResult{}, common.NewParseError("completion does not match extraction schema", err)
	}
	return fromMap(obj), nil
}
