package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// SpanParser takes the text between the first '{' and the last '}' of the
// reply and decodes it as one JSON object. Per-field typing is lenient
// (non-strings become nil); overall shape is strict.
//
// Known limitation: a reply that carries an illustrative JSON block before
// the real answer yields a span covering both, which fails to decode.
type SpanParser struct{}

func NewSpanParser() SpanParser { return SpanParser{} }

func (SpanParser) Parse(raw string) (ExtractionResult, error) {
	obj, err := decodeSpan(raw)
	if err != nil {
		return ExtractionResult{}, err
	}
	return fromMap(obj), nil
}

// ExtractJSONSpan returns the substring from the first '{' to the last '}'.
func ExtractJSONSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func decodeSpan(raw string) (map[string]any, error) {
	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return nil, common.NewParseError("no JSON object found in completion", nil)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, common.NewParseError("completion JSON is malformed: "+err.Error(), err)
	}
	return obj, nil
}

func fromMap(obj map[string]any) ExtractionResult {
	str := func(f constants.Field) *string {
		if s, ok := obj[string(f)].(string); ok {
			return &s
		}
		return nil
	}
	return ExtractionResult{
		ContractHolderName: str(constants.FieldContractHolderName),
		ContractID:         str(constants.FieldContractID),
		RenewalDate:        str(constants.FieldRenewalDate),
		ServiceProduct:     str(constants.FieldServiceProduct),
		ContactEmail:       str(constants.FieldContactEmail),
	}
}
