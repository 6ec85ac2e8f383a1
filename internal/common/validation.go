package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError represents one failed field rule
type FieldError struct {
	Field   string
	Value   any
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Validator collects field errors
type Validator struct {
	errors []FieldError
}

func NewValidator() *Validator {
	return &Validator{errors: make([]FieldError, 0)}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err returns an INVALID_INPUT AppError joining every collected message, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return NewInvalidInputError(strings.Join(messages, "; "))
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value any) *FieldError

func Required(fieldName string, value any) *FieldError {
	switch v := value.(type) {
	case nil:
		return &FieldError{Field: fieldName, Value: value, Message: "is required"}
	case string:
		if strings.TrimSpace(v) == "" {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	case *string:
		if v == nil || strings.TrimSpace(*v) == "" {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	}
	return nil
}

// UUID accepts an empty value; combine with Required when mandatory.
func UUID(fieldName string, value any) *FieldError {
	str, ok := stringValue(value)
	if !ok || str == "" {
		return nil
	}
	if _, err := uuid.Parse(str); err != nil {
		return &FieldError{Field: fieldName, Value: value, Message: "must be a valid UUID"}
	}
	return nil
}

// DateYMD accepts an empty value or a YYYY-MM-DD / RFC 3339 date.
func DateYMD(fieldName string, value any) *FieldError {
	str, ok := stringValue(value)
	if !ok || str == "" {
		return nil
	}
	if _, err := ParseDate(str); err != nil {
		return &FieldError{Field: fieldName, Value: value, Message: "must be a date (YYYY-MM-DD)"}
	}
	return nil
}

func Email(fieldName string, value any) *FieldError {
	str, ok := stringValue(value)
	if !ok || str == "" {
		return nil
	}
	at := strings.Index(str, "@")
	if at <= 0 || at == len(str)-1 || strings.ContainsAny(str, " \t\n") {
		return &FieldError{Field: fieldName, Value: value, Message: "must be an email address"}
	}
	return nil
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case *string:
		if v == nil {
			return "", true
		}
		return strings.TrimSpace(*v), true
	}
	return "", false
}

// ParseDate parses YYYY-MM-DD, falling back to RFC 3339 timestamps. Result is UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// CompileSchema compiles a JSON schema expressed as a Go map.
func CompileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// MustCompileSchema is CompileSchema for package-level schemas.
func MustCompileSchema(name string, schemaMap map[string]any) *jsonschema.Schema {
	s, err := CompileSchema(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateJSON validates raw JSON against a compiled schema.
func ValidateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
