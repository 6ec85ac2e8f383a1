package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CollectsAllErrors(t *testing.T) {
	blank := "  "
	err := NewValidator().
		Field("renewalDate", "31/12/2024", DateYMD).
		Field("userId", "abc", UUID).
		Field("contactEmail", "no-at-sign", Email).
		Field("holder", &blank, Required).
		Err()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	msg := Message(err)
	assert.Contains(t, msg, "renewalDate must be a date (YYYY-MM-DD)")
	assert.Contains(t, msg, "userId must be a valid UUID")
	assert.Contains(t, msg, "contactEmail must be an email address")
	assert.Contains(t, msg, "holder is required")
}

func TestValidator_EmptyValuesPassOptionalRules(t *testing.T) {
	var nilStr *string
	v := NewValidator().
		Field("renewalDate", nilStr, DateYMD).
		Field("userId", "", UUID).
		Field("contactEmail", "", Email)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-12-31T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("December 31")
	assert.Error(t, err)
}

func TestValidateJSON(t *testing.T) {
	schema := MustCompileSchema("t.json", map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})
	assert.NoError(t, ValidateJSON(schema, []byte(`{"name":"x"}`)))
	assert.Error(t, ValidateJSON(schema, []byte(`{"name":1}`)))
	assert.Error(t, ValidateJSON(schema, []byte(`not json`)))
}
