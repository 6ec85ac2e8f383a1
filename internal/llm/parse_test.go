package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

func ptr(s string) *string { return &s }

func TestSpanParser_AllFields(t *testing.T) {
	raw := `{"contractHolderName":"John Doe","contractId":"C-1","renewalDate":"2024-12-31","serviceProduct":"Cloud","contactEmail":"j@x.com"}`

	got, err := NewSpanParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ExtractionResult{
		ContractHolderName: ptr("John Doe"),
		ContractID:         ptr("C-1"),
		RenewalDate:        ptr("2024-12-31"),
		ServiceProduct:     ptr("Cloud"),
		ContactEmail:       ptr("j@x.com"),
	}, got)
}

func TestSpanParser_SurroundingProse(t *testing.T) {
	raw := "Sure! Here is the data:\n```json\n{\"contractHolderName\":\"Ann\",\"contractId\":null}\n```\nLet me know."

	got, err := NewSpanParser().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ptr("Ann"), got.ContractHolderName)
	assert.Nil(t, got.ContractID)
	assert.Nil(t, got.RenewalDate)
}

func TestSpanParser_NonStringFieldsBecomeNil(t *testing.T) {
	raw := `{"contractHolderName":42,"contractId":true,"renewalDate":["2024-01-01"],"serviceProduct":{"a":1},"contactEmail":"a@b.c","extra":"dropped"}`

	got, err := NewSpanParser().Parse(raw)
	require.NoError(t, err)
	assert.Nil(t, got.ContractHolderName)
	assert.Nil(t, got.ContractID)
	assert.Nil(t, got.RenewalDate)
	assert.Nil(t, got.ServiceProduct)
	assert.Equal(t, ptr("a@b.c"), got.ContactEmail)
}

func TestSpanParser_NoObject(t *testing.T) {
	_, err := NewSpanParser().Parse("I could not find any contract details.")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestSpanParser_MalformedSpan(t *testing.T) {
	for _, raw := range []string{
		`{"contractId": "C-1",}`,
		`} reversed {`,
		`Example: {"contractId":"X"} Answer: {"contractId":"C-2"}`,
	} {
		_, err := NewSpanParser().Parse(raw)
		assert.ErrorIs(t, err, common.ErrParse, raw)
	}
}

func TestSpanParser_RoundTrip(t *testing.T) {
	want := ExtractionResult{
		ContractHolderName: ptr("Alexandra Reed"),
		ContractID:         nil,
		RenewalDate:        ptr("2025-03-01"),
		ServiceProduct:     ptr("Managed Hosting"),
		ContactEmail:       nil,
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := NewSpanParser().Parse(string(b))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSchemaParser(t *testing.T) {
	p := NewSchemaParser()

	got, err := p.Parse(`{"contractHolderName":"A","contractId":null,"renewalDate":"2025-01-01","serviceProduct":null,"contactEmail":null}`)
	require.NoError(t, err)
	assert.Equal(t, ptr("A"), got.ContractHolderName)

	_, err = p.Parse(`{"contractHolderName":"A"}`)
	assert.ErrorIs(t, err, common.ErrParse)

	_, err = p.Parse(`{"contractHolderName":"A","contractId":null,"renewalDate":"next year","serviceProduct":null,"contactEmail":null}`)
	assert.ErrorIs(t, err, common.ErrParse)
}
