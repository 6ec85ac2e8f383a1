package constants

// Field names the model is asked to return. The prompt and the reply parser
// must agree on these exact keys.
type Field string

const (
	FieldContractHolderName Field = "contractHolderName"
	FieldContractID         Field = "contractId"
	FieldRenewalDate        Field = "renewalDate"
	FieldServiceProduct     Field = "serviceProduct"
	FieldContactEmail       Field = "contactEmail"
)

var allFields = []Field{
	FieldContractHolderName,
	FieldContractID,
	FieldRenewalDate,
	FieldServiceProduct,
	FieldContactEmail,
}

var fieldDescriptions = map[Field]string{
	FieldContractHolderName: "Full name of the contract holder/party (string or null)",
	FieldContractID:         "Contract ID, reference number, or agreement number (string or null)",
	FieldRenewalDate:        "Renewal date in YYYY-MM-DD format (string or null)",
	FieldServiceProduct:     "Service or product being contracted (string or null)",
	FieldContactEmail:       "Primary contact email address (string or null)",
}

// Fields returns the extraction fields in prompt order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

func (f Field) Description() string {
	return fieldDescriptions[f]
}
