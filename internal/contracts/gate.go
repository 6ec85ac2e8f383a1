package contracts

import (
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

// IsComplete reports whether at least two of holder name, service product and
// a contact email containing "@" are present. One missing or garbled field is
// tolerated.
func IsComplete(r llm.ExtractionResult) bool {
	valid := 0
	if nonBlank(r.ContractHolderName) {
		valid++
	}
	if nonBlank(r.ServiceProduct) {
		valid++
	}
	if r.ContactEmail != nil && strings.Contains(*r.ContactEmail, "@") {
		valid++
	}
	return valid >= 2
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
