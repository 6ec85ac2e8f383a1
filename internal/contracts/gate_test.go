package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

func str(s string) *string { return &s }

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		in   llm.ExtractionResult
		want bool
	}{
		{"all three", llm.ExtractionResult{ContractHolderName: str("Acme"), ServiceProduct: str("Hosting"), ContactEmail: str("a@b.c")}, true},
		{"holder and service", llm.ExtractionResult{ContractHolderName: str("Acme"), ServiceProduct: str("Hosting")}, true},
		{"holder and email", llm.ExtractionResult{ContractHolderName: str("Acme"), ContactEmail: str("a@b.c")}, true},
		{"service and email", llm.ExtractionResult{ServiceProduct: str("Hosting"), ContactEmail: str("a@b.c")}, true},
		{"only holder", llm.ExtractionResult{ContractHolderName: str("Acme")}, false},
		{"nothing", llm.ExtractionResult{}, false},
		{"blank holder does not count", llm.ExtractionResult{ContractHolderName: str("   "), ServiceProduct: str("Hosting")}, false},
		{"email without at does not count", llm.ExtractionResult{ServiceProduct: str("Hosting"), ContactEmail: str("billing.acme.test")}, false},
		{"contract id and date are ignored", llm.ExtractionResult{ContractID: str("C-1"), RenewalDate: str("2025-01-01"), ServiceProduct: str("Hosting")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(tt.in))
		})
	}
}
