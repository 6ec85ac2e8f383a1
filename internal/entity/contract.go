package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contract represents a persisted contract row for data transfer between layers.
type Contract struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             *uuid.UUID `json:"userId,omitempty"`
	ContractHolderName *string    `json:"contractHolderName,omitempty"`
	ContractIdentifier *string    `json:"contractIdentifier,omitempty"`
	RenewalDate        *time.Time `json:"renewalDate,omitempty"`
	ServiceProduct     *string    `json:"serviceProduct,omitempty"`
	ContactEmail       *string    `json:"contactEmail,omitempty"`
	FilePath           *string    `json:"filePath,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// RenewalDateString formats the renewal date as YYYY-MM-DD, or "" when unset.
func (c *Contract) RenewalDateString() string {
	if c == nil || c.RenewalDate == nil {
		return ""
	}
	return c.RenewalDate.UTC().Format("2006-01-02")
}
