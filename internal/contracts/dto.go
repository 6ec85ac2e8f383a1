package contracts

import (
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
)

// ContractDTO is the client view of a contract. Renewal dates are YYYY-MM-DD.
type ContractDTO struct {
	ID                 string  `json:"id"`
	UserID             *string `json:"userId,omitempty"`
	ContractHolderName *string `json:"contractHolderName,omitempty"`
	ContractIdentifier *string `json:"contractIdentifier,omitempty"`
	RenewalDate        *string `json:"renewalDate,omitempty"`
	ServiceProduct     *string `json:"serviceProduct,omitempty"`
	ContactEmail       *string `json:"contactEmail,omitempty"`
	FilePath           *string `json:"filePath,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

func ToDTO(c *entity.Contract) ContractDTO {
	dto := ContractDTO{
		ID:                 c.ID.String(),
		ContractHolderName: c.ContractHolderName,
		ContractIdentifier: c.ContractIdentifier,
		ServiceProduct:     c.ServiceProduct,
		ContactEmail:       c.ContactEmail,
		FilePath:           c.FilePath,
		CreatedAt:          c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.UserID != nil {
		s := c.UserID.String()
		dto.UserID = &s
	}
	if d := c.RenewalDateString(); d != "" {
		dto.RenewalDate = &d
	}
	return dto
}

func ToDTOs(list []*entity.Contract) []ContractDTO {
	out := make([]ContractDTO, 0, len(list))
	for _, c := range list {
		out = append(out, ToDTO(c))
	}
	return out
}

// ExtractedData is an extraction result tagged with its owner and stored file.
type ExtractedData struct {
	pipeline.ExtendedExtractionResult
	UserID   string `json:"userId"`
	FilePath string `json:"filePath"`
}

type UploadInput struct {
	Data     []byte
	FileName string
	UserID   string
}

type UploadResult struct {
	ExtractedData ExtractedData `json:"extractedData"`
	FilePath      string        `json:"filePath"`
	PublicURL     string        `json:"publicUrl"`
}

// SaveInput is the reviewed extraction the client asks to persist.
type SaveInput struct {
	ExtractedData pipeline.ExtendedExtractionResult
	UserID        string
	FilePath      string
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	ContractHolderName *string `json:"contractHolderName"`
	ContractIdentifier *string `json:"contractIdentifier"`
	RenewalDate        *string `json:"renewalDate"`
	ServiceProduct     *string `json:"serviceProduct"`
	ContactEmail       *string `json:"contactEmail"`
	FilePath           *string `json:"filePath"`
}

type ReminderInput struct {
	RenewalDate       string `json:"renewalDate"`
	DaysBeforeRenewal int    `json:"daysBeforeRenewal"`
	Enabled           bool   `json:"enabled"`
}

type ReminderStatus struct {
	ContractID        string  `json:"contractId"`
	DaysUntilRenewal  int     `json:"daysUntilRenewal"`
	ReminderScheduled bool    `json:"reminderScheduled"`
	ReminderDate      *string `json:"reminderDate,omitempty"`
}

// UpcomingRenewal is a contract with its day distance to renewal.
type UpcomingRenewal struct {
	ContractDTO
	DaysUntilRenewal int `json:"daysUntilRenewal"`
}
