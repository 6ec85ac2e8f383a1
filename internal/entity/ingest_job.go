package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

// IngestJob records the outcome of one file processed by batch ingest.
type IngestJob struct {
	ID           uuid.UUID              `json:"id"`
	SourcePath   string                 `json:"source_path"`
	ContentHash  string                 `json:"content_hash"`
	StoredPath   string                 `json:"stored_path,omitempty"`
	ContractID   *uuid.UUID             `json:"contract_id,omitempty"`
	Status       constants.IngestStatus `json:"status"`
	WordCount    int                    `json:"word_count"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   time.Time              `json:"finished_at"`
}
