package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Saved      uint32
	Rejected   uint32
	Duplicates uint32
	Failed     uint32
}

// Ingestor is the behavior the CLI depends on.
type Ingestor interface {
	// IngestPath runs a single file through upload, extraction and save.
	IngestPath(ctx context.Context, userID uuid.UUID, path string) (entity.IngestJob, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, userID uuid.UUID, root string, skipHidden bool) ([]entity.IngestJob, DirStats, error)
}

// ContractIntake is the contract service subset ingest drives.
type ContractIntake interface {
	Upload(ctx context.Context, in contracts.UploadInput) (contracts.UploadResult, error)
	Save(ctx context.Context, in contracts.SaveInput) (*entity.Contract, error)
}
