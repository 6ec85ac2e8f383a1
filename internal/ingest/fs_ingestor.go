package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// FSIngestor reads contract PDFs from the local filesystem. Content already
// ingested by this instance is skipped by SHA-256.
type FSIngestor struct {
	intake  ContractIntake
	logger  *slog.Logger
	workers int

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewFSIngestor(intake ContractIntake, logger *slog.Logger, workers int) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &FSIngestor{intake: intake, logger: logger, workers: workers, seen: make(map[string]struct{})}
}

// IngestPath returns the job record and, for FAILED jobs, the cause. A
// REJECTED or DUPLICATE job is not an error.
func (i *FSIngestor) IngestPath(ctx context.Context, userID uuid.UUID, path string) (entity.IngestJob, error) {
	job := entity.IngestJob{
		ID:         uuid.New(),
		SourcePath: path,
		Status:     constants.IngestRunning,
		StartedAt:  time.Now().UTC(),
	}
	fail := func(err error) (entity.IngestJob, error) {
		job.Status = constants.IngestFailed
		job.ErrorMessage = common.Message(err)
		job.FinishedAt = time.Now().UTC()
		i.logger.Error("ingest.failed", "path", job.SourcePath, "error", err)
		return job, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fail(fmt.Errorf("abs path: %w", err))
	}
	job.SourcePath = abs
	if !AllowedExt(filepath.Ext(abs)) {
		return fail(common.NewInvalidInputError(fmt.Sprintf("unsupported or missing extension: %q", filepath.Ext(abs))))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fail(fmt.Errorf("read: %w", err))
	}
	job.ContentHash = contentHash(data)
	if !i.claim(job.ContentHash) {
		job.Status = constants.IngestDuplicate
		job.FinishedAt = time.Now().UTC()
		i.logger.Info("ingest.duplicate", "path", abs, "content_hash", job.ContentHash)
		return job, nil
	}

	res, err := i.intake.Upload(ctx, contracts.UploadInput{
		Data:     data,
		FileName: filepath.Base(abs),
		UserID:   userID.String(),
	})
	if err != nil {
		i.release(job.ContentHash)
		return fail(err)
	}
	job.StoredPath = res.FilePath
	job.WordCount = res.ExtractedData.WordCount

	if !contracts.IsComplete(res.ExtractedData.ExtractionResult) {
		job.Status = constants.IngestRejected
		job.ErrorMessage = "insufficient extracted data"
		job.FinishedAt = time.Now().UTC()
		i.logger.Warn("ingest.rejected", "path", abs, "stored_path", res.FilePath, "word_count", job.WordCount)
		return job, nil
	}

	c, err := i.intake.Save(ctx, contracts.SaveInput{
		ExtractedData: res.ExtractedData.ExtendedExtractionResult,
		UserID:        userID.String(),
		FilePath:      res.FilePath,
	})
	if err != nil {
		return fail(err)
	}
	job.ContractID = &c.ID
	job.Status = constants.IngestSaved
	job.FinishedAt = time.Now().UTC()
	i.logger.Info("ingest.saved",
		"path", abs,
		"contract_id", c.ID,
		"elapsed_ms", job.FinishedAt.Sub(job.StartedAt).Milliseconds(),
	)
	return job, nil
}

func (i *FSIngestor) claim(hash string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.seen[hash]; ok {
		return false
	}
	i.seen[hash] = struct{}{}
	return true
}

// release lets a failed upload be retried.
func (i *FSIngestor) release(hash string) {
	i.mu.Lock()
	delete(i.seen, hash)
	i.mu.Unlock()
}
