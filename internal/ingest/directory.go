package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/async"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

// IngestDirectory walks root, skips hidden entries if requested, and runs
// every PDF through IngestPath on the worker queue. Results are sorted by path.
func (i *FSIngestor) IngestDirectory(ctx context.Context, userID uuid.UUID, root string, skipHidden bool) ([]entity.IngestJob, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var (
		mu      sync.Mutex
		results []entity.IngestJob
		stats   DirStats
	)
	record := func(job entity.IngestJob) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, job)
		switch job.Status {
		case constants.IngestSaved:
			stats.Saved++
		case constants.IngestRejected:
			stats.Rejected++
		case constants.IngestDuplicate:
			stats.Duplicates++
		default:
			stats.Failed++
		}
	}

	q := async.NewProcessorQueue(func(jctx context.Context, job async.Job) error {
		res, err := i.IngestPath(jctx, job.UserID, job.Path)
		record(res)
		return err
	}, i.logger, async.WithWorkers(i.workers))

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		mu.Lock()
		stats.Scanned++
		mu.Unlock()
		if err != nil {
			record(entity.IngestJob{SourcePath: path, Status: constants.IngestFailed, ErrorMessage: err.Error()})
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		mu.Lock()
		stats.Matched++
		mu.Unlock()
		return q.Enqueue(ctx, async.Job{Path: path, UserID: userID, TraceID: uuid.NewString()})
	})

	q.Shutdown(context.WithoutCancel(ctx))

	sort.Slice(results, func(a, b int) bool { return results[a].SourcePath < results[b].SourcePath })
	if walkErr != nil {
		return results, stats, fmt.Errorf("walk: %w", walkErr)
	}
	i.logger.Info("ingest.directory.done",
		"root", root,
		"matched", stats.Matched,
		"saved", stats.Saved,
		"rejected", stats.Rejected,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
