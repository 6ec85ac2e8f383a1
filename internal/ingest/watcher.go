package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/async"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing files
	SkipHidden  bool
	Debounce    time.Duration // coalesce rapid write/rename bursts
}

// StartWatcher emits paths of PDF files created or written under the roots.
// Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	var initial []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if cfg.SkipHidden && path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && AllowedExt(filepath.Ext(path)) {
				initial = append(initial, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(errCh)
		defer close(evCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher.close.failed", "error", err)
			}
		}()

		emit := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range initial {
			if !emit(p) {
				return
			}
		}

		var (
			mu      sync.Mutex
			pending = map[string]struct{}{}
			flush   = make(chan struct{}, 1)
			timer   *time.Timer
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		drain := func() {
			mu.Lock()
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			mu.Unlock()
			for _, p := range batch {
				if !emit(p) {
					return
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flush:
				drain()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
						if err := w.Add(e.Name); err != nil {
							logger.Warn("watcher.add_dir.failed", "path", e.Name, "error", err)
						}
						continue
					}
				}
				if cfg.SkipHidden && IsHidden(e.Name) {
					continue
				}
				if !AllowedExt(filepath.Ext(e.Name)) || !(e.Op.Has(fsnotify.Create) || e.Op.Has(fsnotify.Write) || e.Op.Has(fsnotify.Rename)) {
					continue
				}
				mu.Lock()
				pending[e.Name] = struct{}{}
				mu.Unlock()
				if cfg.Debounce <= 0 {
					drain()
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(cfg.Debounce, func() {
					select {
					case flush <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// Watch feeds every path emitted by the watcher through IngestPath on the
// worker queue until ctx is done. onJob, if set, sees each finished job.
func (i *FSIngestor) Watch(ctx context.Context, userID uuid.UUID, cfg WatchConfig, onJob func(JobResult)) error {
	paths, errs, err := StartWatcher(ctx, cfg, i.logger)
	if err != nil {
		return err
	}
	q := async.NewProcessorQueue(func(jctx context.Context, job async.Job) error {
		res, err := i.IngestPath(jctx, job.UserID, job.Path)
		if onJob != nil {
			onJob(JobResult{Job: res, Err: err})
		}
		return err
	}, i.logger, async.WithWorkers(i.workers))
	defer q.Shutdown(context.WithoutCancel(ctx))

	i.logger.Info("watcher.started", "roots", cfg.Roots, "workers", i.workers)
	for {
		select {
		case p, ok := <-paths:
			if !ok {
				return ctx.Err()
			}
			if err := q.Enqueue(ctx, async.Job{Path: p, UserID: userID, SubmittedAt: time.Now().UTC(), TraceID: uuid.NewString()}); err != nil {
				if errors.Is(err, async.ErrQueueClosed) || ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		case err, ok := <-errs:
			if ok && err != nil {
				i.logger.Warn("watcher.degraded", "error", err)
			}
			if !ok {
				errs = nil
			}
		}
	}
}

// JobResult pairs a finished ingest job with its failure cause, if any.
type JobResult struct {
	Job entity.IngestJob
	Err error
}
