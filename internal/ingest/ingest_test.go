package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
	"github.com/joseph-ayodele/contracts-tracker/internal/testutil"
)

// fakeIntake decides the outcome from the file name: names containing
// "partial" extract one field, "broken" fail upload, anything else is complete.
type fakeIntake struct {
	mu      sync.Mutex
	uploads int
	saved   []contracts.SaveInput
}

func (f *fakeIntake) Upload(_ context.Context, in contracts.UploadInput) (contracts.UploadResult, error) {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	if strings.Contains(in.FileName, "broken") {
		return contracts.UploadResult{}, errors.New("provider down")
	}
	name := "Jane Roe"
	res := llm.ExtractionResult{ContractHolderName: &name}
	if !strings.Contains(in.FileName, "partial") {
		id, email := "C-9", "jane@roe.test"
		res.ContractID = &id
		res.ContactEmail = &email
	}
	path := "uploads/" + in.FileName
	return contracts.UploadResult{
		ExtractedData: contracts.ExtractedData{
			ExtendedExtractionResult: pipeline.ExtendedExtractionResult{ExtractionResult: res, WordCount: 42},
			UserID:                   in.UserID,
			FilePath:                 path,
		},
		FilePath: path,
	}, nil
}

func (f *fakeIntake) Save(_ context.Context, in contracts.SaveInput) (*entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, in)
	return &entity.Contract{ID: uuid.New(), FilePath: &in.FilePath}, nil
}

func (f *fakeIntake) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestIngestPath_Saved(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 1)
	user := uuid.New()
	path := writeFile(t, t.TempDir(), "lease.pdf", testutil.BuildPDF("Lease agreement"))

	job, err := ing.IngestPath(context.Background(), user, path)
	require.NoError(t, err)
	assert.Equal(t, constants.IngestSaved, job.Status)
	require.NotNil(t, job.ContractID)
	assert.Equal(t, "uploads/lease.pdf", job.StoredPath)
	assert.Equal(t, 42, job.WordCount)
	assert.Len(t, job.ContentHash, 64)
	require.Len(t, intake.saved, 1)
	assert.Equal(t, user.String(), intake.saved[0].UserID)
}

func TestIngestPath_RejectsIncomplete(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 1)
	path := writeFile(t, t.TempDir(), "partial.pdf", testutil.BuildPDF("one field"))

	job, err := ing.IngestPath(context.Background(), uuid.New(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.IngestRejected, job.Status)
	assert.Nil(t, job.ContractID)
	assert.Empty(t, intake.saved)
}

func TestIngestPath_DuplicateContent(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 1)
	dir := t.TempDir()
	pdf := testutil.BuildPDF("same bytes")
	a := writeFile(t, dir, "a.pdf", pdf)
	b := writeFile(t, dir, "b.pdf", pdf)

	_, err := ing.IngestPath(context.Background(), uuid.New(), a)
	require.NoError(t, err)
	job, err := ing.IngestPath(context.Background(), uuid.New(), b)
	require.NoError(t, err)
	assert.Equal(t, constants.IngestDuplicate, job.Status)
	assert.Equal(t, 1, intake.uploadCount())
}

func TestIngestPath_FailureAllowsRetry(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 1)
	path := writeFile(t, t.TempDir(), "broken.pdf", testutil.BuildPDF("x"))

	for i := 0; i < 2; i++ {
		job, err := ing.IngestPath(context.Background(), uuid.New(), path)
		require.Error(t, err)
		assert.Equal(t, constants.IngestFailed, job.Status)
		assert.Equal(t, "provider down", job.ErrorMessage)
	}
	assert.Equal(t, 2, intake.uploadCount())
}

func TestIngestPath_UnsupportedExtension(t *testing.T) {
	ing := NewFSIngestor(&fakeIntake{}, testutil.DiscardLogger(), 1)
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("hello"))

	job, err := ing.IngestPath(context.Background(), uuid.New(), path)
	require.Error(t, err)
	assert.Equal(t, constants.IngestFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "unsupported")
}

func TestIngestDirectory_Stats(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 3)
	root := t.TempDir()
	writeFile(t, root, "one.pdf", testutil.BuildPDF("first"))
	writeFile(t, root, "nested/two.PDF", testutil.BuildPDF("second"))
	writeFile(t, root, "nested/partial.pdf", testutil.BuildPDF("third"))
	writeFile(t, root, "copy.pdf", testutil.BuildPDF("first"))
	writeFile(t, root, "broken.pdf", testutil.BuildPDF("fourth"))
	writeFile(t, root, "readme.md", []byte("skip me"))
	writeFile(t, root, ".hidden/secret.pdf", testutil.BuildPDF("hidden"))

	jobs, stats, err := ing.IngestDirectory(context.Background(), uuid.New(), root, true)
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
	assert.EqualValues(t, 5, stats.Matched)
	assert.EqualValues(t, 2, stats.Saved)
	assert.EqualValues(t, 1, stats.Rejected)
	assert.EqualValues(t, 1, stats.Duplicates)
	assert.EqualValues(t, 1, stats.Failed)
	for i := 1; i < len(jobs); i++ {
		assert.LessOrEqual(t, jobs[i-1].SourcePath, jobs[i].SourcePath)
	}
}

func TestIngestDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	ing := NewFSIngestor(&fakeIntake{}, testutil.DiscardLogger(), 2)
	root := t.TempDir()
	writeFile(t, root, ".hidden/secret.pdf", testutil.BuildPDF("hidden"))

	_, stats, err := ing.IngestDirectory(context.Background(), uuid.New(), root, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Saved)
}

func TestIngestDirectory_RequiresRoot(t *testing.T) {
	ing := NewFSIngestor(&fakeIntake{}, testutil.DiscardLogger(), 1)
	_, _, err := ing.IngestDirectory(context.Background(), uuid.New(), "  ", false)
	require.Error(t, err)
}

func TestWatch_IngestsInitialAndNewFiles(t *testing.T) {
	intake := &fakeIntake{}
	ing := NewFSIngestor(intake, testutil.DiscardLogger(), 1)
	root := t.TempDir()
	writeFile(t, root, "existing.pdf", testutil.BuildPDF("already here"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan JobResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- ing.Watch(ctx, uuid.New(), WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 50 * time.Millisecond}, func(r JobResult) {
			results <- r
		})
	}()

	first := <-results
	assert.Equal(t, constants.IngestSaved, first.Job.Status)

	writeFile(t, root, "incoming.pdf", testutil.BuildPDF("fresh contract"))
	select {
	case r := <-results:
		assert.True(t, strings.HasSuffix(r.Job.SourcePath, "incoming.pdf"))
		assert.Equal(t, constants.IngestSaved, r.Job.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("new file was not ingested")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	require.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.False(t, AllowedExt(".png"))
	assert.True(t, IsHidden("/a/.git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("/a/b.pdf"))
}
