package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("exec.failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"elapsed_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		r.logger.Debug("exec.ok",
			"cmd", name,
			"elapsed_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
			"stderr_bytes", errb.Len(),
		)
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// CommandExtractor runs poppler's pdftotext over a temp copy of the document.
// Its layout mode recovers text from PDFs whose content streams the pure-Go
// reader cannot decode.
type CommandExtractor struct {
	Binary string // default "pdftotext"
	logger *slog.Logger
	runner Runner
}

func NewCommandExtractor(binary string, logger *slog.Logger) *CommandExtractor {
	if binary == "" {
		binary = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandExtractor{Binary: binary, logger: logger, runner: execRunner{logger: logger}}
}

func (e *CommandExtractor) ExtractText(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()
	tmpDir, err := os.MkdirTemp("", "ct-pdf-*")
	if err != nil {
		return Result{}, common.NewTextExtractionError("PDF text extraction failed: temp dir", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("pdftotext.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	path := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Result{}, common.NewTextExtractionError("PDF text extraction failed: temp file", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.Binary, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			msg = err.Error()
		}
		return Result{}, common.NewTextExtractionError("PDF text extraction failed: "+msg, err)
	}
	// form feed separates pages
	text := strings.TrimRight(string(out), "\f\n ")
	return Result{
		Text:     strings.ReplaceAll(text, "\f", "\n"),
		Pages:    1 + strings.Count(text, "\f"),
		Duration: time.Since(start),
	}, nil
}

// FallbackExtractor runs Primary and, when its text has fewer than MinWords
// words, retries with Secondary. The longer of the two results wins. Errors
// from Primary are returned as is; a Secondary failure only adds a warning.
type FallbackExtractor struct {
	Primary   TextExtractor
	Secondary TextExtractor
	MinWords  int
	Logger    *slog.Logger
}

func (f *FallbackExtractor) ExtractText(ctx context.Context, data []byte) (Result, error) {
	res, err := f.Primary.ExtractText(ctx, data)
	if err != nil || f.Secondary == nil {
		return res, err
	}
	words := len(strings.Fields(res.Text))
	if words >= f.MinWords {
		return res, nil
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	alt, altErr := f.Secondary.ExtractText(ctx, data)
	if altErr != nil {
		logger.Warn("extract.fallback.failed", "primary_words", words, "error", altErr)
		res.Warnings = append(res.Warnings, fmt.Sprintf("fallback: %s", common.Message(altErr)))
		return res, nil
	}
	altWords := len(strings.Fields(alt.Text))
	logger.Info("extract.fallback.ok", "primary_words", words, "fallback_words", altWords)
	if altWords <= words {
		return res, nil
	}
	alt.Warnings = append(res.Warnings, alt.Warnings...)
	if alt.Pages == 0 {
		alt.Pages = res.Pages
	}
	return alt, nil
}
