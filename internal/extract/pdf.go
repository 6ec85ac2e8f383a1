package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// PDFExtractor pulls the plain text layer out of a PDF. Pages are joined in
// document order with a newline; no layout is reconstructed.
type PDFExtractor struct {
	logger   *slog.Logger
	maxPages int
}

type Option func(*PDFExtractor)

// WithMaxPages stops reading after n pages. Zero reads every page.
func WithMaxPages(n int) Option {
	return func(e *PDFExtractor) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

func NewPDFExtractor(logger *slog.Logger, opts ...Option) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &PDFExtractor{logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ExtractText returns a TEXT_EXTRACTION_ERROR when data is not a readable PDF.
// An empty text layer is not an error; callers decide what short text means.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()
	if len(data) == 0 {
		return Result{}, common.NewTextExtractionError("PDF text extraction failed: empty document", nil)
	}
	if mt := mimetype.Detect(data); !mt.Is(constants.PDFContentType) {
		return Result{}, common.NewTextExtractionError(
			fmt.Sprintf("PDF text extraction failed: unsupported content type %s", mt.String()), nil)
	}

	r, err := openReader(data)
	if err != nil {
		e.logger.Warn("pdf.open_failed", "bytes", len(data), "error", err)
		return Result{}, common.NewTextExtractionError("PDF text extraction failed: "+err.Error(), err)
	}

	total := r.NumPage()
	pages := total
	if e.maxPages > 0 && e.maxPages < total {
		pages = e.maxPages
	}

	var (
		b        strings.Builder
		warnings []string
	)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, common.NewTextExtractionError("PDF text extraction cancelled", err)
		}
		text, err := pageText(r, i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	res := Result{
		Text:     b.String(),
		Pages:    total,
		Duration: time.Since(start),
		Warnings: warnings,
	}
	e.logger.Debug("pdf.extracted",
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// openReader guards against the panics the pdf package raises on malformed input.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("malformed pdf: no reader")
	}
	return r, nil
}

func pageText(r *pdf.Reader, index int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read page: %v", rec)
		}
	}()
	p := r.Page(index)
	if p.V.IsNull() {
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
