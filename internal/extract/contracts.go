package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/constants"
	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// TextExtractor is Stage 1: document bytes -> text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (Result, error)
}

type Result struct {
	Text     string
	Pages    int
	Duration time.Duration
	Warnings []string
}

// New builds the configured extractor: the pure-Go PDF reader, backed by
// pdftotext for sparse text when a binary is configured.
func New(cfg common.ExtractConfig, logger *slog.Logger) TextExtractor {
	pdf := NewPDFExtractor(logger, WithMaxPages(cfg.MaxPages))
	if cfg.Pdftotext == "" {
		return pdf
	}
	return &FallbackExtractor{
		Primary:   pdf,
		Secondary: NewCommandExtractor(cfg.Pdftotext, logger),
		MinWords:  constants.ImageBasedWordThreshold,
		Logger:    logger,
	}
}
