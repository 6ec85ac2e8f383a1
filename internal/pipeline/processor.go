package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/contracts-tracker/internal/extract"
)

// Processor coordinates text extraction then field extraction for raw bytes.
type Processor struct {
	Logger       *slog.Logger
	Text         extract.TextExtractor
	Orchestrator *Orchestrator
}

func NewProcessor(logger *slog.Logger, text extract.TextExtractor, orch *Orchestrator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Orchestrator: orch}
}

// ProcessDocument returns text-extraction failures unchanged so callers can
// tell an unreadable PDF apart from a failed model call.
func (p *Processor) ProcessDocument(ctx context.Context, data []byte, fileName string) (ExtendedExtractionResult, extract.Result, error) {
	text, err := p.Text.ExtractText(ctx, data)
	if err != nil {
		p.Logger.Error("processor.text.failed", "file_name", fileName, "error", err)
		return ExtendedExtractionResult{}, extract.Result{}, err
	}
	p.Logger.Debug("processor.text.ok", "file_name", fileName, "pages", text.Pages, "warnings", len(text.Warnings))

	res, err := p.Orchestrator.Extract(ctx, ExtractionRequest{DocumentText: text.Text, FileName: fileName})
	if err != nil {
		return ExtendedExtractionResult{}, text, err
	}
	return res, text, nil
}
