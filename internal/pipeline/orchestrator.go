package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

// Completion settings used for every extraction call.
const (
	ExtractionMaxTokens   = 1000
	ExtractionTemperature = 0.1
)

type ExtractionRequest struct {
	DocumentText string
	FileName     string
}

// ExtendedExtractionResult is the parsed reply plus text heuristics.
type ExtendedExtractionResult struct {
	llm.ExtractionResult
	WordCount       int  `json:"wordCount"`
	IsImageBasedPDF bool `json:"isImageBasedPdf"`
}

// Orchestrator runs prompt -> completion -> parse for one document. It holds
// no state between calls and persists nothing.
type Orchestrator struct {
	logger   *slog.Logger
	provider llm.Provider
	parser   llm.Parser
}

// NewOrchestrator wires the stages. A nil parser selects llm.SpanParser.
func NewOrchestrator(logger *slog.Logger, provider llm.Provider, parser llm.Parser) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = llm.NewSpanParser()
	}
	return &Orchestrator{logger: logger, provider: provider, parser: parser}
}

// Extract fails with EXTRACTION_FAILED wrapping the prompt, provider or parse
// failure; the cause's message is kept for diagnostics.
func (o *Orchestrator) Extract(ctx context.Context, req ExtractionRequest) (ExtendedExtractionResult, error) {
	log := common.LoggerFrom(ctx, o.logger)
	start := time.Now()

	words := WordCount(req.DocumentText)
	imageBased := IsImageBased(words)
	log.Info("extract.start",
		"file_name", req.FileName,
		"text_len", len(req.DocumentText),
		"word_count", words,
		"is_image_based", imageBased,
	)

	prompt := llm.BuildExtractionPrompt(req.DocumentText, req.FileName)
	completion, err := o.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   ExtractionMaxTokens,
		Temperature: ExtractionTemperature,
	})
	if err != nil {
		log.Error("extract.provider.failed", "file_name", req.FileName, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ExtendedExtractionResult{}, common.NewExtractionFailedError(err)
	}
	log.Debug("extract.provider.ok", "model", completion.Model, "chars", len(completion.Text))

	parsed, err := o.parser.Parse(completion.Text)
	if err != nil {
		log.Error("extract.parse.failed", "file_name", req.FileName, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ExtendedExtractionResult{}, common.NewExtractionFailedError(err)
	}

	log.Info("extract.done",
		"file_name", req.FileName,
		"has_holder", parsed.ContractHolderName != nil,
		"has_renewal", parsed.RenewalDate != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ExtendedExtractionResult{
		ExtractionResult: parsed,
		WordCount:        words,
		IsImageBasedPDF:  imageBased,
	}, nil
}
