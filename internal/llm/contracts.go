package llm

import "context"

// Defaults applied when a CompletionRequest leaves the field zero.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.1
)

// ExtractionResult is the typed shape parsed from the model reply.
// Every field is independently nullable; a missing field is not an error.
type ExtractionResult struct {
	ContractHolderName *string `json:"contractHolderName"`
	ContractID         *string `json:"contractId"`
	RenewalDate        *string `json:"renewalDate"`
	ServiceProduct     *string `json:"serviceProduct"`
	ContactEmail       *string `json:"contactEmail"`
}

type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// WithDefaults fills zero MaxTokens/Temperature.
func (r CompletionRequest) WithDefaults() CompletionRequest {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Completion struct {
	Text  string
	Usage *Usage
	Model string
}

// Provider is a hosted text-completion backend.
type Provider interface {
	// Complete returns a PROVIDER_ERROR for transport, auth, rate-limit,
	// non-2xx and empty-completion failures. It never retries.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	// IsHealthy never returns an error; any failure reads as false.
	IsHealthy(ctx context.Context) bool
	// SupportsImages reports whether the provider also implements ImageCompleter.
	SupportsImages() bool
}

// ImageCompleter is implemented by providers with vision support.
type ImageCompleter interface {
	CompleteWithImage(ctx context.Context, req CompletionRequest, image []byte) (Completion, error)
}

// Parser turns a free-form model reply into an ExtractionResult.
type Parser interface {
	Parse(raw string) (ExtractionResult, error)
}
