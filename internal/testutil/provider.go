package testutil

import (
	"context"
	"sync"

	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

// FakeProvider answers every completion with Reply or Err and records requests.
type FakeProvider struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Healthy bool
	Calls   []llm.CompletionRequest
}

func (f *FakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return llm.Completion{}, f.Err
	}
	return llm.Completion{Text: f.Reply, Model: "fake"}, nil
}

func (f *FakeProvider) IsHealthy(context.Context) bool { return f.Healthy }

func (f *FakeProvider) SupportsImages() bool { return false }

// CallCount is safe for concurrent use.
func (f *FakeProvider) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// FullReply is a model answer with every field populated.
const FullReply = `Here you go: {"contractHolderName":"John Doe","contractId":"C-1","renewalDate":"2024-12-31","serviceProduct":"Cloud","contactEmail":"j@x.com"}`
