package reminder

import (
	"sync"
	"time"
)

// Entry is one armed reminder.
type Entry struct {
	ContractID  string
	RenewalDate time.Time
	FireAt      time.Time
	Generation  uint64
	Timer       Timer
}

// Registry owns the contract ID -> armed reminder mapping. The in-memory
// implementation loses everything on restart; a persistent one can be
// swapped in without touching the Scheduler.
type Registry interface {
	// Put stores e, returning the entry it replaced, if any.
	Put(e Entry) (Entry, bool)
	Get(contractID string) (Entry, bool)
	Delete(contractID string) (Entry, bool)
	// DeleteIf removes the entry only when its generation matches.
	DeleteIf(contractID string, generation uint64) (Entry, bool)
	Len() int
	All() []Entry
}

type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]Entry)}
}

func (r *MemoryRegistry) Put(e Entry) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.entries[e.ContractID]
	r.entries[e.ContractID] = e
	return prev, ok
}

func (r *MemoryRegistry) Get(contractID string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[contractID]
	return e, ok
}

func (r *MemoryRegistry) Delete(contractID string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[contractID]
	if ok {
		delete(r.entries, contractID)
	}
	return e, ok
}

func (r *MemoryRegistry) DeleteIf(contractID string, generation uint64) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[contractID]
	if !ok || e.Generation != generation {
		return Entry{}, false
	}
	delete(r.entries, contractID)
	return e, true
}

func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *MemoryRegistry) All() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}
