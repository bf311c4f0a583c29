package fake

import (
	"sync"

	"evr/backend"
	"evr/core/execution"
)

// Backend is a configurable fake backend useful for dispatch tests.
type Backend struct {
	BackendName string
	Text        *string
	Outcome     execution.Outcome
	RunErr      error

	mu   sync.Mutex
	runs []string
}

func New(name string, outcome execution.Outcome) *Backend {
	return &Backend{BackendName: name, Outcome: outcome}
}

func (b *Backend) Name() string { return b.BackendName }

func (b *Backend) Template() (string, bool) {
	if b.Text == nil {
		return "", false
	}
	return *b.Text, true
}

func (b *Backend) Run(source string) (execution.Outcome, error) {
	b.mu.Lock()
	b.runs = append(b.runs, source)
	b.mu.Unlock()
	if b.RunErr != nil {
		return nil, b.RunErr
	}
	return b.Outcome, nil
}

// Runs returns the sources passed to Run, in order.
func (b *Backend) Runs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.runs))
	copy(out, b.runs)
	return out
}

var _ backend.Backend = (*Backend)(nil)
