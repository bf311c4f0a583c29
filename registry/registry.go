package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"evr/backend"
)

// ErrNoBackend is returned for file extensions no backend is registered for.
var ErrNoBackend = errors.New("no backend for file")

// Registry maps file extensions to backends.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]backend.Backend
}

func New() *Registry {
	return &Registry{backends: map[string]backend.Backend{}}
}

// Register adds or replaces the backend for each extension. Extensions are
// matched case-sensitively and without the leading dot.
func (r *Registry) Register(b backend.Backend, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.backends[strings.TrimPrefix(ext, ".")] = b
	}
}

// Lookup returns the backend for path's extension or an error wrapping ErrNoBackend.
func (r *Registry) Lookup(path string) (backend.Backend, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.backends[ext]; ok {
		return b, nil
	}
	if ext == "" {
		return nil, fmt.Errorf("%w %s: no extension", ErrNoBackend, path)
	}
	return nil, fmt.Errorf("%w %s: extension %q not registered", ErrNoBackend, path, ext)
}

// Template returns the scaffold text for path, or "" when no backend or template applies.
func (r *Registry) Template(path string) string {
	b, err := r.Lookup(path)
	if err != nil {
		return ""
	}
	text, ok := b.Template()
	if !ok {
		return ""
	}
	return text
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := maps.Keys(r.backends)
	slices.Sort(out)
	return out
}
