package catalog

import (
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// maxSuggestionDistance bounds how far a typo may be from a real pack name
const maxSuggestionDistance = 4

// Registry holds the named sources available to the service
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source under its name
func (r *Registry) Register(source Source) error {
	if source == nil {
		return alcherr.InvalidArgument("source cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[source.Name()]; exists {
		return alcherr.AlreadyExistsf("pack '%s' already registered", source.Name()).
			WithMeta("pack", source.Name())
	}
	r.sources[source.Name()] = source
	return nil
}

// Get returns a source by name. The not found error carries a "suggestion"
// meta entry when a registered name is close.
func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if source, ok := r.sources[name]; ok {
		return source, nil
	}

	err := alcherr.NotFoundf("pack '%s' not found", name).WithMeta("pack", name)
	if suggestion := r.closest(name); suggestion != "" {
		err.WithMeta("suggestion", suggestion)
	}
	return nil, err
}

// Names returns registered pack names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) closest(name string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for candidate := range r.sources {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDistance || (d == bestDistance && candidate < best) {
			best = candidate
			bestDistance = d
		}
	}
	if bestDistance > maxSuggestionDistance {
		return ""
	}
	return best
}
