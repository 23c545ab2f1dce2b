package browser

import (
	"fmt"
	"sort"
)

// Registry is an immutable mapping from symbolic element names to selector
// strings. The mapping is copied at construction and can never grow, so a
// Registry is safe for concurrent reads across independent sessions.
type Registry struct {
	selectors map[string]string
}

// NewRegistry builds a registry from the given name-to-selector mapping.
// The input map is copied; later mutation of it does not affect the
// registry. A nil map yields an empty registry.
func NewRegistry(selectors map[string]string) *Registry {
	copied := make(map[string]string, len(selectors))
	for name, selector := range selectors {
		copied[name] = selector
	}
	return &Registry{selectors: copied}
}

// Lookup returns the selector registered under name. A miss fails with
// ErrLookup; there is no default selector and no fallback. Lookup is a
// pure local map access and is never retried.
func (r *Registry) Lookup(name string) (string, error) {
	selector, ok := r.selectors[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrLookup, name)
	}
	return selector, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.selectors))
	for name := range r.selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered selectors.
func (r *Registry) Len() int {
	return len(r.selectors)
}
