package browser

import "errors"

// Error kinds for session construction and page interaction. Callers match
// them with errors.Is; the wrapped chain keeps the underlying driver error
// reachable. Configuration failures use config.ErrConfiguration.
var (
	// ErrConnection marks launch or attach failures, including a discovery
	// endpoint with no page target.
	ErrConnection = errors.New("browser: connection failed")

	// ErrLookup marks a selector name that is not in the registry. Lookup
	// is a local map access and is never retried.
	ErrLookup = errors.New("browser: selector name not registered")

	// ErrNotFound marks an element or text query that stayed unmatched
	// after the retry budget was exhausted.
	ErrNotFound = errors.New("browser: element not found")

	// ErrInteraction marks a click, type, or navigate primitive that kept
	// failing after the retry budget was exhausted.
	ErrInteraction = errors.New("browser: interaction failed")
)
