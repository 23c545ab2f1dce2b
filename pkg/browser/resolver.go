package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/pagedrive/pkg/logging"
	"github.com/entrhq/pagedrive/pkg/retry"
)

// Resolver turns symbolic names and text queries into live element
// handles. Every resolution re-queries the page: handles are never cached,
// so navigation cannot leave a caller holding a stale reference.
type Resolver struct {
	page        Page
	registry    *Registry
	policy      retry.Policy
	waitTimeout time.Duration
	log         *logging.Logger
}

func newResolver(page Page, registry *Registry, policy retry.Policy, waitTimeout time.Duration, log *logging.Logger) *Resolver {
	return &Resolver{
		page:        page,
		registry:    registry,
		policy:      policy,
		waitTimeout: waitTimeout,
		log:         log,
	}
}

// Registry returns the resolver's selector registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// ByName resolves a registered name to an element handle. The registry
// lookup itself is not retried; an unregistered name fails with ErrLookup
// before any driver call. The element wait and scroll-into-view run under
// the retry policy, with each attempt bounded by the wait timeout.
// Exhaustion fails with ErrNotFound.
func (r *Resolver) ByName(name string) (Element, error) {
	selector, err := r.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	element, err := retry.Do(r.policy.Attempts, r.policy.Delay, func() (Element, error) {
		return r.waitAndScroll(func() (Element, error) {
			return r.page.WaitForSelector(selector, r.waitTimeout)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: name %q (selector %q): %w", ErrNotFound, name, selector, err)
	}

	r.log.Debugf("resolved %q via selector %q", name, selector)
	return element, nil
}

// ByText resolves the index-th element (1-based, document order) of the
// given tag whose normalized text content equals text. Tag defaults to
// "*" and index to 1. An index beyond the number of matches fails with
// ErrNotFound once the retry budget is exhausted.
func (r *Resolver) ByText(text, tag string, index int) (Element, error) {
	if tag == "" {
		tag = "*"
	}
	if index < 1 {
		index = 1
	}

	expr := fmt.Sprintf("(//%s[normalize-space(text())=%s])[%d]", tag, xpathLiteral(text), index)

	element, err := retry.Do(r.policy.Attempts, r.policy.Delay, func() (Element, error) {
		return r.waitAndScroll(func() (Element, error) {
			return r.page.WaitForXPath(expr, r.waitTimeout)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: text %q (tag %q, index %d): %w", ErrNotFound, text, tag, index, err)
	}

	r.log.Debugf("resolved text %q via xpath %q", text, expr)
	return element, nil
}

// waitAndScroll runs one resolution attempt: wait for the element, then
// scroll it into view.
func (r *Resolver) waitAndScroll(wait func() (Element, error)) (Element, error) {
	element, err := wait()
	if err != nil {
		return nil, err
	}
	if err := element.ScrollIntoView(); err != nil {
		return nil, err
	}
	return element, nil
}

// xpathLiteral quotes s as an XPath string literal. Text containing both
// quote characters falls back to a concat() expression, since XPath 1.0
// has no escape sequence inside literals.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	var parts []string
	for _, segment := range strings.Split(s, "'") {
		if segment != "" {
			parts = append(parts, "'"+segment+"'")
		}
		parts = append(parts, `"'"`)
	}
	parts = parts[:len(parts)-1] // drop the trailing quote segment
	return "concat(" + strings.Join(parts, ", ") + ")"
}
