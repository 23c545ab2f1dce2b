package browser

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/entrhq/pagedrive/pkg/config"
)

// urlGuard checks navigation targets against configured glob patterns.
// Deny patterns win over allow patterns; an empty allow list permits
// everything. The guard runs before any driver call, so a blocked URL
// never reaches the browser.
type urlGuard struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

func newURLGuard(allowed, denied []string) (*urlGuard, error) {
	g := &urlGuard{}

	for _, pattern := range allowed {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid allowed pattern %q: %v",
				config.ErrConfiguration, pattern, err)
		}
		g.allowed = append(g.allowed, compiled)
	}

	for _, pattern := range denied {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid denied pattern %q: %v",
				config.ErrConfiguration, pattern, err)
		}
		g.denied = append(g.denied, compiled)
	}

	return g, nil
}

// check returns an error when url is blocked by the pattern rules.
func (g *urlGuard) check(url string) error {
	for _, pattern := range g.denied {
		if pattern.Match(url) {
			return fmt.Errorf("%w: url %q matches a denied pattern",
				config.ErrConfiguration, url)
		}
	}

	if len(g.allowed) == 0 {
		return nil
	}
	for _, pattern := range g.allowed {
		if pattern.Match(url) {
			return nil
		}
	}

	return fmt.Errorf("%w: url %q matches no allowed pattern",
		config.ErrConfiguration, url)
}
