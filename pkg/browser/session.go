package browser

import (
	"fmt"
	"time"

	"github.com/entrhq/pagedrive/pkg/config"
	"github.com/entrhq/pagedrive/pkg/logging"
	"github.com/entrhq/pagedrive/pkg/retry"
)

// DefaultDialogMessage is shown by ShowDialogAndWait when no message is
// supplied.
const DefaultDialogMessage = "Please press OK to continue."

// Session owns exactly one live browser tab context and executes
// operations against it strictly one at a time. It is not safe for
// concurrent use; parallel work belongs in independent sessions, which
// may share a Registry but never a Session.
type Session struct {
	page        Page
	resolver    *Resolver
	guard       *urlGuard
	policy      retry.Policy
	settleDelay time.Duration
	loadTimeout time.Duration
	log         *logging.Logger

	// cleanup tears down manager-owned resources beyond the tab itself.
	// Nil for sessions constructed directly over a Page.
	cleanup func() error

	createdAt  time.Time
	currentURL string
}

// NewSession wraps an already-connected driver page in a session. Most
// callers go through Manager.Open instead; this constructor is the seam
// for embedding a custom driver or a test fake.
func NewSession(page Page, opts config.Options) (*Session, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	guard, err := newURLGuard(opts.AllowedURLs, opts.DeniedURLs)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(opts.Selectors)

	return &Session{
		page:        page,
		resolver:    newResolver(page, registry, opts.Retry, opts.WaitTimeout, nil),
		guard:       guard,
		policy:      opts.Retry,
		settleDelay: opts.SettleDelay,
		loadTimeout: opts.LoadTimeout,
		createdAt:   time.Now(),
	}, nil
}

// SetLogger attaches a component logger to the session and its resolver.
// Sessions log nothing until one is set.
func (s *Session) SetLogger(log *logging.Logger) {
	s.log = log
	s.resolver.log = log
}

// Resolver returns the session's element resolver.
func (s *Session) Resolver() *Resolver {
	return s.resolver
}

// CurrentURL returns the address recorded after the last navigation or
// click.
func (s *Session) CurrentURL() string {
	return s.currentURL
}

// CreatedAt returns when the session was constructed.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Navigate drives the page to url and blocks until a load-completion
// signal is observed. The whole goto-and-wait runs under the retry
// policy; exhaustion fails with ErrInteraction. The URL is checked
// against the configured allow/deny patterns before any driver call.
func (s *Session) Navigate(url string) error {
	if err := s.guard.check(url); err != nil {
		return err
	}

	err := s.policy.Do(func() error {
		if err := s.page.Goto(url); err != nil {
			return err
		}
		return s.page.WaitForLoad(s.loadTimeout)
	})
	if err != nil {
		return fmt.Errorf("%w: navigate to %q: %w", ErrInteraction, url, err)
	}

	s.currentURL = s.page.URL()
	s.log.Infof("navigated to %s", url)
	return nil
}

// Click resolves target via the registry and clicks it. After the click it
// pauses for the settle delay, then waits for a load-completion signal
// regardless of whether the click triggered a navigation.
//
// The unconditional load wait is a known imprecision: for clicks that
// navigate nowhere the signal never comes and the wait burns its full
// timeout. The timeout is treated as the page having settled rather than
// as a failure, so non-navigating clicks are slow but not fatal.
func (s *Session) Click(target string) error {
	element, err := s.resolver.ByName(target)
	if err != nil {
		return err
	}

	if err := s.policy.Do(element.Click); err != nil {
		return fmt.Errorf("%w: click %q: %w", ErrInteraction, target, err)
	}

	time.Sleep(s.settleDelay)
	if err := s.page.WaitForLoad(s.loadTimeout); err != nil {
		s.log.Warnf("click %q: no load signal within %s: %v", target, s.loadTimeout, err)
	}

	s.currentURL = s.page.URL()
	s.log.Infof("clicked %s", target)
	return nil
}

// Fill resolves target via the registry and types content into it. A nil
// content is a silent no-op: declarative sequences may carry fill steps
// whose content is absent, and those steps are skipped by contract rather
// than failed.
func (s *Session) Fill(target string, content *string) error {
	if content == nil {
		s.log.Debugf("fill %q skipped: no content", target)
		return nil
	}

	element, err := s.resolver.ByName(target)
	if err != nil {
		return err
	}

	err = s.policy.Do(func() error {
		return element.Type(*content)
	})
	if err != nil {
		return fmt.Errorf("%w: fill %q: %w", ErrInteraction, target, err)
	}

	s.log.Infof("filled %s", target)
	return nil
}

// InnerText resolves target via the registry and returns its inner text.
// The resolution inside each attempt re-queries the page, so the text read
// never goes through a stale handle.
func (s *Session) InnerText(target string) (string, error) {
	// Registry misses are permanent; fail before the retry loop.
	if _, err := s.resolver.Registry().Lookup(target); err != nil {
		return "", err
	}

	text, err := retry.Do(s.policy.Attempts, s.policy.Delay, func() (string, error) {
		element, err := s.resolver.ByName(target)
		if err != nil {
			return "", err
		}
		return element.InnerText()
	})
	if err != nil {
		return "", fmt.Errorf("%w: inner text of %q: %w", ErrInteraction, target, err)
	}
	return text, nil
}

// InnerTextByText resolves an element by its text content and returns its
// inner text. Tag defaults to "*", index is 1-based in document order.
func (s *Session) InnerTextByText(text, tag string, index int) (string, error) {
	element, err := s.resolver.ByText(text, tag, index)
	if err != nil {
		return "", err
	}

	result, err := retry.Do(s.policy.Attempts, s.policy.Delay, element.InnerText)
	if err != nil {
		return "", fmt.Errorf("%w: inner text by text %q: %w", ErrInteraction, text, err)
	}
	return result, nil
}

// ShowDialogAndWait injects a browser-native alert with the given message,
// or DefaultDialogMessage when message is empty.
//
// Despite the name, this returns once the alert has been dispatched, not
// when the user dismisses it. The dispatch is deferred inside the page so
// the evaluate call itself never blocks on the modal.
func (s *Session) ShowDialogAndWait(message string) error {
	if message == "" {
		message = DefaultDialogMessage
	}

	script := fmt.Sprintf("setTimeout(() => alert(%q), 0)", message)
	if err := s.page.Evaluate(script); err != nil {
		return fmt.Errorf("%w: show dialog: %w", ErrInteraction, err)
	}
	return nil
}

// PageText extracts the page's visible text: HTML is parsed, script and
// style content dropped, and whitespace normalized. Output longer than
// maxLen is truncated with a marker; maxLen <= 0 means no limit.
func (s *Session) PageText(maxLen int) (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("%w: page content: %w", ErrInteraction, err)
	}
	return visibleText(html, maxLen)
}

// Close terminates the session's tab context. In attach mode the browser
// process itself stays alive; in launch mode process teardown belongs to
// Manager.Shutdown.
func (s *Session) Close() error {
	if err := s.page.Close(); err != nil {
		return fmt.Errorf("%w: close tab: %w", ErrConnection, err)
	}
	if s.cleanup != nil {
		return s.cleanup()
	}
	return nil
}
