package browser

import "time"

// Page models the driver primitives the control layer needs from one
// browser tab context. The production implementation wraps a Playwright
// page; tests substitute fakes.
type Page interface {
	// Goto navigates to url and waits for the initial load signal.
	Goto(url string) error

	// WaitForLoad blocks until a load-completion signal is observed, or
	// the timeout elapses.
	WaitForLoad(timeout time.Duration) error

	// WaitForSelector waits up to timeout for an element matching the CSS
	// selector to exist and returns a handle to it.
	WaitForSelector(selector string, timeout time.Duration) (Element, error)

	// WaitForXPath is WaitForSelector for XPath expressions.
	WaitForXPath(expr string, timeout time.Duration) (Element, error)

	// Evaluate runs a script in the page context without awaiting any
	// promise it may produce.
	Evaluate(script string) error

	// Content returns the page's current HTML.
	Content() (string, error)

	// URL returns the page's current address.
	URL() string

	// Close closes this tab context only, never the whole browser.
	Close() error
}

// Element is an ephemeral handle to a resolved DOM node. It is valid only
// within the navigation context that produced it; after any navigation the
// holder must re-resolve instead of reusing a stale handle.
type Element interface {
	Click() error
	ScrollIntoView() error
	Type(text string) error
	InnerText() (string, error)
}
