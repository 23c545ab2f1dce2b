// Package browser is a control layer over a remote browser-automation
// protocol. It drives page navigation, locates and manipulates DOM elements
// by symbolic name or text content, and replays declarative operation
// sequences, absorbing the timing non-determinism of asynchronous page
// rendering behind a uniform retry discipline.
//
// # Architecture
//
// The package is built around five pieces:
//
//  1. Manager: launches an isolated browser process or attaches to a
//     running one via its remote-debugging discovery endpoint, yielding a
//     Session.
//  2. Registry: an immutable mapping from symbolic element names to
//     selector strings, fixed at construction.
//  3. Resolver: turns a registry name or a text/tag/index query into a
//     live element handle, retried under the session's policy.
//  4. Session: the operation surface — Navigate, Click, Fill, InnerText,
//     and friends — each driver-facing call wrapped in the same retry
//     budget.
//  5. Operation sequences: a closed set of declarative steps executed
//     strictly in order by Session.Run; the first exhausted step aborts
//     the rest.
//
// The underlying driver (Playwright) sits behind the small Page and
// Element interfaces, so everything above the protocol boundary is
// testable with fakes.
//
// # Timing model
//
// Every network- or DOM-facing primitive is retried with a fixed attempt
// budget and a fixed inter-attempt delay; there is no backoff growth and
// no cancellation once a retry loop has begun. Element handles are
// ephemeral: any navigation invalidates previously resolved handles, and
// resolution always re-queries the live page.
//
// # Example
//
//	opts := config.Options{
//	    Selectors: map[string]string{
//	        "search_box":    `input[name=q]`,
//	        "search_button": `input[type=submit]`,
//	    },
//	}
//	manager := browser.NewManager(nil)
//	session, err := manager.Open(opts)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.Run([]browser.Operation{
//	    browser.Navigate("https://example.test/"),
//	    browser.Fill("search_box", "hello"),
//	    browser.Click("search_button"),
//	})
package browser
