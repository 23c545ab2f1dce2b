package browser

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagedrive/pkg/config"
	"github.com/entrhq/pagedrive/pkg/logging"
)

// Manager establishes browser sessions. Exactly one connection mode is
// chosen per Open call: a configured attach port switches from launching
// an isolated browser process to attaching to an already-running one via
// its remote-debugging discovery endpoint.
type Manager struct {
	pw     *playwright.Playwright
	client *http.Client
	log    *logging.Logger
}

// NewManager creates a session manager. A nil client gets a default with
// a 10 second timeout for discovery calls.
func NewManager(client *http.Client) *Manager {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	log, _ := logging.New("manager")
	return &Manager{
		client: client,
		log:    log,
	}
}

// init installs and starts the Playwright runtime once per manager.
// Output is discarded so the host application's terminal stays clean.
func (m *Manager) init() error {
	if m.pw != nil {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("%w: failed to install playwright: %v", ErrConnection, err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("%w: failed to start playwright: %v", ErrConnection, err)
	}

	m.pw = pw
	return nil
}

// Open yields a session according to the options: launch mode starts an
// isolated browser process, attach mode connects to the remote-debugging
// endpoint at the configured host and port. Construction failures wrap
// ErrConnection; malformed options wrap config.ErrConfiguration.
func (m *Manager) Open(opts config.Options) (*Session, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := m.init(); err != nil {
		return nil, err
	}

	if opts.AttachMode() {
		return m.attach(opts)
	}
	return m.launch(opts)
}

// launch starts a browser process with the configured flags and opens a
// fresh tab, which becomes the session's active context.
func (m *Manager) launch(opts config.Options) (*Session, error) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: opts.Headless,
	}
	if opts.WindowSize != nil {
		launchOpts.Args = []string{
			fmt.Sprintf("--window-size=%d,%d", opts.WindowSize.Width, opts.WindowSize.Height),
		}
	}

	browser, err := m.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to launch browser: %v", ErrConnection, err)
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.WindowSize != nil {
		contextOpts.Viewport = &playwright.Size{
			Width:  opts.WindowSize.Width,
			Height: opts.WindowSize.Height,
		}
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("%w: failed to create context: %v", ErrConnection, err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("%w: failed to create page: %v", ErrConnection, err)
	}

	session, err := NewSession(newPlaywrightPage(page), opts)
	if err != nil {
		context.Close()
		browser.Close()
		return nil, err
	}
	sessionLog, _ := logging.New("session")
	session.SetLogger(sessionLog)

	// Closing the session tears down the launched process too; nothing
	// else owns it.
	session.cleanup = func() error {
		if err := context.Close(); err != nil {
			return fmt.Errorf("%w: close context: %v", ErrConnection, err)
		}
		if err := browser.Close(); err != nil {
			return fmt.Errorf("%w: close browser: %v", ErrConnection, err)
		}
		return nil
	}

	m.log.Infof("launched browser (headless=%v)", *opts.Headless)
	return session, nil
}

// attach discovers a debuggable page at the remote endpoint and connects
// to it. The session owns only the tab context; closing it leaves the
// external browser process running.
func (m *Manager) attach(opts config.Options) (*Session, error) {
	endpoint := fmt.Sprintf("http://%s:%d/json", opts.AttachHost, opts.AttachPort)

	wsURL, err := discoverPageTarget(m.client, endpoint)
	if err != nil {
		return nil, err
	}

	browser, err := m.pw.Chromium.ConnectOverCDP(wsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrConnection, wsURL, err)
	}

	page, err := activePage(browser)
	if err != nil {
		browser.Close()
		return nil, err
	}

	session, err := NewSession(newPlaywrightPage(page), opts)
	if err != nil {
		browser.Close()
		return nil, err
	}
	sessionLog, _ := logging.New("session")
	session.SetLogger(sessionLog)

	m.log.Infof("attached to %s:%d", opts.AttachHost, opts.AttachPort)
	return session, nil
}

// targetDescriptor is one entry of the discovery endpoint's JSON array.
type targetDescriptor struct {
	Type                 string `json:"type"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// discoverPageTarget fetches the remote-debugging target list and returns
// the websocket debugger address of the first descriptor whose type is
// "page". The enumeration order is whatever the endpoint returned; it is
// not specified across browser versions, so with multiple pages open the
// selection is effectively arbitrary.
func discoverPageTarget(client *http.Client, endpoint string) (string, error) {
	resp, err := client.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: discovery request to %s failed: %v", ErrConnection, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: discovery endpoint %s returned status %d",
			ErrConnection, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read discovery response: %v", ErrConnection, err)
	}

	var targets []targetDescriptor
	if err := json.Unmarshal(body, &targets); err != nil {
		return "", fmt.Errorf("%w: malformed discovery response: %v", ErrConnection, err)
	}

	for _, target := range targets {
		if target.Type != "page" {
			continue
		}
		if target.WebSocketDebuggerURL == "" {
			return "", fmt.Errorf("%w: page target %q has no websocket debugger url",
				ErrConnection, target.URL)
		}
		return target.WebSocketDebuggerURL, nil
	}

	return "", fmt.Errorf("%w: no page target at %s", ErrConnection, endpoint)
}

// activePage picks the session's tab from an attached browser: the last
// page of the first context, matching the most recently created tab in
// the driver's enumeration order. The order is not guaranteed to be
// stable across browser versions.
func activePage(browser playwright.Browser) (playwright.Page, error) {
	contexts := browser.Contexts()
	if len(contexts) == 0 {
		return nil, fmt.Errorf("%w: attached browser has no contexts", ErrConnection)
	}

	pages := contexts[0].Pages()
	if len(pages) == 0 {
		page, err := contexts[0].NewPage()
		if err != nil {
			return nil, fmt.Errorf("%w: attached context has no pages and none could be created: %v",
				ErrConnection, err)
		}
		return page, nil
	}

	return pages[len(pages)-1], nil
}

// Shutdown stops the Playwright runtime. Sessions should be closed first.
func (m *Manager) Shutdown() error {
	if m.pw == nil {
		return nil
	}

	if err := m.pw.Stop(); err != nil {
		return fmt.Errorf("%w: failed to stop playwright: %v", ErrConnection, err)
	}
	m.pw = nil
	return nil
}
