// Package config defines the construction-time options for a pagedrive
// browser session: launch/attach selection, selector registry contents,
// retry budgets, and navigation URL policy. Options can be built in code
// or loaded from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagedrive/pkg/retry"
)

// ErrConfiguration marks malformed construction options and navigation
// policy violations.
var ErrConfiguration = errors.New("config: invalid configuration")

// Default timing values applied by WithDefaults.
const (
	// DefaultWaitTimeout bounds a single wait-for-element query. The retry
	// policy multiplies this into the effective wait window.
	DefaultWaitTimeout = 1 * time.Second

	// DefaultLoadTimeout bounds a single wait for a load-completion signal.
	DefaultLoadTimeout = 30 * time.Second

	// DefaultSettleDelay is the fixed pause after a click before waiting
	// for load completion.
	DefaultSettleDelay = 500 * time.Millisecond
)

// WindowSize holds browser window dimensions in pixels.
type WindowSize struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Options configures a browser session.
//
// Exactly one connection mode is chosen per construction: a non-zero
// AttachPort switches from launching an isolated browser process to
// attaching to an already-running one via its remote-debugging endpoint.
type Options struct {
	// Headless controls whether a launched browser runs without a visible
	// window. Nil means headless (the default). Ignored in attach mode.
	Headless *bool `yaml:"headless" json:"headless"`

	// WindowSize sets the window and viewport dimensions for a launched
	// browser. Nil leaves the browser default.
	WindowSize *WindowSize `yaml:"window_size" json:"window_size"`

	// Selectors maps symbolic element names to selector strings. The
	// mapping is fixed at session construction; nothing can be added later.
	Selectors map[string]string `yaml:"selectors" json:"selectors"`

	// AttachHost is the remote-debugging host. Defaults to 127.0.0.1 when
	// AttachPort is set.
	AttachHost string `yaml:"attach_host" json:"attach_host"`

	// AttachPort selects attach mode when non-zero.
	AttachPort uint16 `yaml:"attach_port" json:"attach_port"`

	// AllowedURLs and DeniedURLs are glob patterns checked before every
	// navigation. Deny wins; an empty allow list permits everything.
	AllowedURLs []string `yaml:"allowed_urls" json:"allowed_urls"`
	DeniedURLs  []string `yaml:"denied_urls" json:"denied_urls"`

	// Retry is the uniform attempt budget applied to every driver-facing
	// interaction. Zero value is replaced by retry.DefaultPolicy.
	Retry retry.Policy `yaml:"retry" json:"retry"`

	// WaitTimeout bounds a single element query inside the retry loop.
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`

	// LoadTimeout bounds a single wait for load completion.
	LoadTimeout time.Duration `yaml:"load_timeout" json:"load_timeout"`

	// SettleDelay is the fixed pause after a click before the load wait.
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

// DefaultOptions returns options for a headless launched browser with the
// standard retry budget and no registered selectors.
func DefaultOptions() Options {
	return Options{}.WithDefaults()
}

// WithDefaults returns a copy of o with zero-valued fields replaced by
// defaults. It does not validate; call Validate separately.
func (o Options) WithDefaults() Options {
	if o.Headless == nil {
		headless := true
		o.Headless = &headless
	}
	if o.Retry.Attempts == 0 {
		o.Retry = retry.DefaultPolicy
	}
	if o.WaitTimeout == 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	if o.LoadTimeout == 0 {
		o.LoadTimeout = DefaultLoadTimeout
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.AttachPort != 0 && o.AttachHost == "" {
		o.AttachHost = "127.0.0.1"
	}
	return o
}

// AttachMode reports whether the options select attach mode.
func (o Options) AttachMode() bool {
	return o.AttachPort != 0
}

// Validate checks the options for malformed values. All failures wrap
// ErrConfiguration.
func (o Options) Validate() error {
	if o.WindowSize != nil {
		if o.WindowSize.Width <= 0 || o.WindowSize.Height <= 0 {
			return fmt.Errorf("%w: window size must be positive, got %dx%d",
				ErrConfiguration, o.WindowSize.Width, o.WindowSize.Height)
		}
	}

	if o.AttachHost != "" && o.AttachPort == 0 {
		return fmt.Errorf("%w: attach_host %q set without attach_port",
			ErrConfiguration, o.AttachHost)
	}

	if o.Retry.Attempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", ErrConfiguration)
	}
	if o.Retry.Delay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", ErrConfiguration)
	}

	for _, pattern := range o.AllowedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%w: invalid allowed_urls pattern %q: %v",
				ErrConfiguration, pattern, err)
		}
	}
	for _, pattern := range o.DeniedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%w: invalid denied_urls pattern %q: %v",
				ErrConfiguration, pattern, err)
		}
	}

	return nil
}

// UnmarshalYAML decodes options from YAML, accepting duration fields in
// time.ParseDuration notation ("2s", "500ms").
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Headless    *bool             `yaml:"headless"`
		WindowSize  *WindowSize       `yaml:"window_size"`
		Selectors   map[string]string `yaml:"selectors"`
		AttachHost  string            `yaml:"attach_host"`
		AttachPort  uint16            `yaml:"attach_port"`
		AllowedURLs []string          `yaml:"allowed_urls"`
		DeniedURLs  []string          `yaml:"denied_urls"`
		Retry       struct {
			Attempts int    `yaml:"attempts"`
			Delay    string `yaml:"delay"`
		} `yaml:"retry"`
		WaitTimeout string `yaml:"wait_timeout"`
		LoadTimeout string `yaml:"load_timeout"`
		SettleDelay string `yaml:"settle_delay"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	o.Headless = raw.Headless
	o.WindowSize = raw.WindowSize
	o.Selectors = raw.Selectors
	o.AttachHost = raw.AttachHost
	o.AttachPort = raw.AttachPort
	o.AllowedURLs = raw.AllowedURLs
	o.DeniedURLs = raw.DeniedURLs
	o.Retry.Attempts = raw.Retry.Attempts

	for _, d := range []struct {
		text string
		dst  *time.Duration
	}{
		{raw.Retry.Delay, &o.Retry.Delay},
		{raw.WaitTimeout, &o.WaitTimeout},
		{raw.LoadTimeout, &o.LoadTimeout},
		{raw.SettleDelay, &o.SettleDelay},
	} {
		if d.text == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.text)
		if err != nil {
			return fmt.Errorf("%w: invalid duration %q: %v", ErrConfiguration, d.text, err)
		}
		*d.dst = parsed
	}

	return nil
}

// Load reads options from a YAML file, applies defaults, and validates.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, path, err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: failed to parse %s: %v", ErrConfiguration, path, err)
	}

	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
