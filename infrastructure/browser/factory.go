package browser

import (
	"fmt"
	"strings"
	"time"

	"storefront_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Supported browsers
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserWebKit  = "webkit"
)

// Supported automation backends
const (
	BackendSelenium   = "selenium"
	BackendPlaywright = "playwright"
)

// Options - everything needed to open one browser session
type Options struct {
	Backend         string
	Browser         string
	Headless        bool
	WindowWidth     int
	WindowHeight    int
	PageLoadTimeout time.Duration
	ActionTimeout   time.Duration

	// Selenium only
	DriverPath   string
	ChromeBinary string
	RemoteURL    string
	DriverPort   int
}

// backendBrowsers - which browsers each backend can drive
var backendBrowsers = map[string][]string{
	BackendSelenium:   {BrowserChrome, BrowserFirefox},
	BackendPlaywright: {BrowserChrome, BrowserFirefox, BrowserWebKit},
}

// Validate - normalises names and rejects combinations no backend supports
func (o *Options) Validate() error {
	o.Backend = strings.ToLower(strings.TrimSpace(o.Backend))
	o.Browser = strings.ToLower(strings.TrimSpace(o.Browser))
	if o.Backend == "" {
		o.Backend = BackendSelenium
	}
	if o.Browser == "" {
		o.Browser = BrowserChrome
	}

	browsers, ok := backendBrowsers[o.Backend]
	if !ok {
		return fmt.Errorf("unknown browser backend %q", o.Backend)
	}
	supported := false
	for _, b := range browsers {
		if b == o.Browser {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("browser %q is not supported by the %s backend", o.Browser, o.Backend)
	}
	if o.WindowWidth <= 0 || o.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.WindowWidth, o.WindowHeight)
	}
	if o.Backend == BackendSelenium && o.RemoteURL == "" && o.DriverPort <= 0 {
		return fmt.Errorf("invalid driver port %d", o.DriverPort)
	}
	return nil
}

// NewDriver - opens a browser session on the configured backend
func NewDriver(opts Options, logger logrus.FieldLogger) (interfaces.Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"backend":  opts.Backend,
		"browser":  opts.Browser,
		"headless": opts.Headless,
	}).Info("Starting browser")

	if opts.Backend == BackendPlaywright {
		d, err := NewPlaywrightDriver(opts, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := NewSeleniumDriver(opts, logger)
	if err != nil {
		return nil, err
	}
	return d, nil
}
