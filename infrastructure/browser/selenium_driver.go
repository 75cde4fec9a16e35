package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// SeleniumDriver - interfaces.Driver over a WebDriver session
type SeleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  logrus.FieldLogger
}

var driverBinaries = map[string]string{
	BrowserChrome:  "chromedriver",
	BrowserFirefox: "geckodriver",
}

// findDriverBinary - finds the chromedriver/geckodriver executable path
func findDriverBinary(browser, configured string) (string, error) {
	name := driverBinaries[browser]
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join(os.Getenv("HOME"), "bin", name),
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%s not found. Please install it or set BROWSER_DRIVER_PATH environment variable", name)
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// seleniumCapabilities - browser capabilities for opts
func seleniumCapabilities(opts Options, chromeBinary string) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": opts.Browser}
	size := fmt.Sprintf("--window-size=%d,%d", opts.WindowWidth, opts.WindowHeight)

	switch opts.Browser {
	case BrowserFirefox:
		ff := firefox.Capabilities{
			Args: []string{fmt.Sprintf("--width=%d", opts.WindowWidth), fmt.Sprintf("--height=%d", opts.WindowHeight)},
		}
		if opts.Headless {
			ff.Args = append(ff.Args, "-headless")
		}
		caps.AddFirefox(ff)
	default:
		chromeCaps := chrome.Capabilities{
			Args: []string{
				"--disable-blink-features=AutomationControlled",
				"--disable-dev-shm-usage",
				"--disable-extensions",
				"--disable-popup-blocking",
				"--no-default-browser-check",
				"--no-first-run",
				"--no-sandbox",
				size,
			},
			W3C: true,
		}
		if opts.Headless {
			chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
		}
		if chromeBinary != "" {
			chromeCaps.Path = chromeBinary
		}
		caps.AddChrome(chromeCaps)
	}
	caps["acceptInsecureCerts"] = true
	return caps
}

// NewSeleniumDriver - starts a local driver service (or connects to
// opts.RemoteURL) and opens a browser session
func NewSeleniumDriver(opts Options, logger logrus.FieldLogger) (*SeleniumDriver, error) {
	var (
		service      *selenium.Service
		chromeBinary string
		url          = opts.RemoteURL
	)

	if url == "" {
		driverPath, err := findDriverBinary(opts.Browser, opts.DriverPath)
		if err != nil {
			return nil, fmt.Errorf("failed to find browser driver: %w", err)
		}
		logger.Infof("Using driver at: %s", driverPath)

		if opts.Browser == BrowserFirefox {
			service, err = selenium.NewGeckoDriverService(driverPath, opts.DriverPort)
		} else {
			service, err = selenium.NewChromeDriverService(driverPath, opts.DriverPort)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to start %s: %w", filepath.Base(driverPath), err)
		}
		url = fmt.Sprintf("http://localhost:%d/wd/hub", opts.DriverPort)
		if opts.Browser == BrowserFirefox {
			url = fmt.Sprintf("http://localhost:%d", opts.DriverPort)
		}
	}

	if opts.Browser == BrowserChrome {
		chromeBinary = findChromeBinary(opts.ChromeBinary)
		if chromeBinary != "" {
			logger.Infof("Using Chrome binary at: %s", chromeBinary)
		}
	}

	wd, err := selenium.NewRemote(seleniumCapabilities(opts, chromeBinary), url)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if opts.PageLoadTimeout > 0 {
		if err := wd.SetPageLoadTimeout(opts.PageLoadTimeout); err != nil {
			logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}
	if err := wd.ResizeWindow("", opts.WindowWidth, opts.WindowHeight); err != nil {
		logger.Debugf("Failed to resize window: %v", err)
	}

	return &SeleniumDriver{wd: wd, service: service, logger: logger}, nil
}

// legacy JSON wire protocol status codes
const (
	legacyNoSuchElement   = 7
	legacyStaleElement    = 10
	legacyNoAlert         = 27
	legacyInvalidSelector = 32
)

// mapSeleniumError - wraps WebDriver errors in the driver-neutral sentinels
func mapSeleniumError(err error) error {
	if err == nil {
		return nil
	}
	var se *selenium.Error
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case se.Err == "no such element" || se.LegacyCode == legacyNoSuchElement:
		return fmt.Errorf("%w: %s", entities.ErrNoSuchElement, se.Message)
	case se.Err == "stale element reference" || se.LegacyCode == legacyStaleElement:
		return fmt.Errorf("%w: %s", entities.ErrStaleElement, se.Message)
	case se.Err == "no such alert" || se.LegacyCode == legacyNoAlert:
		return fmt.Errorf("%w: %s", entities.ErrNoAlert, se.Message)
	case se.Err == "invalid selector" || se.LegacyCode == legacyInvalidSelector:
		return fmt.Errorf("%w: %s", entities.ErrInvalidLocator, se.Message)
	case se.Err == "invalid session id":
		return fmt.Errorf("%w: %s", entities.ErrDriverClosed, se.Message)
	}
	return err
}

// seleniumBy - WebDriver strategy and value for loc
func seleniumBy(loc entities.Locator) (string, string, error) {
	if err := loc.Validate(); err != nil {
		return "", "", err
	}
	switch loc.Strategy {
	case entities.ByID:
		return selenium.ByID, loc.Value, nil
	case entities.ByCSS:
		return selenium.ByCSSSelector, loc.Value, nil
	case entities.ByXPath:
		return selenium.ByXPATH, loc.Value, nil
	case entities.ByName:
		return selenium.ByName, loc.Value, nil
	case entities.ByLinkText:
		return selenium.ByLinkText, loc.Value, nil
	case entities.ByClassName:
		return selenium.ByClassName, loc.Value, nil
	case entities.ByTagName:
		return selenium.ByTagName, loc.Value, nil
	case entities.ByText:
		return selenium.ByXPATH, textXPath(loc.Value), nil
	}
	return "", "", fmt.Errorf("%w: %s", entities.ErrInvalidLocator, loc)
}

func (s *SeleniumDriver) Find(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	we, err := s.wd.FindElement(by, value)
	if err != nil {
		return nil, mapSeleniumError(err)
	}
	return &seleniumElement{we: we, wd: s.wd}, nil
}

func (s *SeleniumDriver) FindAll(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	found, err := s.wd.FindElements(by, value)
	if err != nil {
		if err = mapSeleniumError(err); errors.Is(err, entities.ErrNoSuchElement) {
			return []interfaces.Element{}, nil
		}
		return nil, err
	}
	return wrapSeleniumElements(s.wd, found), nil
}

func wrapSeleniumElements(wd selenium.WebDriver, found []selenium.WebElement) []interfaces.Element {
	out := make([]interfaces.Element, 0, len(found))
	for _, we := range found {
		out = append(out, &seleniumElement{we: we, wd: wd})
	}
	return out
}

// Navigate - navigates browser to specified URL
func (s *SeleniumDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.Get(url))
}

func (s *SeleniumDriver) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.Back())
}

func (s *SeleniumDriver) Forward(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.Forward())
}

func (s *SeleniumDriver) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.Refresh())
}

// CurrentURL - returns current page URL
func (s *SeleniumDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := s.wd.CurrentURL()
	return url, mapSeleniumError(err)
}

// Title - returns current page title
func (s *SeleniumDriver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title, err := s.wd.Title()
	return title, mapSeleniumError(err)
}

func (s *SeleniumDriver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := s.wd.PageSource()
	return src, mapSeleniumError(err)
}

// ExecuteScript - element arguments are passed through as WebDriver elements
func (s *SeleniumDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unwrapped := make([]interface{}, len(args))
	for i, arg := range args {
		if el, ok := arg.(*seleniumElement); ok {
			unwrapped[i] = el.we
			continue
		}
		unwrapped[i] = arg
	}
	res, err := s.wd.ExecuteScript(script, unwrapped)
	return res, mapSeleniumError(err)
}

// Screenshot - takes screenshot of current page
func (s *SeleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := s.wd.Screenshot()
	return png, mapSeleniumError(err)
}

func (s *SeleniumDriver) AlertText(ctx context.Context) (string, error) {
	text, err := s.wd.AlertText()
	return text, mapSeleniumError(err)
}

func (s *SeleniumDriver) AcceptAlert(ctx context.Context) error {
	return mapSeleniumError(s.wd.AcceptAlert())
}

func (s *SeleniumDriver) DismissAlert(ctx context.Context) error {
	return mapSeleniumError(s.wd.DismissAlert())
}

func (s *SeleniumDriver) SetAlertText(ctx context.Context, text string) error {
	return mapSeleniumError(s.wd.SetAlertText(text))
}

func (s *SeleniumDriver) SwitchToFrame(ctx context.Context, frame interfaces.Element) error {
	if frame == nil {
		return mapSeleniumError(s.wd.SwitchFrame(nil))
	}
	el, ok := frame.(*seleniumElement)
	if !ok {
		return fmt.Errorf("%w: frame element from another driver", entities.ErrUnsupported)
	}
	return mapSeleniumError(s.wd.SwitchFrame(el.we))
}

func (s *SeleniumDriver) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cookies, err := s.wd.GetCookies()
	if err != nil {
		return nil, mapSeleniumError(err)
	}
	out := make([]entities.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, entities.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
			Secure: c.Secure,
			Expiry: int64(c.Expiry),
		})
	}
	return out, nil
}

func (s *SeleniumDriver) DeleteAllCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.DeleteAllCookies())
}

func (s *SeleniumDriver) DeleteCookie(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapSeleniumError(s.wd.DeleteCookie(name))
}

// Close - closes browser and stops the driver service
func (s *SeleniumDriver) Close() error {
	var err error
	if s.wd != nil {
		err = s.wd.Quit()
	}
	if s.service != nil {
		if stopErr := s.service.Stop(); err == nil {
			err = stopErr
		}
	}
	return err
}

type seleniumElement struct {
	we selenium.WebElement
	wd selenium.WebDriver
}

func (e *seleniumElement) script(script string, args ...interface{}) (interface{}, error) {
	res, err := e.wd.ExecuteScript(script, append([]interface{}{e.we}, args...))
	return res, mapSeleniumError(err)
}

func (e *seleniumElement) Click() error {
	return mapSeleniumError(e.we.Click())
}

// DoubleClick - native double click, falling back to a dispatched event for
// W3C sessions without the legacy mouse endpoints
func (e *seleniumElement) DoubleClick() error {
	if err := e.we.MoveTo(0, 0); err == nil {
		if err := e.wd.DoubleClick(); err == nil {
			return nil
		}
	}
	_, err := e.script(dispatchMouseEvent, "dblclick")
	return err
}

func (e *seleniumElement) RightClick() error {
	if err := e.we.MoveTo(0, 0); err == nil {
		if err := e.wd.Click(selenium.RightButton); err == nil {
			return nil
		}
	}
	_, err := e.script(dispatchMouseEvent, "contextmenu")
	return err
}

func (e *seleniumElement) Hover() error {
	if err := e.we.MoveTo(0, 0); err == nil {
		return nil
	}
	_, err := e.script(dispatchMouseEvent, "mouseover")
	return err
}

func (e *seleniumElement) SendKeys(text string) error {
	return mapSeleniumError(e.we.SendKeys(text))
}

func (e *seleniumElement) Clear() error {
	return mapSeleniumError(e.we.Clear())
}

func (e *seleniumElement) Submit() error {
	return mapSeleniumError(e.we.Submit())
}

func (e *seleniumElement) ScrollIntoView() error {
	_, err := e.script(scrollIntoView)
	return err
}

func (e *seleniumElement) Text() (string, error) {
	text, err := e.we.Text()
	return text, mapSeleniumError(err)
}

// Attribute - WebDriver answers null for an absent attribute, which the
// client reports as "nil return value"
func (e *seleniumElement) Attribute(name string) (string, bool, error) {
	value, err := e.we.GetAttribute(name)
	if err != nil {
		if strings.Contains(err.Error(), "nil return value") {
			return "", false, nil
		}
		return "", false, mapSeleniumError(err)
	}
	return value, true, nil
}

func (e *seleniumElement) CSSProperty(name string) (string, error) {
	value, err := e.we.CSSProperty(name)
	return value, mapSeleniumError(err)
}

func (e *seleniumElement) TagName() (string, error) {
	tag, err := e.we.TagName()
	return strings.ToLower(tag), mapSeleniumError(err)
}

func (e *seleniumElement) Rect() (entities.Rect, error) {
	loc, err := e.we.Location()
	if err != nil {
		return entities.Rect{}, mapSeleniumError(err)
	}
	size, err := e.we.Size()
	if err != nil {
		return entities.Rect{}, mapSeleniumError(err)
	}
	return entities.Rect{X: loc.X, Y: loc.Y, Width: size.Width, Height: size.Height}, nil
}

func (e *seleniumElement) IsDisplayed() (bool, error) {
	ok, err := e.we.IsDisplayed()
	return ok, mapSeleniumError(err)
}

func (e *seleniumElement) IsEnabled() (bool, error) {
	ok, err := e.we.IsEnabled()
	return ok, mapSeleniumError(err)
}

func (e *seleniumElement) IsSelected() (bool, error) {
	ok, err := e.we.IsSelected()
	return ok, mapSeleniumError(err)
}

func (e *seleniumElement) FindAll(loc entities.Locator) ([]interfaces.Element, error) {
	by, value, err := seleniumBy(loc)
	if err != nil {
		return nil, err
	}
	if by == selenium.ByXPATH && strings.HasPrefix(value, "//") {
		// relative to this element rather than the document
		value = "." + value
	}
	found, err := e.we.FindElements(by, value)
	if err != nil {
		if err = mapSeleniumError(err); errors.Is(err, entities.ErrNoSuchElement) {
			return []interfaces.Element{}, nil
		}
		return nil, err
	}
	return wrapSeleniumElements(e.wd, found), nil
}

// Ensure SeleniumDriver implements Driver interface
var _ interfaces.Driver = (*SeleniumDriver)(nil)
