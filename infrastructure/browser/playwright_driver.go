package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// PlaywrightDriver - interfaces.Driver over a single Playwright page.
// Dialogs are held open until AcceptAlert or DismissAlert so they behave like
// WebDriver alerts.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  logrus.FieldLogger

	mu         sync.Mutex
	frame      playwright.Frame
	dialog     playwright.Dialog
	promptText *string
}

// NewPlaywrightDriver - launches the browser named in opts and opens a page
func NewPlaywrightDriver(opts Options, logger logrus.FieldLogger) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType := pw.Chromium
	switch opts.Browser {
	case BrowserFirefox:
		browserType = pw.Firefox
	case BrowserWebKit:
		browserType = pw.WebKit
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if browserType == pw.Chromium {
		launch.Args = []string{
			"--disable-popup-blocking",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		}
		if opts.ChromeBinary != "" {
			launch.ExecutablePath = playwright.String(opts.ChromeBinary)
		}
	}

	browser, err := browserType.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.WindowWidth,
			Height: opts.WindowHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	if opts.ActionTimeout > 0 {
		bctx.SetDefaultTimeout(float64(opts.ActionTimeout.Milliseconds()))
	}
	if opts.PageLoadTimeout > 0 {
		bctx.SetDefaultNavigationTimeout(float64(opts.PageLoadTimeout.Milliseconds()))
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d := &PlaywrightDriver{pw: pw, browser: browser, context: bctx, page: page, logger: logger}
	page.OnDialog(func(dialog playwright.Dialog) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.dialog = dialog
		d.promptText = nil
	})
	return d, nil
}

// playwrightSelector - selector engine syntax for loc
func playwrightSelector(loc entities.Locator) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}
	switch loc.Strategy {
	case entities.ByID:
		return fmt.Sprintf("[id=%q]", loc.Value), nil
	case entities.ByCSS:
		return "css=" + loc.Value, nil
	case entities.ByXPath:
		return "xpath=" + loc.Value, nil
	case entities.ByName:
		return fmt.Sprintf("[name=%q]", loc.Value), nil
	case entities.ByLinkText:
		return "xpath=" + fmt.Sprintf("//a[normalize-space(.)=%s]", xpathLiteral(strings.TrimSpace(loc.Value))), nil
	case entities.ByClassName:
		return "css=." + loc.Value, nil
	case entities.ByTagName:
		return "css=" + loc.Value, nil
	case entities.ByText:
		return "xpath=" + textXPath(loc.Value), nil
	}
	return "", fmt.Errorf("%w: %s", entities.ErrInvalidLocator, loc)
}

// mapPlaywrightError - wraps Playwright errors in the driver-neutral sentinels
func mapPlaywrightError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not attached to the DOM"),
		strings.Contains(msg, "Execution context was destroyed"),
		strings.Contains(msg, "JSHandle is disposed"):
		return fmt.Errorf("%w: %v", entities.ErrStaleElement, err)
	case strings.Contains(msg, "Unexpected token"),
		strings.Contains(msg, "is not a valid selector"),
		strings.Contains(msg, "is not a valid XPath"):
		return fmt.Errorf("%w: %v", entities.ErrInvalidLocator, err)
	case strings.Contains(msg, "Target page, context or browser has been closed"),
		strings.Contains(msg, "Target closed"):
		return fmt.Errorf("%w: %v", entities.ErrDriverClosed, err)
	}
	return err
}

func (d *PlaywrightDriver) currentFrame() playwright.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *PlaywrightDriver) query(selector string) (playwright.ElementHandle, error) {
	if frame := d.currentFrame(); frame != nil {
		return frame.QuerySelector(selector)
	}
	return d.page.QuerySelector(selector)
}

func (d *PlaywrightDriver) queryAll(selector string) ([]playwright.ElementHandle, error) {
	if frame := d.currentFrame(); frame != nil {
		return frame.QuerySelectorAll(selector)
	}
	return d.page.QuerySelectorAll(selector)
}

func (d *PlaywrightDriver) Find(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	handle, err := d.query(selector)
	if err != nil {
		return nil, mapPlaywrightError(err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, loc)
	}
	return &playwrightElement{h: handle}, nil
}

func (d *PlaywrightDriver) FindAll(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	handles, err := d.queryAll(selector)
	if err != nil {
		return nil, mapPlaywrightError(err)
	}
	return wrapHandles(handles), nil
}

func wrapHandles(handles []playwright.ElementHandle) []interfaces.Element {
	out := make([]interfaces.Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &playwrightElement{h: h})
	}
	return out
}

// resetFrame - navigation always lands in the top-level document
func (d *PlaywrightDriver) resetFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = nil
}

// Navigate - navigates to the specified URL
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.resetFrame()
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return mapPlaywrightError(err)
}

func (d *PlaywrightDriver) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.resetFrame()
	_, err := d.page.GoBack()
	return mapPlaywrightError(err)
}

func (d *PlaywrightDriver) Forward(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.resetFrame()
	_, err := d.page.GoForward()
	return mapPlaywrightError(err)
}

func (d *PlaywrightDriver) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.resetFrame()
	_, err := d.page.Reload()
	return mapPlaywrightError(err)
}

func (d *PlaywrightDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

func (d *PlaywrightDriver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title, err := d.page.Title()
	return title, mapPlaywrightError(err)
}

func (d *PlaywrightDriver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if frame := d.currentFrame(); frame != nil {
		src, err := frame.Content()
		return src, mapPlaywrightError(err)
	}
	src, err := d.page.Content()
	return src, mapPlaywrightError(err)
}

// ExecuteScript - runs a WebDriver style function body, so scripts written
// against arguments[i] work unchanged
func (d *PlaywrightDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unwrapped := make([]interface{}, len(args))
	for i, arg := range args {
		if el, ok := arg.(*playwrightElement); ok {
			unwrapped[i] = el.h
			continue
		}
		unwrapped[i] = arg
	}
	expr := fmt.Sprintf("(args) => (function() {\n%s\n}).apply(null, args)", script)

	var (
		res interface{}
		err error
	)
	if frame := d.currentFrame(); frame != nil {
		res, err = frame.Evaluate(expr, unwrapped)
	} else {
		res, err = d.page.Evaluate(expr, unwrapped)
	}
	return res, mapPlaywrightError(err)
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := d.page.Screenshot()
	return png, mapPlaywrightError(err)
}

func (d *PlaywrightDriver) pendingDialog() (playwright.Dialog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dialog == nil {
		return nil, entities.ErrNoAlert
	}
	return d.dialog, nil
}

func (d *PlaywrightDriver) AlertText(ctx context.Context) (string, error) {
	dialog, err := d.pendingDialog()
	if err != nil {
		return "", err
	}
	return dialog.Message(), nil
}

func (d *PlaywrightDriver) AcceptAlert(ctx context.Context) error {
	dialog, err := d.pendingDialog()
	if err != nil {
		return err
	}
	d.mu.Lock()
	text := d.promptText
	d.dialog, d.promptText = nil, nil
	d.mu.Unlock()

	if text != nil {
		return mapPlaywrightError(dialog.Accept(*text))
	}
	return mapPlaywrightError(dialog.Accept())
}

func (d *PlaywrightDriver) DismissAlert(ctx context.Context) error {
	dialog, err := d.pendingDialog()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.dialog, d.promptText = nil, nil
	d.mu.Unlock()
	return mapPlaywrightError(dialog.Dismiss())
}

// SetAlertText - the text is sent when the prompt is accepted
func (d *PlaywrightDriver) SetAlertText(ctx context.Context, text string) error {
	if _, err := d.pendingDialog(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.promptText = &text
	return nil
}

func (d *PlaywrightDriver) SwitchToFrame(ctx context.Context, frame interfaces.Element) error {
	if frame == nil {
		d.resetFrame()
		return nil
	}
	el, ok := frame.(*playwrightElement)
	if !ok {
		return fmt.Errorf("%w: frame element from another driver", entities.ErrUnsupported)
	}
	content, err := el.h.ContentFrame()
	if err != nil {
		return mapPlaywrightError(err)
	}
	if content == nil {
		return fmt.Errorf("%w: element is not a frame", entities.ErrUnsupported)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = content
	return nil
}

func (d *PlaywrightDriver) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cookies, err := d.context.Cookies()
	if err != nil {
		return nil, mapPlaywrightError(err)
	}
	out := make([]entities.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, entities.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
			Expiry:   int64(c.Expires),
		})
	}
	return out, nil
}

func (d *PlaywrightDriver) DeleteAllCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapPlaywrightError(d.context.ClearCookies())
}

// DeleteCookie - clears the jar and puts back every cookie not named name
func (d *PlaywrightDriver) DeleteCookie(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cookies, err := d.context.Cookies()
	if err != nil {
		return mapPlaywrightError(err)
	}
	keep := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == name {
			continue
		}
		keep = append(keep, playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			Expires:  playwright.Float(c.Expires),
			HttpOnly: playwright.Bool(c.HttpOnly),
			Secure:   playwright.Bool(c.Secure),
			SameSite: c.SameSite,
		})
	}
	if len(keep) == len(cookies) {
		return nil
	}
	if err := d.context.ClearCookies(); err != nil {
		return mapPlaywrightError(err)
	}
	if len(keep) == 0 {
		return nil
	}
	return mapPlaywrightError(d.context.AddCookies(keep))
}

// Close - closes the browser and stops playwright
func (d *PlaywrightDriver) Close() error {
	var err error
	if d.context != nil {
		err = multierr.Append(err, ignoreClosed(d.context.Close()))
		d.context = nil
	}
	if d.browser != nil {
		err = multierr.Append(err, ignoreClosed(d.browser.Close()))
		d.browser = nil
	}
	if d.pw != nil {
		err = multierr.Append(err, d.pw.Stop())
		d.pw = nil
	}
	return err
}

func ignoreClosed(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "closed") {
		return nil
	}
	return err
}

// playwrightKeys - WebDriver key code points to Playwright key names
var playwrightKeys = map[rune]string{
	[]rune(entities.KeyBackspace)[0]: "Backspace",
	[]rune(entities.KeyTab)[0]:       "Tab",
	[]rune(entities.KeyEnter)[0]:     "Enter",
	[]rune(entities.KeyEscape)[0]:    "Escape",
	[]rune(entities.KeySpace)[0]:     "Space",
	[]rune(entities.KeyPageUp)[0]:    "PageUp",
	[]rune(entities.KeyPageDown)[0]:  "PageDown",
	[]rune(entities.KeyEnd)[0]:       "End",
	[]rune(entities.KeyHome)[0]:      "Home",
	[]rune(entities.KeyLeft)[0]:      "ArrowLeft",
	[]rune(entities.KeyUp)[0]:        "ArrowUp",
	[]rune(entities.KeyRight)[0]:     "ArrowRight",
	[]rune(entities.KeyDown)[0]:      "ArrowDown",
	[]rune(entities.KeyDelete)[0]:    "Delete",
	[]rune(entities.KeyControl)[0]:   "Control",
}

// keyChunk - either literal text or a single named key
type keyChunk struct {
	text string
	key  string
}

// splitKeys - breaks WebDriver key input into typed text and key presses
func splitKeys(input string) []keyChunk {
	var (
		chunks []keyChunk
		text   strings.Builder
	)
	for _, r := range input {
		name, special := playwrightKeys[r]
		if !special {
			text.WriteRune(r)
			continue
		}
		if text.Len() > 0 {
			chunks = append(chunks, keyChunk{text: text.String()})
			text.Reset()
		}
		chunks = append(chunks, keyChunk{key: name})
	}
	if text.Len() > 0 {
		chunks = append(chunks, keyChunk{text: text.String()})
	}
	return chunks
}

const (
	selectOption = `el => {
		const select = el.closest('select');
		el.selected = true;
		if (select) {
			select.dispatchEvent(new Event('input', {bubbles: true}));
			select.dispatchEvent(new Event('change', {bubbles: true}));
		}
	}`

	readAttribute = `(el, name) => {
		if (name === 'value' && 'value' in el) return String(el.value);
		if (!el.hasAttribute(name)) return null;
		return el.getAttribute(name);
	}`
)

type playwrightElement struct {
	h playwright.ElementHandle
}

func (e *playwrightElement) eval(script string, arg ...interface{}) (interface{}, error) {
	res, err := e.h.Evaluate(script, arg...)
	return res, mapPlaywrightError(err)
}

// Click - options are picked through the DOM; the native click on an
// <option> does not change the selection
func (e *playwrightElement) Click() error {
	tag, err := e.TagName()
	if err != nil {
		return err
	}
	if tag == "option" {
		_, err := e.eval(selectOption)
		return err
	}
	return mapPlaywrightError(e.h.Click())
}

func (e *playwrightElement) DoubleClick() error {
	return mapPlaywrightError(e.h.Dblclick())
}

func (e *playwrightElement) RightClick() error {
	return mapPlaywrightError(e.h.Click(playwright.ElementHandleClickOptions{
		Button: playwright.MouseButtonRight,
	}))
}

func (e *playwrightElement) Hover() error {
	return mapPlaywrightError(e.h.Hover())
}

func (e *playwrightElement) SendKeys(text string) error {
	for _, chunk := range splitKeys(text) {
		var err error
		if chunk.key != "" {
			err = e.h.Press(chunk.key)
		} else {
			err = e.h.Type(chunk.text)
		}
		if err != nil {
			return mapPlaywrightError(err)
		}
	}
	return nil
}

func (e *playwrightElement) Clear() error {
	return mapPlaywrightError(e.h.Fill(""))
}

func (e *playwrightElement) Submit() error {
	_, err := e.eval(`el => {
		const form = el.form || el.closest('form');
		if (!form) throw new Error('element is not inside a form');
		form.requestSubmit();
	}`)
	return err
}

func (e *playwrightElement) ScrollIntoView() error {
	return mapPlaywrightError(e.h.ScrollIntoViewIfNeeded())
}

func (e *playwrightElement) Text() (string, error) {
	text, err := e.h.InnerText()
	return text, mapPlaywrightError(err)
}

func (e *playwrightElement) Attribute(name string) (string, bool, error) {
	res, err := e.eval(readAttribute, name)
	if err != nil {
		return "", false, err
	}
	if res == nil {
		return "", false, nil
	}
	return fmt.Sprint(res), true, nil
}

func (e *playwrightElement) CSSProperty(name string) (string, error) {
	res, err := e.eval(`(el, name) => getComputedStyle(el).getPropertyValue(name)`, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(res), nil
}

func (e *playwrightElement) TagName() (string, error) {
	res, err := e.eval(`el => el.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(res), nil
}

func (e *playwrightElement) Rect() (entities.Rect, error) {
	box, err := e.h.BoundingBox()
	if err != nil {
		return entities.Rect{}, mapPlaywrightError(err)
	}
	if box == nil {
		// not rendered
		return entities.Rect{}, nil
	}
	return entities.Rect{
		X:      int(box.X),
		Y:      int(box.Y),
		Width:  int(box.Width),
		Height: int(box.Height),
	}, nil
}

func (e *playwrightElement) IsDisplayed() (bool, error) {
	ok, err := e.h.IsVisible()
	return ok, mapPlaywrightError(err)
}

func (e *playwrightElement) IsEnabled() (bool, error) {
	ok, err := e.h.IsEnabled()
	return ok, mapPlaywrightError(err)
}

func (e *playwrightElement) IsSelected() (bool, error) {
	res, err := e.eval(`el => !!(el.checked || el.selected)`)
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	return ok, nil
}

func (e *playwrightElement) FindAll(loc entities.Locator) ([]interfaces.Element, error) {
	selector, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(selector, "xpath=//") {
		// relative to this element rather than the document
		selector = "xpath=." + strings.TrimPrefix(selector, "xpath=")
	}
	handles, err := e.h.QuerySelectorAll(selector)
	if err != nil {
		return nil, mapPlaywrightError(err)
	}
	return wrapHandles(handles), nil
}

// Ensure PlaywrightDriver implements Driver interface
var _ interfaces.Driver = (*PlaywrightDriver)(nil)
