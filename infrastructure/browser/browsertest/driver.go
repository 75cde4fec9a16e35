// Package browsertest provides an in-memory Driver for exercising page
// objects and waits without a browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// Node is a fake DOM element. Set fields before Put; later changes must go
// through Driver.Mutate or Driver.After so polls observe them safely.
// OnClick and OnKey run outside the driver lock and may call Driver methods.
type Node struct {
	Tag       string
	Text      string
	Attrs     map[string]string
	CSS       map[string]string
	Hidden    bool
	Disabled  bool
	Selected  bool
	Bounds    entities.Rect
	ClickErr  error
	OnClick   func()
	OnKey     func(key string)
	// KeyFilter rewrites typed text before it reaches the value attribute
	KeyFilter func(string) string

	Clicks       int
	DoubleClicks int
	RightClicks  int
	Hovers       int
	Submits      int
	Keys         []string

	parent   *Node
	children map[entities.Locator][]*Node
	stale    bool
}

// NewNode - node with the given tag and attributes as key/value pairs
func NewNode(tag string, attrs ...string) *Node {
	n := &Node{Tag: tag, Attrs: map[string]string{}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs[attrs[i]] = attrs[i+1]
	}
	return n
}

// Input - text input with an empty value
func Input(id string) *Node {
	return NewNode("input", "id", id, "type", "text", "value", "")
}

// Button - button with the given text
func Button(text string) *Node {
	n := NewNode("button")
	n.Text = text
	return n
}

// Label - text-only element
func Label(text string) *Node {
	n := NewNode("div")
	n.Text = text
	return n
}

// Select - select element with options given as value/text pairs
func Select(id string, options ...string) *Node {
	n := NewNode("select", "id", id)
	for i := 0; i+1 < len(options); i += 2 {
		opt := NewNode("option", "value", options[i])
		opt.Text = options[i+1]
		n.AddChildren(entities.TagName("option"), opt)
	}
	return n
}

// Checkbox - checkbox input
func Checkbox(id string) *Node {
	return NewNode("input", "id", id, "type", "checkbox")
}

// Radio - radio input
func Radio(id, value string) *Node {
	return NewNode("input", "id", id, "type", "radio", "value", value)
}

// AddChildren - registers nodes resolvable from n through loc
func (n *Node) AddChildren(loc entities.Locator, nodes ...*Node) *Node {
	if n.children == nil {
		n.children = map[entities.Locator][]*Node{}
	}
	for _, c := range nodes {
		c.parent = n
	}
	n.children[loc] = append(n.children[loc], nodes...)
	return n
}

// Driver is an in-memory interfaces.Driver
type Driver struct {
	mu sync.Mutex

	nodes    map[entities.Locator][]*Node
	findErrs map[entities.Locator]error
	finds    map[entities.Locator]int

	url     string
	title   string
	source  string
	history []string
	pos     int

	alert      *string
	alertInput string
	alertLog   []string

	cookies []entities.Cookie
	frame   *Node
	scripts []string
	shots   int

	// OnNavigate is called with the target URL after the navigation is recorded
	OnNavigate func(url string)

	closed bool
}

// NewDriver - empty page at about:blank
func NewDriver() *Driver {
	return &Driver{
		nodes:    map[entities.Locator][]*Node{},
		findErrs: map[entities.Locator]error{},
		finds:    map[entities.Locator]int{},
		url:      "about:blank",
		history:  []string{"about:blank"},
	}
}

// Put - makes nodes resolvable through loc
func (d *Driver) Put(loc entities.Locator, nodes ...*Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes[loc] = append(d.nodes[loc], nodes...)
}

// PutAfter - Put once delay has elapsed
func (d *Driver) PutAfter(delay time.Duration, loc entities.Locator, nodes ...*Node) {
	time.AfterFunc(delay, func() { d.Put(loc, nodes...) })
}

// Remove - detaches every node under loc; outstanding handles go stale
func (d *Driver) Remove(loc entities.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.nodes[loc] {
		n.stale = true
	}
	delete(d.nodes, loc)
}

// RemoveAfter - Remove once delay has elapsed
func (d *Driver) RemoveAfter(delay time.Duration, loc entities.Locator) {
	time.AfterFunc(delay, func() { d.Remove(loc) })
}

// FailFind - Find on loc returns err until cleared with a nil err
func (d *Driver) FailFind(loc entities.Locator, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.findErrs, loc)
		return
	}
	d.findErrs[loc] = err
}

// Mutate - runs fn under the driver lock
func (d *Driver) Mutate(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// After - Mutate once delay has elapsed
func (d *Driver) After(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() { d.Mutate(fn) })
}

// SetPage - sets url, title and source of the current page
func (d *Driver) SetPage(url, title, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url, d.title, d.source = url, title, source
}

// SetTitle - sets the page title
func (d *Driver) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// OpenAlert - opens a dialog with text
func (d *Driver) OpenAlert(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alert = &text
}

// AlertLog - accepted/dismissed dialogs in order, as "accept:<text>" or "dismiss:<text>"
func (d *Driver) AlertLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.alertLog...)
}

// AddCookie - stores a cookie
func (d *Driver) AddCookie(c entities.Cookie) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = append(d.cookies, c)
}

// Finds - number of Find calls made for loc
func (d *Driver) Finds(loc entities.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finds[loc]
}

// Scripts - executed scripts in order
func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.scripts...)
}

// Screenshots - number of screenshots taken
func (d *Driver) Screenshots() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shots
}

// Closed - reports whether Close was called
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) check() error {
	if d.closed {
		return entities.ErrDriverClosed
	}
	return nil
}

// Find - first node under loc
func (d *Driver) Find(ctx context.Context, loc entities.Locator) (interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	d.finds[loc]++
	if err := d.findErrs[loc]; err != nil {
		return nil, err
	}
	nodes := d.nodes[loc]
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, loc)
	}
	return &element{d: d, n: nodes[0]}, nil
}

// FindAll - all nodes under loc
func (d *Driver) FindAll(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	d.finds[loc]++
	if err := d.findErrs[loc]; err != nil {
		return nil, err
	}
	out := make([]interfaces.Element, 0, len(d.nodes[loc]))
	for _, n := range d.nodes[loc] {
		out = append(out, &element{d: d, n: n})
	}
	return out, nil
}

// Navigate - records the URL and calls OnNavigate
func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	if err := d.check(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.history = append(d.history[:d.pos+1], url)
	d.pos = len(d.history) - 1
	d.url = url
	onNavigate := d.OnNavigate
	d.mu.Unlock()
	if onNavigate != nil {
		onNavigate(url)
	}
	return nil
}

func (d *Driver) Back(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos > 0 {
		d.pos--
		d.url = d.history[d.pos]
	}
	return d.check()
}

func (d *Driver) Forward(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos < len(d.history)-1 {
		d.pos++
		d.url = d.history[d.pos]
	}
	return d.check()
}

func (d *Driver) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.check()
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, d.check()
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, d.check()
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source, d.check()
}

// ExecuteScript - records the script and returns nil
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	d.scripts = append(d.scripts, script)
	return nil, nil
}

// Screenshot - returns a fixed PNG signature
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	d.shots++
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

func (d *Driver) AlertText(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.alert == nil {
		return "", entities.ErrNoAlert
	}
	return *d.alert, nil
}

func (d *Driver) AcceptAlert(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.alert == nil {
		return entities.ErrNoAlert
	}
	entry := "accept:" + *d.alert
	if d.alertInput != "" {
		entry += ":" + d.alertInput
	}
	d.alertLog = append(d.alertLog, entry)
	d.alert = nil
	d.alertInput = ""
	return nil
}

func (d *Driver) DismissAlert(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.alert == nil {
		return entities.ErrNoAlert
	}
	d.alertLog = append(d.alertLog, "dismiss:"+*d.alert)
	d.alert = nil
	d.alertInput = ""
	return nil
}

func (d *Driver) SetAlertText(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.alert == nil {
		return entities.ErrNoAlert
	}
	d.alertInput = text
	return nil
}

// SwitchToFrame - records the active frame node
func (d *Driver) SwitchToFrame(ctx context.Context, frame interfaces.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frame == nil {
		d.frame = nil
		return nil
	}
	el, ok := frame.(*element)
	if !ok {
		return fmt.Errorf("foreign element %T", frame)
	}
	d.frame = el.n
	return nil
}

// Frame - active frame node, nil for the top-level document
func (d *Driver) Frame() *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *Driver) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entities.Cookie(nil), d.cookies...), d.check()
}

func (d *Driver) DeleteAllCookies(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = nil
	return d.check()
}

func (d *Driver) DeleteCookie(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.cookies[:0]
	for _, c := range d.cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	d.cookies = kept
	return d.check()
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type element struct {
	d *Driver
	n *Node
}

func (e *element) lock() (func(), error) {
	e.d.mu.Lock()
	if e.d.closed {
		e.d.mu.Unlock()
		return nil, entities.ErrDriverClosed
	}
	if e.n.stale {
		e.d.mu.Unlock()
		return nil, entities.ErrStaleElement
	}
	return e.d.mu.Unlock, nil
}

func (e *element) Click() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	if e.n.ClickErr != nil {
		unlock()
		return e.n.ClickErr
	}
	e.n.Clicks++
	switch {
	case e.n.Tag == "input" && e.n.Attrs["type"] == "checkbox":
		e.n.Selected = !e.n.Selected
	case e.n.Tag == "input" && e.n.Attrs["type"] == "radio":
		e.n.Selected = true
	case e.n.Tag == "option":
		if e.n.parent != nil {
			for _, siblings := range e.n.parent.children {
				for _, s := range siblings {
					s.Selected = false
				}
			}
			e.n.parent.Attrs["value"] = e.n.Attrs["value"]
		}
		e.n.Selected = true
	}
	onClick := e.n.OnClick
	unlock()
	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *element) DoubleClick() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()
	e.n.DoubleClicks++
	return nil
}

func (e *element) RightClick() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()
	e.n.RightClicks++
	return nil
}

func (e *element) Hover() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()
	e.n.Hovers++
	return nil
}

var specialKeys = []string{
	entities.KeyBackspace, entities.KeyTab, entities.KeyEnter, entities.KeyEscape,
	entities.KeyPageUp, entities.KeyPageDown, entities.KeyEnd, entities.KeyHome,
	entities.KeyLeft, entities.KeyUp, entities.KeyRight, entities.KeyDown,
	entities.KeyDelete, entities.KeyControl,
}

func (e *element) SendKeys(text string) error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	e.n.Keys = append(e.n.Keys, text)

	var pressed []string
	plain := text
	for _, k := range specialKeys {
		if strings.Contains(plain, k) {
			pressed = append(pressed, k)
			if k == entities.KeyBackspace {
				v := []rune(e.n.Attrs["value"])
				n := strings.Count(plain, k)
				if n > len(v) {
					n = len(v)
				}
				e.n.Attrs["value"] = string(v[:len(v)-n])
			}
			plain = strings.ReplaceAll(plain, k, "")
		}
	}
	plain = strings.ReplaceAll(plain, entities.KeySpace, " ")
	if e.n.KeyFilter != nil {
		plain = e.n.KeyFilter(plain)
	}
	if _, ok := e.n.Attrs["value"]; ok {
		e.n.Attrs["value"] += plain
	}
	onKey := e.n.OnKey
	unlock()
	if onKey != nil {
		for _, k := range pressed {
			onKey(k)
		}
	}
	return nil
}

func (e *element) Clear() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := e.n.Attrs["value"]; ok {
		e.n.Attrs["value"] = ""
	}
	return nil
}

func (e *element) Submit() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	defer unlock()
	e.n.Submits++
	return nil
}

func (e *element) ScrollIntoView() error {
	unlock, err := e.lock()
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (e *element) Text() (string, error) {
	unlock, err := e.lock()
	if err != nil {
		return "", err
	}
	defer unlock()
	return e.n.Text, nil
}

func (e *element) Attribute(name string) (string, bool, error) {
	unlock, err := e.lock()
	if err != nil {
		return "", false, err
	}
	defer unlock()
	v, ok := e.n.Attrs[name]
	return v, ok, nil
}

func (e *element) CSSProperty(name string) (string, error) {
	unlock, err := e.lock()
	if err != nil {
		return "", err
	}
	defer unlock()
	return e.n.CSS[name], nil
}

func (e *element) TagName() (string, error) {
	unlock, err := e.lock()
	if err != nil {
		return "", err
	}
	defer unlock()
	return e.n.Tag, nil
}

func (e *element) Rect() (entities.Rect, error) {
	unlock, err := e.lock()
	if err != nil {
		return entities.Rect{}, err
	}
	defer unlock()
	return e.n.Bounds, nil
}

func (e *element) IsDisplayed() (bool, error) {
	unlock, err := e.lock()
	if err != nil {
		return false, err
	}
	defer unlock()
	return !e.n.Hidden, nil
}

func (e *element) IsEnabled() (bool, error) {
	unlock, err := e.lock()
	if err != nil {
		return false, err
	}
	defer unlock()
	return !e.n.Disabled, nil
}

func (e *element) IsSelected() (bool, error) {
	unlock, err := e.lock()
	if err != nil {
		return false, err
	}
	defer unlock()
	return e.n.Selected, nil
}

func (e *element) FindAll(loc entities.Locator) ([]interfaces.Element, error) {
	unlock, err := e.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := make([]interfaces.Element, 0, len(e.n.children[loc]))
	for _, c := range e.n.children[loc] {
		out = append(out, &element{d: e.d, n: c})
	}
	return out, nil
}

var _ interfaces.Driver = (*Driver)(nil)
