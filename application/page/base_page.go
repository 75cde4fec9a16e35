// Package page provides the interaction vocabulary every page object builds
// on. Each call re-resolves its locator and bounds itself with a wait, so
// element handles never outlive the operation that found them.
package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultTypingDelay is the pause between characters in TypeSlowly
const DefaultTypingDelay = 50 * time.Millisecond

// BasePage wraps a driver with waiting interactions. It keeps no state
// between calls and must not be shared between concurrent test executions.
type BasePage struct {
	driver interfaces.Driver
	cfg    wait.Config
	logger logrus.FieldLogger
}

// New - creates a base page over driver with the given wait budgets
func New(driver interfaces.Driver, cfg wait.Config, logger logrus.FieldLogger) *BasePage {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		logger = l
	}
	return &BasePage{
		driver: driver,
		cfg:    cfg,
		logger: logger,
	}
}

func (p *BasePage) Driver() interfaces.Driver { return p.driver }

func (p *BasePage) WaitConfig() wait.Config { return p.cfg }

func (p *BasePage) Logger() logrus.FieldLogger { return p.logger }

func (p *BasePage) log(loc entities.Locator) logrus.FieldLogger {
	return p.logger.WithField("locator", loc.String())
}

// Find - waits for the element to be present and returns a fresh handle
func (p *BasePage) Find(ctx context.Context, loc entities.Locator, opts ...wait.Option) (interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	el, err := wait.Until(ctx, p.driver, p.cfg, wait.Presence(loc), opts...)
	if err != nil {
		return nil, p.notFound(ctx, loc, err)
	}
	return el, nil
}

// FindAll - returns every element currently matching loc without waiting
func (p *BasePage) FindAll(ctx context.Context, loc entities.Locator) ([]interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	els, err := p.driver.FindAll(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to find elements %s: %w", loc, err)
	}
	return els, nil
}

// Click - waits until the element is present, displayed and enabled, then clicks it
func (p *BasePage) Click(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	p.log(loc).Debug("Clicking")

	el, err := wait.Until(ctx, p.driver, p.cfg, wait.Clickable(loc), opts...)
	if err != nil {
		return notInteractable(loc, "click", err)
	}
	if err := el.Click(); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "click", Err: err}
	}
	return nil
}

// DoubleClick - waits for visibility, then double-clicks
func (p *BasePage) DoubleClick(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.interact(ctx, loc, "double click", func(el interfaces.Element) error { return el.DoubleClick() }, opts...)
}

// RightClick - waits for visibility, then opens the context menu
func (p *BasePage) RightClick(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.interact(ctx, loc, "right click", func(el interfaces.Element) error { return el.RightClick() }, opts...)
}

// Hover - waits for visibility, then moves the pointer over the element
func (p *BasePage) Hover(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.interact(ctx, loc, "hover", func(el interfaces.Element) error { return el.Hover() }, opts...)
}

// Clear - waits for visibility, then empties the field
func (p *BasePage) Clear(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.interact(ctx, loc, "clear", func(el interfaces.Element) error { return el.Clear() }, opts...)
}

// SubmitForm - waits for presence, then submits the form the element belongs to
func (p *BasePage) SubmitForm(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	el, err := p.Find(ctx, loc, opts...)
	if err != nil {
		return err
	}
	p.log(loc).Debug("Submitting form")
	if err := el.Submit(); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "submit", Err: err}
	}
	return nil
}

func (p *BasePage) interact(ctx context.Context, loc entities.Locator, action string, fn func(interfaces.Element) error, opts ...wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	p.log(loc).Debugf("Performing %s", action)

	el, err := wait.Until(ctx, p.driver, p.cfg, wait.Visibility(loc), opts...)
	if err != nil {
		return notInteractable(loc, action, err)
	}
	if err := fn(el); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: action, Err: err}
	}
	return nil
}

// TypeOption tunes TypeText and TypeSlowly
type TypeOption func(*typeSettings)

type typeSettings struct {
	clear    bool
	delay    time.Duration
	waitOpts []wait.Option
}

// WithoutClear - appends to the current content instead of replacing it
func WithoutClear() TypeOption {
	return func(s *typeSettings) { s.clear = false }
}

// WithDelay - pause between characters for TypeSlowly
func WithDelay(d time.Duration) TypeOption {
	return func(s *typeSettings) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithWait - budget overrides for the visibility wait
func WithWait(opts ...wait.Option) TypeOption {
	return func(s *typeSettings) { s.waitOpts = append(s.waitOpts, opts...) }
}

func newTypeSettings(opts []TypeOption) typeSettings {
	s := typeSettings{clear: true, delay: DefaultTypingDelay}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// TypeText - waits for visibility, clears the field unless WithoutClear is
// given, sends text and then re-reads the value to confirm it landed.
func (p *BasePage) TypeText(ctx context.Context, loc entities.Locator, text string, opts ...TypeOption) error {
	s := newTypeSettings(opts)
	return p.typeInto(ctx, loc, text, s, func(el interfaces.Element) error {
		return el.SendKeys(text)
	})
}

// TypeSlowly - like TypeText but sends one character at a time
func (p *BasePage) TypeSlowly(ctx context.Context, loc entities.Locator, text string, opts ...TypeOption) error {
	s := newTypeSettings(opts)
	return p.typeInto(ctx, loc, text, s, func(el interfaces.Element) error {
		for i, r := range text {
			if i > 0 {
				if err := sleep(ctx, s.delay); err != nil {
					return err
				}
			}
			if err := el.SendKeys(string(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *BasePage) typeInto(ctx context.Context, loc entities.Locator, text string, s typeSettings, send func(interfaces.Element) error) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	p.log(loc).Debugf("Typing %d characters", len(text))

	el, err := wait.Until(ctx, p.driver, p.cfg, wait.Visibility(loc), s.waitOpts...)
	if err != nil {
		return notInteractable(loc, "type", err)
	}
	if s.clear {
		if err := el.Clear(); err != nil {
			return &entities.ElementNotInteractableError{Locator: loc, Action: "clear", Err: err}
		}
	}
	if err := send(el); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "type", Err: err}
	}

	// contenteditable and similar elements expose no value to compare against
	if _, ok, err := el.Attribute("value"); err != nil || !ok {
		return nil
	}
	return p.verifyValue(ctx, loc, text, s.clear)
}

func (p *BasePage) verifyValue(ctx context.Context, loc entities.Locator, text string, exact bool) error {
	desc := fmt.Sprintf("value of %s to equal %q", loc, text)
	if !exact {
		desc = fmt.Sprintf("value of %s to end with %q", loc, text)
	}

	var actual string
	cond := wait.Func(desc, func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return "", false, err
		}
		v, _, err := el.Attribute("value")
		if err != nil {
			return "", false, err
		}
		actual = v
		if exact {
			return v, v == text, nil
		}
		return v, strings.HasSuffix(v, text), nil
	})

	if _, err := wait.Until(ctx, p.driver, p.cfg, cond, wait.Short()); err != nil {
		if !entities.IsTimeout(err) {
			return err
		}
		p.log(loc).Warnf("Field value mismatch after typing: %q", actual)
		return &entities.ElementNotInteractableError{
			Locator: loc,
			Action:  "type",
			Err:     fmt.Errorf("field holds %q: %w", actual, err),
		}
	}
	return nil
}

// GetText - visible text of the element; an absent element is an
// ElementNotFoundError, never an empty string
func (p *BasePage) GetText(ctx context.Context, loc entities.Locator, opts ...wait.Option) (string, error) {
	return read(ctx, p, loc, "text", func(el interfaces.Element) (string, error) {
		return el.Text()
	}, opts...)
}

// GetAttribute - attribute value of the element; an absent attribute reads as ""
func (p *BasePage) GetAttribute(ctx context.Context, loc entities.Locator, name string, opts ...wait.Option) (string, error) {
	v, _, err := p.LookupAttribute(ctx, loc, name, opts...)
	return v, err
}

// LookupAttribute - like GetAttribute but reports whether the attribute exists
func (p *BasePage) LookupAttribute(ctx context.Context, loc entities.Locator, name string, opts ...wait.Option) (string, bool, error) {
	type lookup struct {
		value string
		ok    bool
	}
	res, err := read(ctx, p, loc, "attribute "+name, func(el interfaces.Element) (lookup, error) {
		v, ok, err := el.Attribute(name)
		return lookup{value: v, ok: ok}, err
	}, opts...)
	return res.value, res.ok, err
}

// GetCSSProperty - computed style property of the element
func (p *BasePage) GetCSSProperty(ctx context.Context, loc entities.Locator, name string, opts ...wait.Option) (string, error) {
	return read(ctx, p, loc, "css "+name, func(el interfaces.Element) (string, error) {
		return el.CSSProperty(name)
	}, opts...)
}

// GetElementRect - location and size of the element
func (p *BasePage) GetElementRect(ctx context.Context, loc entities.Locator, opts ...wait.Option) (entities.Rect, error) {
	return read(ctx, p, loc, "rect", func(el interfaces.Element) (entities.Rect, error) {
		return el.Rect()
	}, opts...)
}

// CountElements - number of elements currently matching loc
func (p *BasePage) CountElements(ctx context.Context, loc entities.Locator) (int, error) {
	els, err := p.FindAll(ctx, loc)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// read resolves loc and applies fn inside the same poll, so a handle that
// goes stale between lookup and read is simply retried
func read[T any](ctx context.Context, p *BasePage, loc entities.Locator, what string, fn func(interfaces.Element) (T, error), opts ...wait.Option) (T, error) {
	var zero T
	if err := loc.Validate(); err != nil {
		return zero, err
	}
	cond := wait.Func(fmt.Sprintf("%s of %s", what, loc), func(ctx context.Context, d interfaces.Driver) (T, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return zero, false, err
		}
		v, err := fn(el)
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	})
	v, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	if err != nil {
		return zero, p.notFound(ctx, loc, err)
	}
	return v, nil
}

func notInteractable(loc entities.Locator, action string, err error) error {
	if !entities.IsTimeout(err) {
		return err
	}
	return &entities.ElementNotInteractableError{Locator: loc, Action: action, Err: err}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
