package page

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// AssertTextPresent - the element's text contains expected. A missing element
// stays an ElementNotFoundError; a present element with other text is an
// AssertionFailure carrying the last text seen.
func (p *BasePage) AssertTextPresent(ctx context.Context, loc entities.Locator, expected string, opts ...wait.Option) error {
	if _, err := p.Find(ctx, loc, opts...); err != nil {
		return err
	}

	var actual string
	cond := wait.Func(fmt.Sprintf("text %q in %s", expected, loc), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return "", false, err
		}
		text, err := el.Text()
		if err != nil {
			return "", false, err
		}
		actual = text
		return text, strings.Contains(text, expected), nil
	})

	_, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	return p.assertion(ctx, loc, fmt.Sprintf("text of %s", loc), expected, &actual, err)
}

// AssertElementPresent - loc resolves within the short timeout
func (p *BasePage) AssertElementPresent(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if p.IsElementPresent(ctx, loc, opts...) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return &entities.AssertionFailure{
		Subject:  fmt.Sprintf("presence of %s", loc),
		Expected: "present",
		Actual:   "absent",
	}
}

// AssertTitleContains - the page title contains expected
func (p *BasePage) AssertTitleContains(ctx context.Context, expected string, opts ...wait.Option) error {
	var actual string
	cond := wait.Func(fmt.Sprintf("title to contain %q", expected), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		title, err := d.Title(ctx)
		if err != nil {
			return "", false, err
		}
		actual = title
		return title, strings.Contains(title, expected), nil
	})
	_, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	return p.assertion(ctx, entities.Locator{}, "page title", expected, &actual, err)
}

// AssertURLContains - the current URL contains expected
func (p *BasePage) AssertURLContains(ctx context.Context, expected string, opts ...wait.Option) error {
	var actual string
	cond := wait.Func(fmt.Sprintf("url to contain %q", expected), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		url, err := d.CurrentURL(ctx)
		if err != nil {
			return "", false, err
		}
		actual = url
		return url, strings.Contains(url, expected), nil
	})
	_, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	return p.assertion(ctx, entities.Locator{}, "current url", expected, &actual, err)
}

// assertion maps the outcome of a comparison wait. Only a timeout whose
// subject was actually read becomes an AssertionFailure.
func (p *BasePage) assertion(ctx context.Context, loc entities.Locator, subject, expected string, actual *string, err error) error {
	if err == nil {
		return nil
	}
	var te *entities.TimeoutError
	if !errors.As(err, &te) {
		return err
	}
	if !te.Resolved {
		if loc.Value != "" {
			return p.notFound(ctx, loc, err)
		}
		return err
	}
	return &entities.AssertionFailure{Subject: subject, Expected: expected, Actual: *actual}
}
