package wait

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// Func - builds a condition from a plain function
func Func[T any](description string, check func(ctx context.Context, d interfaces.Driver) (T, bool, error)) Condition[T] {
	return Condition[T]{Description: description, Check: check}
}

// Presence - element is attached to the document
func Presence(loc entities.Locator) Condition[interfaces.Element] {
	return Func(fmt.Sprintf("presence of %s", loc), func(ctx context.Context, d interfaces.Driver) (interfaces.Element, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return nil, false, err
		}
		return el, true, nil
	})
}

// Visibility - element is present and displayed
func Visibility(loc entities.Locator) Condition[interfaces.Element] {
	return Func(fmt.Sprintf("visibility of %s", loc), func(ctx context.Context, d interfaces.Driver) (interfaces.Element, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return nil, false, err
		}
		displayed, err := el.IsDisplayed()
		if err != nil {
			return nil, false, err
		}
		return el, displayed, nil
	})
}

// Clickable - element is present, displayed and enabled
func Clickable(loc entities.Locator) Condition[interfaces.Element] {
	return Func(fmt.Sprintf("%s to be clickable", loc), func(ctx context.Context, d interfaces.Driver) (interfaces.Element, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return nil, false, err
		}
		displayed, err := el.IsDisplayed()
		if err != nil || !displayed {
			return nil, false, err
		}
		enabled, err := el.IsEnabled()
		if err != nil {
			return nil, false, err
		}
		return el, enabled, nil
	})
}

// Invisibility - element is absent, stale or hidden
func Invisibility(loc entities.Locator) Condition[struct{}] {
	return Func(fmt.Sprintf("invisibility of %s", loc), func(ctx context.Context, d interfaces.Driver) (struct{}, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			if errors.Is(err, entities.ErrNoSuchElement) || errors.Is(err, entities.ErrStaleElement) {
				return struct{}{}, true, nil
			}
			return struct{}{}, false, err
		}
		displayed, err := el.IsDisplayed()
		if err != nil {
			if errors.Is(err, entities.ErrStaleElement) {
				return struct{}{}, true, nil
			}
			return struct{}{}, false, err
		}
		return struct{}{}, !displayed, nil
	})
}

// TextPresent - element text contains text
func TextPresent(loc entities.Locator, text string) Condition[string] {
	return Func(fmt.Sprintf("text %q in %s", text, loc), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return "", false, err
		}
		actual, err := el.Text()
		if err != nil {
			return "", false, err
		}
		return actual, strings.Contains(actual, text), nil
	})
}

// AttributeEquals - attribute name of the element equals value
func AttributeEquals(loc entities.Locator, name, value string) Condition[string] {
	return Func(fmt.Sprintf("%s of %s to equal %q", name, loc, value), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return "", false, err
		}
		actual, _, err := el.Attribute(name)
		if err != nil {
			return "", false, err
		}
		return actual, actual == value, nil
	})
}

// TitleContains - page title contains part
func TitleContains(part string) Condition[string] {
	return Func(fmt.Sprintf("title to contain %q", part), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		title, err := d.Title(ctx)
		if err != nil {
			return "", false, err
		}
		return title, strings.Contains(title, part), nil
	})
}

// URLContains - current URL contains part
func URLContains(part string) Condition[string] {
	return Func(fmt.Sprintf("url to contain %q", part), func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		url, err := d.CurrentURL(ctx)
		if err != nil {
			return "", false, err
		}
		return url, strings.Contains(url, part), nil
	})
}

// AlertPresent - a JavaScript dialog is open; resolves to its text
func AlertPresent() Condition[string] {
	return Func("alert to be present", func(ctx context.Context, d interfaces.Driver) (string, bool, error) {
		text, err := d.AlertText(ctx)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	})
}
