package page

import (
	"context"
	"fmt"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// The Is* family treats a timeout as a valid negative answer: they use the
// short timeout unless overridden and never return an error.

// IsElementPresent - reports whether loc resolves within the short timeout
func (p *BasePage) IsElementPresent(ctx context.Context, loc entities.Locator, opts ...wait.Option) bool {
	return p.check(ctx, loc, wait.Presence(loc), opts)
}

// IsVisible - reports whether loc resolves to a displayed element
func (p *BasePage) IsVisible(ctx context.Context, loc entities.Locator, opts ...wait.Option) bool {
	return p.check(ctx, loc, wait.Visibility(loc), opts)
}

// IsEnabled - reports whether loc resolves to an enabled element
func (p *BasePage) IsEnabled(ctx context.Context, loc entities.Locator, opts ...wait.Option) bool {
	return p.check(ctx, loc, elementState(loc, "enabled", interfaces.Element.IsEnabled), opts)
}

// IsSelected - reports whether loc resolves to a selected option, checkbox or radio
func (p *BasePage) IsSelected(ctx context.Context, loc entities.Locator, opts ...wait.Option) bool {
	return p.check(ctx, loc, elementState(loc, "selected", interfaces.Element.IsSelected), opts)
}

func (p *BasePage) check(ctx context.Context, loc entities.Locator, cond wait.Condition[interfaces.Element], opts []wait.Option) bool {
	if err := loc.Validate(); err != nil {
		p.log(loc).Warnf("Skipping check: %v", err)
		return false
	}
	_, err := wait.Until(ctx, p.driver, p.cfg, cond, append([]wait.Option{wait.Short()}, opts...)...)
	return err == nil
}

func elementState(loc entities.Locator, state string, fn func(interfaces.Element) (bool, error)) wait.Condition[interfaces.Element] {
	return wait.Func(fmt.Sprintf("%s to be %s", loc, state), func(ctx context.Context, d interfaces.Driver) (interfaces.Element, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return nil, false, err
		}
		ok, err := fn(el)
		if err != nil {
			return nil, false, err
		}
		return el, ok, nil
	})
}

// WaitForVisible - waits until loc is displayed
func (p *BasePage) WaitForVisible(ctx context.Context, loc entities.Locator, opts ...wait.Option) (interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return wait.Until(ctx, p.driver, p.cfg, wait.Visibility(loc), opts...)
}

// WaitForClickable - waits until loc is displayed and enabled
func (p *BasePage) WaitForClickable(ctx context.Context, loc entities.Locator, opts ...wait.Option) (interfaces.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return wait.Until(ctx, p.driver, p.cfg, wait.Clickable(loc), opts...)
}

// WaitForInvisible - waits until loc is hidden or gone
func (p *BasePage) WaitForInvisible(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	_, err := wait.Until(ctx, p.driver, p.cfg, wait.Invisibility(loc), opts...)
	return err
}

// WaitFor - waits for an arbitrary predicate over the driver
func (p *BasePage) WaitFor(ctx context.Context, description string, check func(ctx context.Context, d interfaces.Driver) (bool, error), opts ...wait.Option) error {
	cond := wait.Func(description, func(ctx context.Context, d interfaces.Driver) (struct{}, bool, error) {
		ok, err := check(ctx, d)
		return struct{}{}, ok, err
	})
	_, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	return err
}
