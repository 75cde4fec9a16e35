package page

import (
	"context"
	"fmt"
	"strings"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

var optionLocator = entities.TagName("option")

// SelectByVisibleText - picks the option whose trimmed text equals text.
// Options that are populated asynchronously are waited for.
func (p *BasePage) SelectByVisibleText(ctx context.Context, loc entities.Locator, text string, opts ...wait.Option) error {
	return p.selectOption(ctx, loc, fmt.Sprintf("option %q", text), func(_ int, opt interfaces.Element) (bool, error) {
		t, err := opt.Text()
		return strings.TrimSpace(t) == text, err
	}, opts)
}

// SelectByValue - picks the option whose value attribute equals value
func (p *BasePage) SelectByValue(ctx context.Context, loc entities.Locator, value string, opts ...wait.Option) error {
	return p.selectOption(ctx, loc, fmt.Sprintf("option value %q", value), func(_ int, opt interfaces.Element) (bool, error) {
		v, _, err := opt.Attribute("value")
		return v == value, err
	}, opts)
}

// SelectByIndex - picks the option at a zero-based index
func (p *BasePage) SelectByIndex(ctx context.Context, loc entities.Locator, index int, opts ...wait.Option) error {
	return p.selectOption(ctx, loc, fmt.Sprintf("option #%d", index), func(i int, _ interfaces.Element) (bool, error) {
		return i == index, nil
	}, opts)
}

func (p *BasePage) selectOption(ctx context.Context, loc entities.Locator, what string, match func(int, interfaces.Element) (bool, error), opts []wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	p.log(loc).Debugf("Selecting %s", what)

	cond := wait.Func(fmt.Sprintf("%s in %s", what, loc), func(ctx context.Context, d interfaces.Driver) (interfaces.Element, bool, error) {
		sel, err := d.Find(ctx, loc)
		if err != nil {
			return nil, false, err
		}
		options, err := sel.FindAll(optionLocator)
		if err != nil {
			return nil, false, err
		}
		for i, opt := range options {
			ok, err := match(i, opt)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return opt, true, nil
			}
		}
		return nil, false, nil
	})

	opt, err := wait.Until(ctx, p.driver, p.cfg, cond, opts...)
	if err != nil {
		return notInteractable(loc, "select "+what, err)
	}
	if err := opt.Click(); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "select " + what, Err: err}
	}
	return nil
}

// SelectedOptionText - trimmed text of the first selected option
func (p *BasePage) SelectedOptionText(ctx context.Context, loc entities.Locator, opts ...wait.Option) (string, error) {
	return read(ctx, p, loc, "selected option", func(sel interfaces.Element) (string, error) {
		options, err := sel.FindAll(optionLocator)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			selected, err := opt.IsSelected()
			if err != nil {
				return "", err
			}
			if selected {
				t, err := opt.Text()
				return strings.TrimSpace(t), err
			}
		}
		return "", nil
	}, opts...)
}

// Options - trimmed texts of every option in the select
func (p *BasePage) Options(ctx context.Context, loc entities.Locator, opts ...wait.Option) ([]string, error) {
	return read(ctx, p, loc, "options", func(sel interfaces.Element) ([]string, error) {
		options, err := sel.FindAll(optionLocator)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(options))
		for _, opt := range options {
			t, err := opt.Text()
			if err != nil {
				return nil, err
			}
			texts = append(texts, strings.TrimSpace(t))
		}
		return texts, nil
	}, opts...)
}

// IsChecked - selection state of a checkbox or radio; fails if the element is absent
func (p *BasePage) IsChecked(ctx context.Context, loc entities.Locator, opts ...wait.Option) (bool, error) {
	return read(ctx, p, loc, "checked state", interfaces.Element.IsSelected, opts...)
}

// SetChecked - clicks the checkbox or radio only if its state differs, then
// confirms the new state
func (p *BasePage) SetChecked(ctx context.Context, loc entities.Locator, checked bool, opts ...wait.Option) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	el, err := wait.Until(ctx, p.driver, p.cfg, wait.Clickable(loc), opts...)
	if err != nil {
		return notInteractable(loc, "check", err)
	}
	current, err := el.IsSelected()
	if err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "check", Err: err}
	}
	if current == checked {
		return nil
	}
	if err := el.Click(); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "check", Err: err}
	}

	state := "unchecked"
	if checked {
		state = "checked"
	}
	cond := wait.Func(fmt.Sprintf("%s to be %s", loc, state), func(ctx context.Context, d interfaces.Driver) (bool, bool, error) {
		el, err := d.Find(ctx, loc)
		if err != nil {
			return false, false, err
		}
		selected, err := el.IsSelected()
		if err != nil {
			return false, false, err
		}
		return selected, selected == checked, nil
	})
	if _, err := wait.Until(ctx, p.driver, p.cfg, cond, wait.Short()); err != nil {
		return notInteractable(loc, "check", err)
	}
	return nil
}

func (p *BasePage) Check(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.SetChecked(ctx, loc, true, opts...)
}

func (p *BasePage) Uncheck(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.SetChecked(ctx, loc, false, opts...)
}

// Toggle - flips the checkbox state
func (p *BasePage) Toggle(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	current, err := p.IsChecked(ctx, loc, opts...)
	if err != nil {
		return err
	}
	return p.SetChecked(ctx, loc, !current, opts...)
}
