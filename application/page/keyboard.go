package page

import (
	"context"
	"strings"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// PressKey - sends a single key (one of the entities.Key* constants) to the element
func (p *BasePage) PressKey(ctx context.Context, loc entities.Locator, key string, opts ...wait.Option) error {
	return p.interact(ctx, loc, "key press", func(el interfaces.Element) error {
		return el.SendKeys(key)
	}, opts...)
}

func (p *BasePage) PressEnter(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.PressKey(ctx, loc, entities.KeyEnter, opts...)
}

func (p *BasePage) PressTab(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.PressKey(ctx, loc, entities.KeyTab, opts...)
}

func (p *BasePage) PressEscape(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	return p.PressKey(ctx, loc, entities.KeyEscape, opts...)
}

// PressBackspace - deletes count characters before the caret
func (p *BasePage) PressBackspace(ctx context.Context, loc entities.Locator, count int, opts ...wait.Option) error {
	if count <= 0 {
		return nil
	}
	return p.PressKey(ctx, loc, strings.Repeat(entities.KeyBackspace, count), opts...)
}

// TypeAndTab - types text and moves focus to the next field
func (p *BasePage) TypeAndTab(ctx context.Context, loc entities.Locator, text string, opts ...TypeOption) error {
	if err := p.TypeText(ctx, loc, text, opts...); err != nil {
		return err
	}
	return p.PressTab(ctx, loc, newTypeSettings(opts).waitOpts...)
}

// TypeAndEnter - types text and presses Enter in the same field
func (p *BasePage) TypeAndEnter(ctx context.Context, loc entities.Locator, text string, opts ...TypeOption) error {
	if err := p.TypeText(ctx, loc, text, opts...); err != nil {
		return err
	}
	return p.PressEnter(ctx, loc, newTypeSettings(opts).waitOpts...)
}
