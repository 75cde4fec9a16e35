package page

import (
	"context"
	"fmt"

	"storefront_automation/application/wait"
)

// WaitForAlert - waits for a JavaScript dialog and returns its text
func (p *BasePage) WaitForAlert(ctx context.Context, opts ...wait.Option) (string, error) {
	return wait.Until(ctx, p.driver, p.cfg, wait.AlertPresent(), opts...)
}

// IsAlertPresent - reports whether a dialog opens within the short timeout
func (p *BasePage) IsAlertPresent(ctx context.Context, opts ...wait.Option) bool {
	_, err := p.WaitForAlert(ctx, append([]wait.Option{wait.Short()}, opts...)...)
	return err == nil
}

// AcceptAlert - waits for a dialog, accepts it and returns its text
func (p *BasePage) AcceptAlert(ctx context.Context, opts ...wait.Option) (string, error) {
	text, err := p.WaitForAlert(ctx, opts...)
	if err != nil {
		return "", err
	}
	if err := p.driver.AcceptAlert(ctx); err != nil {
		return "", fmt.Errorf("failed to accept alert: %w", err)
	}
	p.logger.Debugf("Accepted alert: %s", text)
	return text, nil
}

// DismissAlert - waits for a dialog, dismisses it and returns its text
func (p *BasePage) DismissAlert(ctx context.Context, opts ...wait.Option) (string, error) {
	text, err := p.WaitForAlert(ctx, opts...)
	if err != nil {
		return "", err
	}
	if err := p.driver.DismissAlert(ctx); err != nil {
		return "", fmt.Errorf("failed to dismiss alert: %w", err)
	}
	p.logger.Debugf("Dismissed alert: %s", text)
	return text, nil
}

// TypeInAlert - types into a prompt dialog and accepts it
func (p *BasePage) TypeInAlert(ctx context.Context, text string, opts ...wait.Option) error {
	if _, err := p.WaitForAlert(ctx, opts...); err != nil {
		return err
	}
	if err := p.driver.SetAlertText(ctx, text); err != nil {
		return fmt.Errorf("failed to type into alert: %w", err)
	}
	if err := p.driver.AcceptAlert(ctx); err != nil {
		return fmt.Errorf("failed to accept alert: %w", err)
	}
	return nil
}
