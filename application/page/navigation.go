package page

import (
	"context"
	"fmt"

	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
)

// Navigation and page-level reads are plain passthroughs to the driver. They
// do not wait and are not retried.

func (p *BasePage) NavigateTo(ctx context.Context, url string) error {
	p.logger.Infof("Navigating to: %s", url)
	if err := p.driver.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *BasePage) NavigateBack(ctx context.Context) error {
	if err := p.driver.Back(ctx); err != nil {
		return fmt.Errorf("failed to navigate back: %w", err)
	}
	return nil
}

func (p *BasePage) NavigateForward(ctx context.Context) error {
	if err := p.driver.Forward(ctx); err != nil {
		return fmt.Errorf("failed to navigate forward: %w", err)
	}
	return nil
}

func (p *BasePage) RefreshPage(ctx context.Context) error {
	if err := p.driver.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh page: %w", err)
	}
	return nil
}

func (p *BasePage) GetCurrentURL(ctx context.Context) (string, error) {
	return p.driver.CurrentURL(ctx)
}

func (p *BasePage) GetPageTitle(ctx context.Context) (string, error) {
	return p.driver.Title(ctx)
}

func (p *BasePage) GetPageSource(ctx context.Context) (string, error) {
	return p.driver.PageSource(ctx)
}

// ExecuteScript - runs a function body in the page; arguments are arguments[i]
func (p *BasePage) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	res, err := p.driver.ExecuteScript(ctx, script, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}
	return res, nil
}

// TakeScreenshot - PNG bytes of the current viewport
func (p *BasePage) TakeScreenshot(ctx context.Context) ([]byte, error) {
	png, err := p.driver.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return png, nil
}

// SwitchToFrame - waits for the frame element and makes later lookups resolve inside it
func (p *BasePage) SwitchToFrame(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	el, err := p.Find(ctx, loc, opts...)
	if err != nil {
		return err
	}
	if err := p.driver.SwitchToFrame(ctx, el); err != nil {
		return fmt.Errorf("failed to switch to frame %s: %w", loc, err)
	}
	return nil
}

// SwitchToDefaultContent - returns lookups to the top-level document
func (p *BasePage) SwitchToDefaultContent(ctx context.Context) error {
	if err := p.driver.SwitchToFrame(ctx, nil); err != nil {
		return fmt.Errorf("failed to switch to default content: %w", err)
	}
	return nil
}

// ScrollToElement - waits for presence and scrolls the element into view
func (p *BasePage) ScrollToElement(ctx context.Context, loc entities.Locator, opts ...wait.Option) error {
	el, err := p.Find(ctx, loc, opts...)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return &entities.ElementNotInteractableError{Locator: loc, Action: "scroll", Err: err}
	}
	return nil
}

func (p *BasePage) ScrollToTop(ctx context.Context) error {
	_, err := p.ExecuteScript(ctx, "window.scrollTo(0, 0);")
	return err
}

func (p *BasePage) ScrollToBottom(ctx context.Context) error {
	_, err := p.ExecuteScript(ctx, "window.scrollTo(0, document.body.scrollHeight);")
	return err
}

// ScrollBy - scrolls the window by x, y pixels
func (p *BasePage) ScrollBy(ctx context.Context, x, y int) error {
	_, err := p.ExecuteScript(ctx, "window.scrollBy(arguments[0], arguments[1]);", x, y)
	return err
}

func (p *BasePage) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	return p.driver.Cookies(ctx)
}

// DeleteAllCookies - drops every cookie of the current session
func (p *BasePage) DeleteAllCookies(ctx context.Context) error {
	p.logger.Info("Deleting all cookies")
	if err := p.driver.DeleteAllCookies(ctx); err != nil {
		return fmt.Errorf("failed to delete cookies: %w", err)
	}
	return nil
}

func (p *BasePage) DeleteCookie(ctx context.Context, name string) error {
	if err := p.driver.DeleteCookie(ctx, name); err != nil {
		return fmt.Errorf("failed to delete cookie %s: %w", name, err)
	}
	return nil
}
