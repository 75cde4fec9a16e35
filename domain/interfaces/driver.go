package interfaces

import (
	"context"

	"storefront_automation/domain/entities"
)

// Driver is the browser automation handle the interaction layer consumes.
// One Driver belongs to exactly one test execution at a time; implementations
// are not required to be safe for concurrent use.
type Driver interface {
	// Find resolves the first element matching the locator, or returns an
	// error wrapping entities.ErrNoSuchElement
	Find(ctx context.Context, locator entities.Locator) (Element, error)

	// FindAll resolves all matching elements; no match is an empty slice
	FindAll(ctx context.Context, locator entities.Locator) ([]Element, error)

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error

	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)

	// ExecuteScript runs a function body; arguments are available as arguments[i]
	ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error)

	Screenshot(ctx context.Context) ([]byte, error)

	AlertText(ctx context.Context) (string, error)
	AcceptAlert(ctx context.Context) error
	DismissAlert(ctx context.Context) error
	SetAlertText(ctx context.Context, text string) error

	// SwitchToFrame makes subsequent lookups resolve inside the frame element;
	// a nil element switches back to the top-level document
	SwitchToFrame(ctx context.Context, frame Element) error

	Cookies(ctx context.Context) ([]entities.Cookie, error)
	DeleteAllCookies(ctx context.Context) error
	DeleteCookie(ctx context.Context, name string) error

	// Close releases the browser and any backing service
	Close() error
}

// Element is a short-lived handle to a resolved element. It may go stale as
// soon as the page re-renders; callers re-resolve instead of caching it.
type Element interface {
	Click() error
	DoubleClick() error
	RightClick() error
	Hover() error
	SendKeys(text string) error
	Clear() error
	Submit() error
	ScrollIntoView() error

	Text() (string, error)
	// Attribute returns ok=false when the attribute is absent
	Attribute(name string) (value string, ok bool, err error)
	CSSProperty(name string) (string, error)
	TagName() (string, error)
	Rect() (entities.Rect, error)

	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)

	// FindAll resolves descendants of this element
	FindAll(locator entities.Locator) ([]Element, error)
}
