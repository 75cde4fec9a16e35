package entities

import (
	"fmt"
	"strings"
)

// Strategy names how a Locator is resolved by the driver
type Strategy string

const (
	ByID        Strategy = "id"
	ByCSS       Strategy = "css selector"
	ByXPath     Strategy = "xpath"
	ByText      Strategy = "text"
	ByName      Strategy = "name"
	ByLinkText  Strategy = "link text"
	ByClassName Strategy = "class name"
	ByTagName   Strategy = "tag name"
)

var knownStrategies = map[Strategy]struct{}{
	ByID:        {},
	ByCSS:       {},
	ByXPath:     {},
	ByText:      {},
	ByName:      {},
	ByLinkText:  {},
	ByClassName: {},
	ByTagName:   {},
}

// Locator identifies zero or more elements on a page.
// It is a plain value and safe to declare as a package-level variable.
type Locator struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Value    string   `json:"value" yaml:"value"`
}

// ID - locator by element id
func ID(value string) Locator { return Locator{Strategy: ByID, Value: value} }

// CSS - locator by CSS selector
func CSS(value string) Locator { return Locator{Strategy: ByCSS, Value: value} }

// XPath - locator by XPath expression
func XPath(value string) Locator { return Locator{Strategy: ByXPath, Value: value} }

// Text - locator by (partial) visible text
func Text(value string) Locator { return Locator{Strategy: ByText, Value: value} }

// Name - locator by name attribute
func Name(value string) Locator { return Locator{Strategy: ByName, Value: value} }

// LinkText - locator by exact anchor text
func LinkText(value string) Locator { return Locator{Strategy: ByLinkText, Value: value} }

// ClassName - locator by a single class name
func ClassName(value string) Locator { return Locator{Strategy: ByClassName, Value: value} }

// TagName - locator by tag name
func TagName(value string) Locator { return Locator{Strategy: ByTagName, Value: value} }

// Validate - checks that the locator can be sent to a driver at all
func (l Locator) Validate() error {
	if _, ok := knownStrategies[l.Strategy]; !ok {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidLocator, l.Strategy)
	}
	if strings.TrimSpace(l.Value) == "" {
		return fmt.Errorf("%w: empty %s value", ErrInvalidLocator, l.Strategy)
	}
	return nil
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
