package page

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront_automation/domain/entities"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// maxHints caps how many candidate fields a not-found message lists
const maxHints = 8

// notFound turns a presence timeout into an ElementNotFoundError carrying a
// short inventory of the form fields the page did contain
func (p *BasePage) notFound(ctx context.Context, loc entities.Locator, err error) error {
	var te *entities.TimeoutError
	if !errors.As(err, &te) {
		return err
	}
	return &entities.ElementNotFoundError{
		Locator: loc,
		Timeout: te,
		Hint:    p.hint(ctx),
	}
}

func (p *BasePage) hint(ctx context.Context) string {
	if ctx.Err() != nil {
		return ""
	}
	source, err := p.driver.PageSource(ctx)
	if err != nil || strings.TrimSpace(source) == "" {
		return ""
	}
	candidates, err := formFields(source)
	if err != nil {
		p.logger.Debugf("Failed to parse page source for diagnostics: %v", err)
		return ""
	}
	if len(candidates) == 0 {
		return "page has no form fields"
	}
	if len(candidates) > maxHints {
		return fmt.Sprintf("page has form fields: %s (and %d more)",
			strings.Join(candidates[:maxHints], ", "), len(candidates)-maxHints)
	}
	return "page has form fields: " + strings.Join(candidates, ", ")
}

// formFields - sorted, de-duplicated id=/name= identifiers of interactive elements
func formFields(source string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, err
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	doc.Find("input, select, textarea, button").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			seen.Add("id=" + id)
			return
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			seen.Add("name=" + name)
		}
	})

	fields := seen.ToSlice()
	sort.Strings(fields)
	return fields, nil
}
