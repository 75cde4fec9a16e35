package browser

import (
	"fmt"
	"strings"
)

// Scripts shared by both backends. The element is always arguments[0].
const (
	scrollIntoView = `arguments[0].scrollIntoView({block: 'center', inline: 'nearest'});`

	dispatchMouseEvent = `
	var el = arguments[0];
	el.dispatchEvent(new MouseEvent(arguments[1], {bubbles: true, cancelable: true, view: window}));
	`
)

// xpathLiteral - s as an XPath string literal. XPath 1.0 has no escaping, so
// text holding both quote kinds is split with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// textXPath - elements whose own text contains text
func textXPath(text string) string {
	return fmt.Sprintf("//*[contains(normalize-space(text()), %s)]", xpathLiteral(strings.TrimSpace(text)))
}
