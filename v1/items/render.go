package items

import (
	"html"
	"strings"
)

// RenderItems renders items as <li> elements, escaping each value.
func RenderItems(items []Item) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item.Value))
		b.WriteString("</li>")
	}
	return b.String()
}
