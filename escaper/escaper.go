// Package escaper provides the output escaping used by the rendering layer.
package escaper

import (
	"html"
	"html/template"
	"net/url"
	"strings"
)

type Escaper struct{}

func New() *Escaper {
	return &Escaper{}
}

// HTML escapes s for use in HTML element content.
func (e *Escaper) HTML(s string) string {
	return html.EscapeString(s)
}

// HTMLAttr escapes s for use inside a double-quoted HTML attribute value.
func (e *Escaper) HTMLAttr(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "`", "&#96;")
}

// JS escapes s for embedding in a JS string literal.
func (e *Escaper) JS(s string) string {
	return template.JSEscapeString(s)
}

// URL escapes s for use as a URL query component.
func (e *Escaper) URL(s string) string {
	return url.QueryEscape(s)
}
