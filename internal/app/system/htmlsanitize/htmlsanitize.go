// Package htmlsanitize keeps user-supplied text safe for HTML output.
//
// Titles, names, and file names go through html/template's contextual
// escaping and need nothing from here. Testimonial content is the one
// field rendered with markup (newline → <br>), so it is escaped first
// and only then decorated; Sanitize exists for any future field that
// accepts limited HTML.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows the usual user-generated-content subset (formatting,
	// links, tables) and strips everything active.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving text only.
	strict = bluemonday.StrictPolicy()
)

// Sanitize filters s through the UGC policy: safe formatting survives,
// scripts, event handlers, and javascript: URLs do not.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all markup from s.
func PlainText(s string) string {
	return strict.Sanitize(s)
}

// MultilineText escapes s and converts newlines to <br> so plain-text
// content (testimonials) keeps its paragraph breaks when rendered. The
// escape happens before the <br> insertion, so the only markup in the
// result is ours.
func MultilineText(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(escaped)
}
