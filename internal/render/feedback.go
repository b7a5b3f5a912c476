// Package render converts Gemini feedback text into HTML fragments for the
// web UI. The model is instructed to use only a small markup subset (bold
// spans, "- " bullets, "1. " numbered lines), so this is a constrained
// line-by-line rewrite rather than a general Markdown renderer.
package render

import (
	"regexp"
	"strings"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	orderedPattern = regexp.MustCompile(`^\d+\. `)
)

// listKind tracks which list container, if any, is currently open while
// scanning lines.
type listKind int

const (
	listNone listKind = iota
	listUnordered
	listOrdered
)

// FormatFeedbackHTML converts a raw feedback text block into an HTML fragment.
//
// Bold spans (**text**, shortest match, no nesting) become <strong> elements.
// Consecutive "- " lines are grouped into one <ul>, consecutive "N. " lines
// into one <ol>. A blank line between items does not close the list; any
// other non-list line does. Text without markup passes through unchanged,
// so the function is safe to call on plain prose.
//
// The input is trusted single-user content; no entity escaping is applied.
func FormatFeedbackHTML(raw string) string {
	if raw == "" {
		return ""
	}

	text := boldPattern.ReplaceAllString(raw, "<strong>$1</strong>")

	var out []string
	open := listNone

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			if open != listUnordered {
				out = closeList(out, open)
				out = append(out, "<ul>")
				open = listUnordered
			}
			out = append(out, "<li>"+line[len("- "):]+"</li>")

		case orderedPattern.MatchString(line):
			if open != listOrdered {
				out = closeList(out, open)
				out = append(out, "<ol>")
				open = listOrdered
			}
			out = append(out, "<li>"+orderedPattern.ReplaceAllString(line, "")+"</li>")

		case strings.TrimSpace(line) == "":
			// Blank lines inside an open list are swallowed so that items
			// separated by a single blank line stay in one container.
			if open == listNone {
				out = append(out, line)
			}

		default:
			out = closeList(out, open)
			open = listNone
			out = append(out, line)
		}
	}

	out = closeList(out, open)

	return strings.Join(out, "\n")
}

// closeList appends the closing tag for the open list container, if any.
func closeList(out []string, open listKind) []string {
	switch open {
	case listUnordered:
		out = append(out, "</ul>")
	case listOrdered:
		out = append(out, "</ol>")
	}
	return out
}
