package render

import "strings"

// StripMarkdownFences removes a single outer ``` fence pair (with or without
// a language tag, e.g. ```markdown) wrapping the text. Gemini occasionally
// fences its whole answer even when asked for plain text. Returns the text
// unchanged when it is not fenced.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	endIdx := -1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	if endIdx <= 0 {
		return text
	}

	return strings.Join(lines[1:endIdx], "\n")
}
