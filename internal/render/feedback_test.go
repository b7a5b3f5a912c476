package render

import (
	"strings"
	"testing"
)

func TestFormatFeedbackHTML_PlainTextUnchanged(t *testing.T) {
	inputs := []string{
		"Nice serve overall.",
		"First line.\nSecond line.",
		"Line one.\n\nLine three after a blank.",
		"Trailing newline.\n",
		"",
	}

	for _, in := range inputs {
		if got := FormatFeedbackHTML(in); got != in {
			t.Errorf("plain text changed:\ninput:  %q\noutput: %q", in, got)
		}
	}
}

func TestFormatFeedbackHTML_BoldSpan(t *testing.T) {
	got := FormatFeedbackHTML("**Bold**")
	want := "<strong>Bold</strong>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_MultipleBoldSpansPerLine(t *testing.T) {
	got := FormatFeedbackHTML("**Grip** is fine but **stance** needs work")
	want := "<strong>Grip</strong> is fine but <strong>stance</strong> needs work"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_UnpairedBoldLeftLiteral(t *testing.T) {
	in := "a ** b"
	if got := FormatFeedbackHTML(in); got != in {
		t.Errorf("unpaired marker rewritten: got %q, want %q", got, in)
	}
}

func TestFormatFeedbackHTML_BulletsGroupedInOneList(t *testing.T) {
	got := FormatFeedbackHTML("- a\n- b")
	want := "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Count(got, "<ul>") != 1 {
		t.Errorf("expected a single <ul> container, got %q", got)
	}
}

func TestFormatFeedbackHTML_NumberedGroupedInOneList(t *testing.T) {
	got := FormatFeedbackHTML("1. a\n2. b")
	want := "<ol>\n<li>a</li>\n<li>b</li>\n</ol>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_BlankLineKeepsListOpen(t *testing.T) {
	got := FormatFeedbackHTML("- a\n\n- b")
	want := "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_PlainLineClosesList(t *testing.T) {
	got := FormatFeedbackHTML("- a\nplain")
	want := "<ul>\n<li>a</li>\n</ul>\nplain"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_SwitchingListKinds(t *testing.T) {
	got := FormatFeedbackHTML("- a\n1. b")
	want := "<ul>\n<li>a</li>\n</ul>\n<ol>\n<li>b</li>\n</ol>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_ListClosedAtEndOfInput(t *testing.T) {
	got := FormatFeedbackHTML("intro\n- only item")
	want := "intro\n<ul>\n<li>only item</li>\n</ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_BoldInsideListItem(t *testing.T) {
	got := FormatFeedbackHTML("- **Footwork**: solid")
	want := "<ul>\n<li><strong>Footwork</strong>: solid</li>\n</ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeedbackHTML_MixedDocument(t *testing.T) {
	in := "**Summary**\n\nGood session.\n\n- keep your elbow up\n- follow through\n\n1. warm up\n2. drill\n\nSee you next week."
	got := FormatFeedbackHTML(in)

	if strings.Count(got, "<ul>") != 1 || strings.Count(got, "</ul>") != 1 {
		t.Errorf("expected exactly one unordered list, got %q", got)
	}
	if strings.Count(got, "<ol>") != 1 || strings.Count(got, "</ol>") != 1 {
		t.Errorf("expected exactly one ordered list, got %q", got)
	}
	if !strings.Contains(got, "<strong>Summary</strong>") {
		t.Errorf("missing bold span in %q", got)
	}
	if !strings.HasSuffix(got, "See you next week.") {
		t.Errorf("closing line should be outside any list: %q", got)
	}
}

func TestFormatFeedbackHTML_NoStrayClosingTags(t *testing.T) {
	inputs := []string{
		"- a\n- b",
		"1. a\nplain\n- b",
		"plain only",
		"- a\n\nplain\n\n1. b\n2. c",
	}

	for _, in := range inputs {
		got := FormatFeedbackHTML(in)
		for _, tag := range []string{"ul", "ol"} {
			opens := strings.Count(got, "<"+tag+">")
			closes := strings.Count(got, "</"+tag+">")
			if opens != closes {
				t.Errorf("unbalanced <%s> tags (%d open, %d close) in %q", tag, opens, closes, got)
			}
		}
	}
}

func TestFormatFeedbackHTML_SecondPassDoesNotPanic(t *testing.T) {
	// Re-formatting already-formatted output is out of contract, but it
	// must not crash.
	first := FormatFeedbackHTML("- a\n- b\n\n**done**")
	_ = FormatFeedbackHTML(first)
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "No fences",
			input: "plain feedback text",
			want:  "plain feedback text",
		},
		{
			name:  "Bare fences",
			input: "```\nfenced content\n```",
			want:  "fenced content",
		},
		{
			name:  "Language-tagged fences",
			input: "```markdown\n- a\n- b\n```",
			want:  "- a\n- b",
		},
		{
			name:  "Unclosed fence left alone",
			input: "```\nno closing fence",
			want:  "```\nno closing fence",
		},
		{
			name:  "Surrounding whitespace trimmed",
			input: "  \n```\ncontent\n```\n",
			want:  "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
