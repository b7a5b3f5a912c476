package chat

import (
	"strings"
	"testing"
)

func TestBuildFeedbackPrompt_WithQuestion(t *testing.T) {
	prompt := BuildFeedbackPrompt("How is my backhand technique?", "")

	if !strings.Contains(prompt, "How is my backhand technique?") {
		t.Errorf("prompt missing user question: %q", prompt)
	}
	if !strings.Contains(prompt, "### User Request") {
		t.Errorf("prompt missing user request section: %q", prompt)
	}
	if strings.Contains(prompt, "No specific question provided") {
		t.Errorf("fallback text should not appear when a question is given: %q", prompt)
	}
}

func TestBuildFeedbackPrompt_EmptyQuestion(t *testing.T) {
	prompt := BuildFeedbackPrompt("", "")

	if !strings.Contains(prompt, "No specific question provided") {
		t.Errorf("expected fallback text for empty question: %q", prompt)
	}
}

func TestBuildFeedbackPrompt_MetadataIncluded(t *testing.T) {
	meta := "## EXTRACTED VIDEO METADATA\n\n- Duration: 0:42\n"
	prompt := BuildFeedbackPrompt("Rate my form", meta)

	if !strings.Contains(prompt, "EXTRACTED VIDEO METADATA") {
		t.Errorf("metadata context not included: %q", prompt)
	}
	// Metadata comes before the closing instructions.
	if strings.Index(prompt, "EXTRACTED VIDEO METADATA") > strings.Index(prompt, "### Instructions") {
		t.Errorf("metadata should precede instructions: %q", prompt)
	}
}

func TestGetModelName_EnvOverride(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	if got := GetModelName(); got != "gemini-2.5-pro" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestGetModelName_Default(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	if got := GetModelName(); got != DefaultModelName {
		t.Errorf("expected default model %q, got %q", DefaultModelName, got)
	}
}
