// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time, keeping prompt wording out of Go source.
package assets

import (
	_ "embed"
)

// FeedbackSystemPrompt instructs Gemini how to review an uploaded video and
// which markup subset its answer may use. The answer formatting rules must
// stay in sync with internal/render, which only understands bold spans,
// "- " bullets, and "N. " numbered lines.
//
//go:embed prompts/feedback-system.txt
var FeedbackSystemPrompt string
