package chat

// feedback.go implements AI feedback generation for an uploaded video.
// Small videos are sent inline with the prompt; larger ones go through the
// Gemini Files API, which requires polling until the file is processed.

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/hliang/coachlens/internal/assets"
)

// inlineVideoLimit is the largest video sent inline with the request.
// The Gemini API caps inline requests at 20 MB total; 19 MiB leaves
// headroom for the prompt.
const inlineVideoLimit = 19 * 1024 * 1024

// FeedbackRequest describes one feedback generation call.
type FeedbackRequest struct {
	// VideoPath is the local path of the saved upload.
	VideoPath string

	// MIMEType is the video MIME type (e.g. "video/mp4").
	MIMEType string

	// SizeBytes is the upload size, used to pick inline vs Files API.
	SizeBytes int64

	// Prompt is the user's question about the video.
	Prompt string

	// MetadataContext is an optional text block of extracted video
	// metadata to include in the prompt. May be empty.
	MetadataContext string
}

// FeedbackGenerator produces feedback text for a video. The HTTP handler
// depends on this interface so it can be tested without the Gemini API.
type FeedbackGenerator interface {
	Generate(ctx context.Context, req FeedbackRequest) (string, error)
}

// GeminiGenerator is the production FeedbackGenerator backed by the Gemini API.
type GeminiGenerator struct {
	Client *genai.Client
	Model  string
}

// Generate sends the video and prompt to Gemini and returns the raw
// feedback text.
func (g *GeminiGenerator) Generate(ctx context.Context, req FeedbackRequest) (string, error) {
	modelName := g.Model
	if modelName == "" {
		modelName = GetModelName()
	}

	log.Debug().
		Str("video", req.VideoPath).
		Str("mime_type", req.MIMEType).
		Int64("size_bytes", req.SizeBytes).
		Int("prompt_length", len(req.Prompt)).
		Msg("Starting feedback generation")

	videoPart, err := g.videoPart(ctx, req)
	if err != nil {
		return "", err
	}

	prompt := BuildFeedbackPrompt(req.Prompt, req.MetadataContext)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: assets.FeedbackSystemPrompt}},
		},
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{videoPart, {Text: prompt}},
	}}

	callStart := time.Now()
	log.Debug().Str("model", modelName).Msg("Starting Gemini API call for feedback generation")

	resp, err := g.Client.Models.GenerateContent(ctx, modelName, contents, config)
	duration := time.Since(callStart)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Failed to generate feedback from Gemini")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("received empty response from Gemini API")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("received empty response from Gemini API")
	}

	log.Info().
		Int("response_length", len(text)).
		Dur("duration", duration).
		Msg("Feedback generation complete")

	return text, nil
}

// videoPart builds the video part of the request: inline data for small
// files, a Files API reference for everything else.
func (g *GeminiGenerator) videoPart(ctx context.Context, req FeedbackRequest) (*genai.Part, error) {
	if req.SizeBytes <= inlineVideoLimit {
		data, err := os.ReadFile(req.VideoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read video: %w", err)
		}
		return &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.MIMEType,
				Data:     data,
			},
		}, nil
	}

	file, err := g.uploadVideo(ctx, req.VideoPath, req.MIMEType)
	if err != nil {
		return nil, err
	}
	return &genai.Part{
		FileData: &genai.FileData{
			MIMEType: req.MIMEType,
			FileURI:  file.URI,
		},
	}, nil
}

// uploadVideo streams a video to the Gemini Files API and polls until it is
// processed and ready to reference.
func (g *GeminiGenerator) uploadVideo(ctx context.Context, path, mimeType string) (*genai.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	log.Info().Str("path", path).Msg("Uploading video via Gemini Files API")

	uploadStart := time.Now()
	file, err := g.Client.Files.Upload(ctx, f, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	log.Debug().
		Str("name", file.Name).
		Str("uri", file.URI).
		Dur("upload_duration", time.Since(uploadStart)).
		Msg("Video uploaded, waiting for processing...")

	// Poll until the file is ACTIVE (processed) or FAILED.
	const pollInterval = 5 * time.Second
	const pollTimeout = 5 * time.Minute
	deadline := time.Now().Add(pollTimeout)

	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout waiting for Gemini file processing after %v", pollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
		file, err = g.Client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file state: %w", err)
		}
	}

	if file.State != genai.FileStateActive {
		return nil, fmt.Errorf("file processing failed with state %s", file.State)
	}

	log.Debug().Str("uri", file.URI).Msg("Video processed and ready")
	return file, nil
}

// BuildFeedbackPrompt creates the user prompt for feedback generation,
// combining the user's question with any extracted video metadata.
func BuildFeedbackPrompt(userPrompt, metadataContext string) string {
	var sb strings.Builder

	sb.WriteString("## Video Feedback Request\n\n")
	sb.WriteString("Watch the attached video, then answer the request below.\n\n")

	sb.WriteString("### User Request\n\n")
	if userPrompt != "" {
		sb.WriteString(userPrompt)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("No specific question provided. Give general feedback on the video.\n\n")
	}

	if metadataContext != "" {
		sb.WriteString(metadataContext)
		sb.WriteString("\n")
	}

	sb.WriteString("### Instructions\n\n")
	sb.WriteString("1. Base every observation on what is actually visible in the video\n")
	sb.WriteString("2. Be specific: reference moments, movements, or framing you can see\n")
	sb.WriteString("3. Keep the formatting rules from the system instruction\n")

	return sb.String()
}
