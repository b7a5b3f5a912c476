package main

import (
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hliang/coachlens/internal/chat"
	"github.com/hliang/coachlens/internal/filehandler"
	"github.com/hliang/coachlens/internal/metrics"
	"github.com/hliang/coachlens/internal/render"
)

//go:embed static/index.html
var indexHTML []byte

// multipartMemoryLimit is how much of the multipart form is buffered in
// memory before spilling to disk.
const multipartMemoryLimit = 8 * 1024 * 1024

// feedbackServer holds the handler dependencies. The generator is an
// interface so tests can run without the Gemini API.
type feedbackServer struct {
	generator chat.FeedbackGenerator
	model     string
}

// feedbackResponse is the JSON body returned by POST /api/feedback.
type feedbackResponse struct {
	HTML      string `json:"html"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsedMs"`
}

func (s *feedbackServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// Security headers
	w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; connect-src 'self'")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *feedbackServer) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	prompt := r.FormValue("prompt")
	if prompt == "" {
		httpError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		httpError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	upload, err := filehandler.SaveUpload(file, header.Filename, 0)
	if err != nil {
		if errors.Is(err, filehandler.ErrUploadTooLarge) {
			httpError(w, http.StatusRequestEntityTooLarge, err.Error())
		} else {
			httpError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	defer upload.Remove()

	// Metadata enriches the prompt but is never required.
	var metadataContext string
	if meta, err := filehandler.ExtractVideoMetadata(upload.Path); err != nil {
		log.Warn().Err(err).Msg("Failed to extract video metadata, continuing without it")
	} else {
		metadataContext = meta.FormatMetadataContext()
	}

	raw, err := s.generator.Generate(r.Context(), chat.FeedbackRequest{
		VideoPath:       upload.Path,
		MIMEType:        upload.MIMEType,
		SizeBytes:       upload.Size,
		Prompt:          prompt,
		MetadataContext: metadataContext,
	})
	elapsed := time.Since(start)

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.New("CoachLens").
		Dimension("Result", result).
		Metric("FeedbackLatencyMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("UploadBytes", float64(upload.Size), metrics.UnitBytes).
		Count("FeedbackRequests").
		Property("requestId", requestID).
		Flush()

	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Feedback generation failed")
		httpError(w, http.StatusBadGateway, "feedback generation failed")
		return
	}

	html := render.FormatFeedbackHTML(render.StripMarkdownFences(raw))

	log.Info().
		Str("request_id", requestID).
		Int("html_length", len(html)).
		Dur("duration", elapsed).
		Msg("Feedback delivered")

	respondJSON(w, http.StatusOK, feedbackResponse{
		HTML:      html,
		Model:     s.model,
		ElapsedMs: elapsed.Milliseconds(),
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
