package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hliang/coachlens/internal/auth"
	"github.com/hliang/coachlens/internal/chat"
	"github.com/hliang/coachlens/internal/filehandler"
	"github.com/hliang/coachlens/internal/logging"
)

// CLI flags
var (
	portFlag  int
	modelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "coachlens-web",
	Short: "Web UI for AI video feedback",
	Long: `CoachLens starts a local web server where you upload a short video,
ask a question about it, and get AI-generated feedback rendered in the browser.

Examples:
  coachlens-web
  coachlens-web --port 9090
  coachlens-web --model gemini-2.5-pro`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", chat.DefaultModelName, "Gemini model to use")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	bootStart := time.Now()

	// Best effort; the key can also come from the real environment.
	godotenv.Load()

	logging.Init()

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get API key")
	}

	ctx := context.Background()
	client, err := chat.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	if err := auth.ValidateAPIKey(ctx, client); err != nil {
		handleValidationError(err)
	}

	ffprobeOK := filehandler.CheckFFprobeAvailable() == nil
	if !ffprobeOK {
		log.Warn().Msg("ffprobe not found; feedback prompts will not include video metadata")
	}

	server := &feedbackServer{
		generator: &chat.GeminiGenerator{Client: client, Model: modelFlag},
		model:     modelFlag,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", server.handleIndex)
	mux.HandleFunc("/api/feedback", server.handleFeedback)
	mux.HandleFunc("/api/health", handleHealth)

	handler := withLogging(withCORS(gzhttp.GzipHandler(mux)))

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Minute, // uploads can be large on slow links
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logging.NewStartupLogger("coachlens-web").
		Config("port", fmt.Sprintf("%d", portFlag)).
		Config("model", modelFlag).
		Feature("ffprobe", ffprobeOK).
		InitDuration(time.Since(bootStart)).
		Log()

	fmt.Printf("\n  CoachLens: http://localhost:%d\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// handleValidationError exits with actionable messaging per failure type.
func handleValidationError(err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Type {
		case auth.ErrTypeNoKey:
			log.Fatal().Msg("No API key configured. Set GEMINI_API_KEY or store it at ~/.coachlens/credentials.gpg")
		case auth.ErrTypeInvalidKey:
			log.Fatal().Msg("The configured API key was rejected by the Gemini API. Check GEMINI_API_KEY")
		case auth.ErrTypeQuotaExceeded:
			log.Fatal().Msg("API quota exceeded. Try again later")
		case auth.ErrTypeNetworkError:
			log.Fatal().Err(validationErr.Err).Msg("Could not reach the Gemini API. Check your connection")
		}
	}
	log.Fatal().Err(err).Msg("API key validation failed")
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only allow localhost origins; this is a local single-user tool.
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
