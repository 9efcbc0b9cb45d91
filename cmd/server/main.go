package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brunobiangulo/docuvision"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Local development keys live in .env; missing file is fine.
	_ = godotenv.Load()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := docuvision.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("DOCUVISION_CHAT_PROVIDER"); v != "" {
		cfg.Chat.Provider = v
	}
	if v := os.Getenv("DOCUVISION_CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("DOCUVISION_CHAT_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("DOCUVISION_CHAT_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("DOCUVISION_IMAGE_PROVIDER"); v != "" {
		cfg.Image.Provider = v
	}
	if v := os.Getenv("DOCUVISION_IMAGE_MODEL"); v != "" {
		cfg.Image.Model = v
	}
	if v := os.Getenv("DOCUVISION_IMAGE_BASE_URL"); v != "" {
		cfg.Image.BaseURL = v
	}
	if v := os.Getenv("DOCUVISION_IMAGE_API_KEY"); v != "" {
		cfg.Image.APIKey = v
	}
	if os.Getenv("DOCUVISION_ENHANCE_PAGES") == "true" {
		cfg.EnhancePages = true
	}

	// Fallback: check well-known provider env vars for API keys.
	if cfg.Chat.APIKey == "" {
		switch cfg.Chat.Provider {
		case "openai":
			cfg.Chat.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Chat.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.Image.APIKey == "" && cfg.Image.Provider == "openai" {
		cfg.Image.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	apiKey := os.Getenv("DOCUVISION_API_KEY")
	corsOrigins := os.Getenv("DOCUVISION_CORS_ORIGINS")

	conn, err := docuvision.New(cfg)
	if err != nil {
		slog.Error("creating connector", "error", err)
		os.Exit(1)
	}

	h := newHandler(conn)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/images/read", h.handleReadImage)
	mux.HandleFunc("POST /v1/images/generate", h.handleGenerateImage)
	mux.HandleFunc("POST /v1/documents/read", h.handleReadDocument)
	mux.HandleFunc("POST /v1/documents/inspect", h.handleInspectDocument)
	mux.HandleFunc("GET /health", h.handleHealth)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Minute, // document uploads can be large
		WriteTimeout: 0,               // page batches can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
