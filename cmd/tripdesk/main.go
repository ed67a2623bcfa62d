package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tripdesk/tripdesk/observability"
	"github.com/tripdesk/tripdesk/planner"
	"github.com/tripdesk/tripdesk/server"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file (optional)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	// A missing .env file is fine; environment variables still apply.
	godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := planner.DefaultConfig()
	if *configFile != "" {
		loaded, err := planner.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyEnv(&cfg)

	srvCfg := server.DefaultConfig()
	srvCfg.APIKey = os.Getenv("TRIPDESK_API_KEY")
	if port := os.Getenv("PORT"); port != "" {
		srvCfg.Addr = ":" + port
	}
	if *addr != "" {
		srvCfg.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := planner.New(ctx, cfg,
		planner.WithObserver(observability.NewSlogObserver(logger)),
	)
	if err != nil {
		log.Fatalf("Failed to create planner: %v", err)
	}

	srv := server.New(srvCfg, p, logger)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("shutdown complete")
}

// applyEnv lets environment variables override config file values for the
// credentials that never belong in a config file.
func applyEnv(cfg *planner.Config) {
	if key := os.Getenv("SERPAPI_API_KEY"); key != "" {
		cfg.Travel.SerpAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.Generation.Provider == "gemini" {
		cfg.Generation.APIKey = key
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.Generation.BaseURL = base
	}
	if model := os.Getenv("TRIPDESK_MODEL"); model != "" {
		cfg.Generation.Model = model
	}
}
