// Package server exposes the planning conversation over HTTP: a chat
// endpoint with API-key auth and cookie-based session continuity, a session
// reset endpoint, and an unauthenticated health check.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// ChatService is the conversational engine behind the HTTP surface.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
	ResetSession(sessionID string)
}

// Config holds HTTP server initialization parameters.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string `json:"addr,omitempty"`

	// APIKey is the key clients must present. Requests are refused with a
	// server error when it is unset.
	APIKey string `json:"api_key,omitempty"`

	// AllowedOrigins configures CORS. Empty means allow all origins.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// DefaultConfig returns a Config listening on all interfaces, port 8000.
func DefaultConfig() Config {
	return Config{Addr: ":8000"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if len(source.AllowedOrigins) > 0 {
		c.AllowedOrigins = source.AllowedOrigins
	}
}

// Server serves the planning API.
type Server struct {
	cfg    Config
	svc    ChatService
	logger *slog.Logger
	http   *http.Server
}

// New creates a Server around the given service. A nil logger discards logs.
func New(cfg Config, svc ChatService, logger *slog.Logger) *Server {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{cfg: merged, svc: svc, logger: logger}
	s.http = &http.Server{
		Addr:              merged.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route table. Health stays outside auth so load
// balancers can probe without credentials.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost, http.MethodOptions)

	return s.corsMiddleware(s.loggingMiddleware(r))
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
