// ABOUTME: Gateway wires the channel endpoint, REST API, store, and session layer
// ABOUTME: Owns the HTTP server lifecycle and graceful shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tucoach/interview-gateway/internal/completion"
	"github.com/tucoach/interview-gateway/internal/config"
	"github.com/tucoach/interview-gateway/internal/session"
	"github.com/tucoach/interview-gateway/internal/store"
)

// Gateway is the running service: the WebSocket channel endpoint, the
// interviews REST surface, and the session layer behind them.
type Gateway struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	conns  *connSet
	router *session.Router
}

// New creates a Gateway from configuration. Dependencies are constructed
// here and injected explicitly; nothing is bound at package level.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	completer := completion.NewOpenAIClient(cfg.Provider, logger)
	return newGateway(cfg, logger, st, completer), nil
}

// newGateway assembles the gateway around an already-constructed store and
// completion client.
func newGateway(cfg *config.Config, logger *slog.Logger, st store.Store, completer completion.Client) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	conns := newConnSet(logger)
	registry := session.NewRegistry(st, logger)
	handler := session.NewHandler(st, registry, completer, conns, logger)

	return &Gateway{
		cfg:    cfg,
		logger: logger.With("component", "gateway"),
		store:  st,
		conns:  conns,
		router: session.NewRouter(handler, logger),
	}
}

// Routes returns the HTTP handler for the gateway's endpoints.
func (g *Gateway) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleChannel)
	mux.HandleFunc("/interviews", g.handleInterviews)
	mux.HandleFunc("/healthz", g.handleHealthz)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    g.cfg.Server.HTTPAddr,
		Handler: g.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("http server listening", "addr", g.cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		g.store.Close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	grace := g.cfg.Server.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	g.logger.Info("shutting down", "grace", grace)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		g.logger.Error("error during shutdown", "error", err)
	}

	return g.store.Close()
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
