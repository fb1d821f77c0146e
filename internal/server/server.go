// Package server is the optional remote control surface: a small HTTP API
// for reading and writing widget values, a websocket stream of changes and
// an embedded status page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/pkg/channels"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 2 * time.Second
	eventBuffer     = 64
)

// WidgetWriter applies a write to a widget's value attribute and returns the
// widget's committed state.
type WidgetWriter interface {
	SetAttr(ctx context.Context, widget, value string) (page.Change, error)
}

// Deps are the collaborators the server reads from and writes to.
type Deps struct {
	// Writer applies PUT requests. Writes are refused while it is nil.
	Writer WidgetWriter
	// Events is the stream of committed changes.
	Events *channels.Broadcaster[page.Change]
	// Initial seeds the widget state served before the first change.
	Initial []page.Change
	// Token, when set, is required on every /api request.
	Token string
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine

	store  *Store
	hub    *Hub
	writer WidgetWriter
	events *channels.Broadcaster[page.Change]
	token  string
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	// The terminal belongs to the TUI, so gin never prints.
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Warn("Failed to clear trusted proxies", "error", err)
	}

	store := NewStore(deps.Initial)

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		store:  store,
		hub:    NewHub(logger, store, 0),
		writer: deps.Writer,
		events: deps.Events,
		token:  deps.Token,
	}

	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the HTTP handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Store exposes the widget state the API serves.
func (s *Server) Store() *Store {
	return s.store
}

// Start subscribes to the change stream and runs the event hub until ctx is
// done or the stream closes.
func (s *Server) Start(ctx context.Context) error {
	var (
		changes <-chan page.Change
		unsub   = func() {}
	)

	if s.events != nil {
		var err error

		changes, unsub, err = s.events.Subscribe(eventBuffer)
		if err != nil {
			return fmt.Errorf("failed to subscribe to widget changes: %w", err)
		}
	}

	go func() {
		defer unsub()
		s.hub.Run(ctx, changes)
	}()

	return nil
}

// Run starts the hub and serves HTTP on the configured address until ctx is
// done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.config.RemoteAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Server listening", "addr", s.config.RemoteAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	if s.token != "" {
		api.Use(requireToken(s.token))
	}
	{
		api.GET("/widgets", s.handleListWidgets)
		api.GET("/widgets/:name", s.handleGetWidget)
		api.PUT("/widgets/:name", s.handlePutWidget)
		api.GET("/events", s.handleEvents)
	}

	// NoRoute only triggers when no explicit route matches.
	s.router.NoRoute(statusPage())
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "knobs",
	})
}
