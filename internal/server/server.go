// Package server wires the store, services, handlers and middleware
// together and runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → openStore (sqlite | postgres)
//	              → AuthService, NoteService
//	              → AuthHandler, NoteHandler
//	              → chi routes
//
// This is the composition root: every dependency is built here and
// nowhere else.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/config"
	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/middleware"
	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/repository/postgres"
	"github.com/sakif/notekeeper/internal/repository/sqlite"
	"github.com/sakif/notekeeper/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish after a
// shutdown signal.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies. It owns the
// store and closes it when Run returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the configured store and builds the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openStore picks the backend named by cfg.DBDriver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		if cfg.DBPath != ":memory:" {
			// Like `mkdir -p`, so a fresh checkout can start without setup.
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return sqlite.New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

// Handler returns the root HTTP handler. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store. Run calls it; callers that never Run must.
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                              → health
//	POST   /create-account                → register
//	POST   /login                         → login
//	GET    /get-user                      → current user        [auth]
//	POST   /add-note                      → create note         [auth]
//	PUT    /edit-note/{noteId}            → partial update      [auth]
//	GET    /get-all-notes                 → list, pinned first  [auth]
//	DELETE /delete-note/{noteId}          → delete              [auth]
//	PUT    /update-note-pinned/{noteId}   → set pinned flag     [auth]
//	GET    /search-notes?query=           → search              [auth]
//
// MIDDLEWARE ORDER MATTERS: RequestID must run before Logger so the id is
// in the log line, and CORS must answer preflight requests before auth
// rejects them for lacking a token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.EchoRequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         300,
	}))

	tokens, err := auth.NewTokenService(s.config.TokenSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	validate := handler.NewValidator()

	authService := service.NewAuthService(s.store, tokens, auth.NewPasswordService(), s.logger)
	noteService := service.NewNoteService(s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, validate, s.logger)
	noteHandler := handler.NewNoteHandler(noteService, validate, s.logger)

	s.router.Get("/", handler.HandleHealth)
	s.router.Post("/create-account", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/get-user", authHandler.HandleGetUser)
		r.Post("/add-note", noteHandler.HandleAdd)
		r.Put("/edit-note/{noteId}", noteHandler.HandleEdit)
		r.Get("/get-all-notes", noteHandler.HandleList)
		r.Delete("/delete-note/{noteId}", noteHandler.HandleDelete)
		r.Put("/update-note-pinned/{noteId}", noteHandler.HandleUpdatePinned)
		r.Get("/search-notes", noteHandler.HandleSearch)
		r.Get("/search-notes/", noteHandler.HandleSearch)
	})

	return nil
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully:
//  1. stop accepting new connections
//  2. wait up to 30s for in-flight requests
//  3. close the store
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(s.config.Port)),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
