// Package server wires the application together and runs the HTTP
// server.
//
// This is the composition root: the database handle, the Unit-of-Work
// factory, the services, and the handlers are all constructed here, in
// dependency order, and nowhere else. Notably the Unit-of-Work factory
// is an explicit value created from the DB handle at startup — there is
// no package-level storage singleton anywhere in the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/tierlist/internal/auth"
	"github.com/sakif/tierlist/internal/handler"
	"github.com/sakif/tierlist/internal/middleware"
	sqliteRepo "github.com/sakif/tierlist/internal/repository/sqlite"
	"github.com/sakif/tierlist/internal/service"
)

// Config holds everything main reads from the environment.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database handle; the handle is closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph:
//
//	sqlite.DB → UnitOfWork factory → services → handlers → routes
//
// Each layer receives only what it needs: services get the
// repository.UnitOfWork interface, handlers get services, the router
// gets handlers.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	uow := sqliteRepo.NewUnitOfWork(s.db)
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(uow, tokens, passwords, s.logger)
	elementService := service.NewElementService(uow, s.logger)
	tierListService := service.NewTierListService(uow, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	elementHandler := handler.NewElementHandler(elementService, s.logger)
	tierListHandler := handler.NewTierListHandler(tierListService, s.logger)

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	// Everything below requires a valid bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authService))

		r.Get("/elements", elementHandler.HandleList)
		r.Post("/elements", elementHandler.HandleCreate)
		r.Get("/tier-list", tierListHandler.HandleGet)
		r.Put("/tier-list", tierListHandler.HandleUpdate)
	})
}

// Handler exposes the configured router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
