// Package server wires the HTTP server: router, middleware, routes, and
// the dependency chain from database to handlers.
//
// The wiring happens in one place (New/setupRoutes) so each layer only
// receives what it needs: services get repository interfaces, handlers get
// services, and nothing below the handler layer touches HTTP.
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

	"github.com/sakif/social-network/internal/auth"
	"github.com/sakif/social-network/internal/handler"
	"github.com/sakif/social-network/internal/middleware"
	sqliteRepo "github.com/sakif/social-network/internal/repository/sqlite"
	"github.com/sakif/social-network/internal/service"
	"github.com/sakif/social-network/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string

	// ServeUploadsFrom, when non-empty, mounts a file server at /uploads/
	// backed by that directory. Used with the local storage backend; the
	// S3 backend serves objects from the bucket directly.
	ServeUploadsFrom string
}

// Server owns the router, the database connection, and the configured
// dependencies. The database is closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService
	files  storage.Store
}

// New assembles the full dependency chain: database, repositories,
// services, handlers, and routes. The token service and file store are
// created by the caller because their construction depends on runtime
// configuration (signing secret, storage backend).
func New(cfg Config, tokens *auth.TokenService, files storage.Store, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
		files:  files,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Services share the single connection pool through the per-entity
	// repositories.
	passwords := auth.NewPasswordService()
	visibility := service.NewVisibility(s.db.Connections())

	authService := service.NewAuthService(s.db.Users(), s.tokens, passwords, s.logger)
	userService := service.NewUserService(s.db.Users(), s.files, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.db.Users(), visibility, s.files, s.logger)
	commentService := service.NewCommentService(s.db.Comments(), s.db.Posts(), visibility, s.logger)
	connectionService := service.NewConnectionService(s.db.Connections(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, postService, connectionService, s.logger)
	postHandler := handler.NewPostHandler(postService, commentService, s.logger)
	connectionHandler := handler.NewConnectionHandler(connectionService, s.logger)

	if s.config.ServeUploadsFrom != "" {
		fileServer := http.FileServer(http.Dir(s.config.ServeUploadsFrom))
		s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.tokens))

			r.Get("/profile", userHandler.HandleProfile)
			r.Post("/profile/photo", userHandler.HandleUploadPhoto)
			r.Get("/users", userHandler.HandleDirectory)
			r.Get("/users/{username}/posts", userHandler.HandleUserPosts)

			r.Post("/posts", postHandler.HandleCreate)
			r.Get("/posts", postHandler.HandleFeed)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Post("/posts/{id}/comments", postHandler.HandleCreateComment)

			r.Get("/connections", connectionHandler.HandleList)
			r.Post("/connections/request", connectionHandler.HandleRequest)
			r.Post("/connections/accept", connectionHandler.HandleAccept)
			r.Post("/connections/reject", connectionHandler.HandleReject)
			r.Delete("/connections/{id}", connectionHandler.HandleRemove)
		})
	})
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
