// Package server is the composition root: it wires the store, services,
// handlers and middleware into a chi router and owns the HTTP server's
// lifecycle.
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

	"github.com/sakif/connectly/internal/auth"
	"github.com/sakif/connectly/internal/config"
	"github.com/sakif/connectly/internal/handler"
	"github.com/sakif/connectly/internal/middleware"
	sqliteRepo "github.com/sakif/connectly/internal/repository/sqlite"
	"github.com/sakif/connectly/internal/service"
	"github.com/sakif/connectly/internal/telemetry"
)

// Server holds the router and the resources it owns. The database connection
// is process-wide configuration acquired once here and closed on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the whole dependency chain:
//
//	sqlite.DB → services (identity, users, follows, posts) → handlers → routes
//
// Each layer only receives what it needs; handlers never touch the database
// and services never touch HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the services/handlers and mounts
// every route.
//
//	GET    /healthz                  → liveness
//	GET    /metrics                  → Prometheus metrics
//	POST   /api/users                → register            (token only)
//	GET    /api/users                → list users
//	GET    /api/users/profile        → own profile
//	GET    /api/users/{id}           → single user
//	GET    /api/follows              → relationship listing
//	POST   /api/follows/{userId}     → follow
//	DELETE /api/follows/{userId}     → unfollow
//	GET    /api/posts                → feed (type=all|user|following)
//	GET    /api/posts/{id}           → single post
//	POST   /api/posts                → create post
//	DELETE /api/posts/{id}           → delete own post
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTIssuer, s.config.JWTAudience)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	identity := service.NewIdentityService(s.db, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	followService := service.NewFollowService(s.db, s.db, s.logger)
	postService := service.NewPostService(s.db, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	followHandler := handler.NewFollowHandler(followService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	authn := auth.NewAuthenticator(tokens, identity, s.logger)
	limiter := middleware.NewRateLimiter(s.config.RateLimitPerMinute)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", telemetry.Handler())

	s.router.Route("/api", func(api chi.Router) {
		// Registration only needs a verified token; the caller cannot have
		// a user record before creating one.
		api.Group(func(r chi.Router) {
			r.Use(authn.Require(auth.PolicyTokenOnly))
			r.Use(limiter.Limit)

			r.Post("/users", userHandler.HandleRegister)
		})

		// Everything else requires a resolvable account.
		api.Group(func(r chi.Router) {
			r.Use(authn.Require(auth.PolicyRequireUser))
			r.Use(limiter.Limit)

			r.Get("/users", userHandler.HandleList)
			r.Get("/users/profile", userHandler.HandleProfile)
			r.Get("/users/{id}", userHandler.HandleGetByID)

			r.Get("/follows", followHandler.HandleList)
			r.Post("/follows/{userId}", followHandler.HandleFollow)
			r.Delete("/follows/{userId}", followHandler.HandleUnfollow)

			r.Get("/posts", postHandler.HandleFeed)
			r.Get("/posts/{id}", postHandler.HandleGetByID)
			r.Post("/posts", postHandler.HandleCreate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start does this
// itself; Close exists for callers that only used Handler().
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.ServerAddr,
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
			slog.String("addr", s.config.ServerAddr),
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
