package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/user-mgmt/apiserver/config"
	"github.com/user-mgmt/apiserver/internal/auth"
	"github.com/user-mgmt/apiserver/internal/db"
	"github.com/user-mgmt/apiserver/internal/handlers"
	"github.com/user-mgmt/apiserver/internal/metrics"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/internal/store"
	"github.com/user-mgmt/apiserver/pkg/logger"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New opens the database, wires the service stack, seeds the configured
// admin account, and builds the router.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	userService := services.NewUserService(userRepo)
	tokenService := auth.NewTokenService(
		cfg.Auth.Secret,
		time.Duration(cfg.Auth.TokenExpireMinutes)*time.Minute,
	)

	if err := SeedAdmin(ctx, cfg, userService); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	router := NewRouter(userService, tokenService)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// NewRouter assembles the middleware stack and routes. Separated from New
// so tests can mount the full surface over a stub repository.
func NewRouter(userService *services.UserService, tokenService *auth.TokenService) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		metrics.Middleware,
		requestLogger(logger.Get()),
		middleware.Timeout(60*time.Second),
	)

	router.Get("/", handlers.Root)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokenService)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(handlers.RequireUser(tokenService, userService), handlers.RequireActiveUser)
		handlers.AdminRouter(r, userService)
	})

	return router
}

// requestLogger emits one structured line per handled request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
