package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/http/handlers"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Deps are the long-lived collaborators built in main.
type Deps struct {
	Store    storage.Store
	Service  *service.Service
	Revoked  auth.RevocationStore
	Registry *prometheus.Registry
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the full middleware and route stack.
func NewHandler(cfg config.Config, deps Deps) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.JWTRefreshTTL)
	guard := middleware.NewGuard(tokens, deps.Revoked, authz.NewGate(deps.Store))
	paging := handlers.Paging{Default: cfg.DefaultPerPage, Max: cfg.MaxPerPage}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), cfg.Env).Register(mux)
	handlers.NewAuthHandler(deps.Service, tokens, deps.Revoked, guard).Register(mux)
	handlers.NewUserHandler(deps.Service, guard, paging).Register(mux)
	handlers.NewFollowHandler(deps.Service, guard, paging).Register(mux)
	handlers.NewPostHandler(deps.Service, guard, paging).Register(mux)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(metrics.Wrap(mux)))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
