// Package web provides the HTTP server and handlers for race-result ingestion.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ngamolsky/XtremeRepo/internal/config"
	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/ngamolsky/XtremeRepo/internal/metrics"
	"github.com/ngamolsky/XtremeRepo/internal/store"
	mw "github.com/ngamolsky/XtremeRepo/internal/web/middleware"
)

// Store is the persistence the commit and season endpoints need.
// Satisfied by *store.Store.
type Store interface {
	Commit(ctx context.Context, b core.Batch) (store.CommitResult, error)
	ListPlacements(ctx context.Context) ([]core.Placement, error)
	Season(ctx context.Context, year int64) (*store.Season, error)
}

// Deps are the optional collaborators of a Server.
type Deps struct {
	// Store backs commit and season reads. Nil serves 503 on those routes.
	Store Store

	// Ping reports database health for /healthz. Nil means no database.
	Ping func(context.Context) error

	// Metrics records upload and HTTP metrics. Nil disables them.
	Metrics *metrics.Recorder

	// Now is the clock used for token expiry. Defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP server for the results service.
type Server struct {
	cfg    *config.Config
	deps   Deps
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with all routes registered.
func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))
	s.router.Use(s.deps.Metrics.Middleware)

	if s.cfg.Rate.Enabled {
		s.router.Use(mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, 5*time.Minute).Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	if s.cfg.Metrics.Enabled {
		s.router.Method(http.MethodGet, s.cfg.Metrics.Path, s.deps.Metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		// Authenticated writes. Auth runs before the method check, so any
		// method is routed to the handler.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(mw.NewRateLimiter(s.cfg.Rate.UploadLimit, 5*time.Minute).Middleware)
			}
			r.Use(middleware.Timeout(s.cfg.Upload.Timeout))
			r.Use(mw.BearerAuth(s.cfg.Auth.IssuerHost, s.deps.Now))

			r.HandleFunc("/upload", s.handleUpload)
			r.HandleFunc("/commit", s.handleCommit)
		})

		// Public reads
		r.Get("/seasons", s.handleListSeasons)
		r.Get("/seasons/{year}", s.handleSeason)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
// The service only serves JSON, so the CSP forbids everything.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Cache-Control", "no-store")
			if enableCSP {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}
