// Package server exposes memegen editors over HTTP.
//
// Each session owns one [editor.Editor] created from an uploaded image and is
// addressed by a random UUID. Requests on a session are serialized by a
// per-session mutex; the editor itself is single-threaded.
//
// Routes:
//
//	GET    /healthz
//	POST   /sessions                          body: image, ?width= display width
//	DELETE /sessions/{id}
//	PUT    /sessions/{id}/image               body: image
//	GET    /sessions/{id}/layers
//	POST   /sessions/{id}/layers
//	PATCH  /sessions/{id}/layers/{name}
//	DELETE /sessions/{id}/layers/{name}
//	POST   /sessions/{id}/layers/{name}/move     {"x","y"} in display pixels
//	POST   /sessions/{id}/layers/{name}/resize   {"width"} in display pixels
//	POST   /sessions/{id}/drawing/{enable|disable|erase}
//	PUT    /sessions/{id}/drawing/order       {"aboveText"}
//	POST   /sessions/{id}/drawing/strokes     {"color","width","points":[[x,y],...]}
//	GET    /sessions/{id}/preview             ?width= &mode=json|html|raster
//	GET    /sessions/{id}/export              ?format=png|jpeg|gif|tiff|bmp
//	GET    /sessions/{id}/document
//	PUT    /sessions/{id}/document
//
// Errors are returned as {"code": "...", "error": "..."} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/memegen/pkg/editor"
	"github.com/matzehuels/memegen/pkg/fonts"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAddr           = ":8080"
	DefaultMaxImageBytes  = 20 << 20
	DefaultMaxImagePixels = 50_000_000
	DefaultSessionTTL     = time.Hour

	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr string

	// Editor is the template for new sessions. Its Cache, Keyer, Fonts and
	// Logger are shared by every session.
	Editor editor.Options

	MaxImageBytes  int64
	MaxImagePixels int64         // Decoded width times height
	SessionTTL     time.Duration // Idle sessions are dropped after this long

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	sessions *sessionStore
	router   chi.Router
	logger   *log.Logger
}

// New creates a server. Zero config values take their defaults.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.MaxImagePixels == 0 {
		cfg.MaxImagePixels = DefaultMaxImagePixels
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Editor.Logger == nil {
		cfg.Editor.Logger = cfg.Logger
	}
	if cfg.Editor.Fonts == nil {
		cfg.Editor.Fonts = fonts.NewResolver()
	}

	s := &Server{
		cfg:      cfg,
		sessions: newSessionStore(),
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int { return s.sessions.len() }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/image", s.handleSetImage)

			r.Get("/layers", s.handleListLayers)
			r.Post("/layers", s.handleCreateLayer)
			r.Patch("/layers/{name}", s.handleUpdateLayer)
			r.Delete("/layers/{name}", s.handleRemoveLayer)
			r.Post("/layers/{name}/move", s.handleMoveLayer)
			r.Post("/layers/{name}/resize", s.handleResizeLayer)

			r.Post("/drawing/{action}", s.handleDrawingAction)
			r.Put("/drawing/order", s.handleDrawingOrder)
			r.Post("/drawing/strokes", s.handleStrokes)

			r.Get("/preview", s.handlePreview)
			r.Get("/export", s.handleExport)
			r.Get("/document", s.handleGetDocument)
			r.Put("/document", s.handlePutDocument)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully. Idle sessions are swept while running.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down", "sessions", s.sessions.len())
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SessionTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.sessions.expire(now.Add(-s.cfg.SessionTTL)); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}
