// Package chi provides the browser host for the tutor: a JSON API routed
// with chi and an embedded page that renders math with KaTeX. Each visitor
// gets a session keyed by a cookie.
package chi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/tutor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

const (
	cookieName         = "tutor_session"
	defaultIdleTimeout = 2 * time.Hour
	defaultMaxUpload   = 10 << 20
	evictInterval      = time.Minute

	// Each visitor may send a burst of actions, then one every few seconds.
	defaultActionRate  = 3 * time.Second
	defaultActionBurst = 10

	defaultWriteTimeout = 3 * time.Minute
)

// Server serves the browser front-end.
type Server struct {
	pipeline  *tutor.Pipeline
	sessions  *Sessions
	logger    *slog.Logger
	router    chi.Router
	idle      time.Duration
	maxUpload int64
	secure    bool
	limit     rate.Limit
	burst     int

	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithIdleTimeout sets how long an unused session is kept. Default is 2h.
// Zero keeps sessions until the process exits.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idle = d }
}

// WithMaxUpload limits the size of an uploaded image. Default is 10 MiB.
func WithMaxUpload(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// WithRateLimit limits how often one visitor may ask or upload. Actions
// beyond the limit get 429 without reaching the model. rate.Inf disables
// the limit.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.limit = r
		s.burst = burst
	}
}

// WithWriteTimeout sets how long a response may take. Each action runs
// under a deadline slightly shorter, so a slow model still yields a
// failure notice before the connection is cut. Default is 3m.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) { s.secure = secure }
}

// NewServer creates a Server running actions through p.
func NewServer(p *tutor.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline:  p,
		logger:    slog.Default(),
		idle:      defaultIdleTimeout,
		maxUpload: defaultMaxUpload,
		limit:     rate.Every(defaultActionRate),
		burst:     defaultActionBurst,

		writeTimeout: defaultWriteTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.sessions = NewSessions(p.NewSession, s.idle)
	if s.limit != rate.Inf {
		s.sessions.newLimiter = func() *rate.Limiter { return rate.NewLimiter(s.limit, s.burst) }
	}
	s.router = s.routes()
	return s
}

// Sessions returns the session registry.
func (s *Server) Sessions() *Sessions { return s.sessions }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Post("/session", s.handleNewSession)
		r.Get("/history", s.handleHistory)
		r.Get("/transcript", s.handleTranscript)
		r.Post("/ask", s.handleAsk)
		r.Post("/image", s.handleImage)
	})
	return r
}

// actionTimeout leaves a tenth of the write timeout to encode and send the
// response. Zero means no deadline.
func (s *Server) actionTimeout() time.Duration {
	if s.writeTimeout <= 0 {
		return 0
	}
	return s.writeTimeout - s.writeTimeout/10
}

// Run serves on addr until ctx is cancelled, evicting idle sessions in
// the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	go s.evictLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) evictLoop(ctx context.Context) {
	if s.idle <= 0 {
		return
	}
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Evict(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "live", s.sessions.Len())
			}
		}
	}
}

// requestLogger logs one line per request with slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("http request",
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
