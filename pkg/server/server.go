package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/store"
	"github.com/matzehuels/algoviz/pkg/structure"
)

// maxBodyBytes bounds uploaded documents.
const maxBodyBytes = 8 << 20

// Server serves scenario documents from a store.
type Server struct {
	store    store.Store
	logger   *log.Logger
	metrics  http.Handler
	viewport render.Rect
	treeOpts []structure.Option
	router   chi.Router

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Without one nothing is logged.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithViewport sets the rectangle frames are rendered in.
func WithViewport(r render.Rect) Option { return func(s *Server) { s.viewport = r } }

// WithTreeOptions sets the options used to rebuild stored structures.
func WithTreeOptions(opts ...structure.Option) Option {
	return func(s *Server) { s.treeOpts = opts }
}

// WithTimeouts sets the read and write timeouts of ListenAndServe.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) { s.readTimeout, s.writeTimeout = read, write }
}

// New creates a server over st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:        st,
		viewport:     render.Rect{W: 800, H: 600},
		readTimeout:  10 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Get("/frame.svg", s.handleFrame)
			r.Get("/structure.svg", s.handleStructure)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	if s.logger != nil {
		s.logger.Info("Listening", "addr", addr)
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
