package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/render"
	"github.com/goliatone/go-logbook/pkg/render/template/gotemplate"
	"github.com/goliatone/go-logbook/pkg/renderers/vanilla"
)

const (
	assetsPrefix      = "/assets/"
	readHeaderTimeout = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

// Server serves mounted logbook forms.
type Server struct {
	engine          *formstate.Engine
	saver           form.Saver
	renderer        render.Renderer
	theme           *theme.RendererConfig
	logger          *zap.Logger
	registry        *prometheus.Registry
	ttl             time.Duration
	shutdownTimeout time.Duration
	allowedOrigins  []string
	now             func() time.Time

	page        *gotemplate.Engine
	sessions    *Sessions
	metrics     *httpMetrics
	formMetrics *form.Metrics
	upgrader    websocket.Upgrader
	router      chi.Router
}

// New builds a server. Without options it serves the default flight entry
// form and keeps saved records in memory.
func New(options ...Option) (*Server, error) {
	s := &Server{
		engine:          formstate.Default(),
		logger:          zap.NewNop(),
		ttl:             DefaultFormTTL,
		shutdownTimeout: DefaultShutdownTimeout,
		now:             time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.saver == nil {
		s.saver = form.NewRecorder()
	}
	if s.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithScriptURL(assetsPrefix + vanilla.RuntimeScriptName))
		if err != nil {
			return nil, fmt.Errorf("server: configure renderer: %w", err)
		}
		s.renderer = renderer
	}

	page, err := gotemplate.New(gotemplate.WithFS(pageTemplates), gotemplate.WithExtension(".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("server: configure page template: %w", err)
	}
	s.page = page

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.metrics, err = newHTTPMetrics(s.registry); err != nil {
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}
	if s.formMetrics, err = form.NewMetrics(s.registry); err != nil {
		return nil, fmt.Errorf("server: register form metrics: %w", err)
	}

	s.sessions = newSessions(s.ttl, s.now, s.mountForm, s.metrics.mounted)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) mountForm(id string) *form.Form {
	return form.New(
		form.WithID(id),
		form.WithEngine(s.engine),
		form.WithSaver(s.saver),
		form.WithLogger(s.logger),
		form.WithMetrics(s.formMetrics),
		form.WithClock(s.now),
	)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the mounted forms.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	r.Handle(assetsPrefix+"*", http.StripPrefix(assetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/flights/new", http.StatusSeeOther)
	})
	r.Get("/flights/new", s.handleNewFlight)

	r.Route("/api", func(r chi.Router) {
		if len(s.allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.allowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"Location"},
				AllowCredentials: false,
				MaxAge:           300,
			}))
		}
		r.Get("/schema", s.handleSchema)
		r.Post("/forms", s.handleMountJSON)
	})

	r.Route("/forms/{id}", func(r chi.Router) {
		r.Get("/", s.handleShow)
		r.Delete("/", s.handleDelete)
		r.Post("/change", s.handleChange)
		r.Post("/blur", s.handleBlur)
		r.Post("/reset", s.handleReset)
		r.Post("/submit", s.handleSubmit)
		r.Get("/live", s.handleLive)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// checkOrigin allows same-host upgrades, plus the configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return strings.EqualFold(trimmed, r.Host)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully and
// unmounts every form.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if s.ttl > 0 {
		go s.sessions.run(sweepCtx, sweepInterval(s.ttl))
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.sessions.CloseAll()
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.sessions.CloseAll()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
