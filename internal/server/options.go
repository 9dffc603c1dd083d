package server

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/render"
)

const (
	// DefaultFormTTL is how long an untouched form stays mounted.
	DefaultFormTTL = 30 * time.Minute
	// DefaultShutdownTimeout bounds the graceful shutdown in Run.
	DefaultShutdownTimeout = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithEngine mounts forms on engine, typically one built from a
// layout-decorated declaration.
func WithEngine(engine *formstate.Engine) Option {
	return func(s *Server) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSaver sets the store every mounted form saves into.
func WithSaver(saver form.Saver) Option {
	return func(s *Server) {
		if saver != nil {
			s.saver = saver
		}
	}
}

// WithRenderer replaces the vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTheme passes resolved theme tokens to the renderer.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry registers the server and form metrics on reg and serves it
// from /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithFormTTL sets the idle time after which forms are unmounted. Zero keeps
// forms until they are deleted.
func WithFormTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// WithAllowedOrigins enables CORS on the JSON API and restricts websocket
// upgrades to the listed origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		for _, origin := range origins {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				s.allowedOrigins = append(s.allowedOrigins, trimmed)
			}
		}
	}
}

// WithClock replaces time.Now for TTL bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}
