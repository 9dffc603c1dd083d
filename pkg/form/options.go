package form

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/formstate"
)

// Option configures a Form.
type Option func(*Form)

// WithID names the form instance in logs and spans.
func WithID(id string) Option {
	return func(f *Form) {
		f.id = strings.TrimSpace(id)
	}
}

// WithEngine mounts the form on engine instead of the logbook default, for
// declarations decorated with a layout.
func WithEngine(engine *formstate.Engine) Option {
	return func(f *Form) {
		if engine != nil {
			f.engine = engine
		}
	}
}

// WithSaver sets the collaborator Submit hands records to. The default is an
// in-memory Recorder.
func WithSaver(saver Saver) Option {
	return func(f *Form) {
		if saver != nil {
			f.saver = saver
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics records actions and submissions on m.
func WithMetrics(m *Metrics) Option {
	return func(f *Form) {
		f.metrics = m
	}
}

// WithTracer sets the tracer used for submission spans. The default comes
// from the global otel provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(f *Form) {
		if tracer != nil {
			f.tracer = tracer
		}
	}
}

// WithClock overrides time.Now, for activity tracking and save timing.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}
