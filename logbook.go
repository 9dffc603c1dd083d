// Package logbook wires the flight entry form: the layout-decorated engine,
// the save collaborator, and the theme handed to HTML renderers.
package logbook

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/render"
	"github.com/goliatone/go-logbook/pkg/renderers/vanilla"
	"github.com/goliatone/go-logbook/pkg/transport"
	"github.com/goliatone/go-logbook/pkg/uischema"
)

// Record is a logbook entry.
type Record = flight.Record

// State is a form state snapshot.
type State = formstate.State

// Action is a form state transition.
type Action = formstate.Action

// NewEngine builds the flight entry engine with labels, hints and actions
// from the layout documents in layouts. A nil layouts uses the bundled
// layout.
func NewEngine(layouts fs.FS) (*formstate.Engine, error) {
	var (
		store *uischema.Store
		err   error
	)
	if layouts == nil {
		store, err = uischema.Default()
	} else {
		store, err = uischema.LoadFS(layouts)
	}
	if err != nil {
		return nil, fmt.Errorf("logbook: load layout: %w", err)
	}

	def := model.FlightEntry()
	if err := uischema.NewDecorator(store).Decorate(&def); err != nil {
		return nil, fmt.Errorf("logbook: apply layout: %w", err)
	}
	return formstate.NewEngine(def)
}

// SaveOptions selects where submitted entries go.
type SaveOptions struct {
	// Endpoint is the full URL entries are POSTed to. Empty keeps entries in
	// memory.
	Endpoint string
	// Token is sent as a bearer token when set.
	Token string
	// Timeout bounds each save; zero keeps the client default.
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewSaver returns the HTTP client for opts.Endpoint, or an in-memory
// recorder when no endpoint is set.
func NewSaver(opts SaveOptions) (form.Saver, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return form.NewRecorder(), nil
	}

	clientOpts := []transport.Option{transport.WithLogger(opts.Logger)}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, transport.WithTimeout(opts.Timeout))
	}
	if token := strings.TrimSpace(opts.Token); token != "" {
		clientOpts = append(clientOpts, transport.WithHeader("Authorization", "Bearer "+token))
	}
	client, err := transport.New(endpoint, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("logbook: configure save endpoint: %w", err)
	}
	return client, nil
}

// Theme builds the renderer theme from a name, variant and token overrides.
// It returns nil when nothing is set.
func Theme(name, variant string, tokens map[string]string) *theme.RendererConfig {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" && variant == "" && len(tokens) == 0 {
		return nil
	}
	return render.ThemeConfig(&theme.Selection{
		Theme:   name,
		Variant: variant,
		Manifest: &theme.Manifest{
			Name:   name,
			Tokens: tokens,
		},
	}, nil)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them and pass the result to vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and the live form script for serving.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
