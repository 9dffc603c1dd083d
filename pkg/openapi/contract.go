package openapi

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// SaveOperationID names the operation that stores a flight entry.
	SaveOperationID = "saveFlight"
	// SavePath is the path of the save operation, relative to the server URL.
	SavePath = "/flights"
	// FlightSchema is the component name of the flight record schema.
	FlightSchema = "Flight"
)

//go:embed contract/flight.yaml
var contractSource []byte

// Source returns a copy of the bundled contract as written.
func Source() []byte {
	return append([]byte(nil), contractSource...)
}

type documentConfig struct {
	ctx     context.Context
	servers []string
}

// DocumentOption customises the document returned by Document.
type DocumentOption func(*documentConfig)

// WithServerURL lists url in the document's servers block.
func WithServerURL(url string) DocumentOption {
	return func(cfg *documentConfig) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cfg.servers = append(cfg.servers, trimmed)
		}
	}
}

// WithContext sets the context used while loading and validating.
func WithContext(ctx context.Context) DocumentOption {
	return func(cfg *documentConfig) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}

// Document loads and validates the bundled contract. Each call returns a
// fresh document the caller is free to modify.
func Document(options ...DocumentOption) (*openapi3.T, error) {
	cfg := documentConfig{ctx: context.Background()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{Context: cfg.ctx}
	doc, err := loader.LoadFromData(contractSource)
	if err != nil {
		return nil, fmt.Errorf("openapi: load contract: %w", err)
	}
	if err := doc.Validate(cfg.ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate contract: %w", err)
	}

	for _, url := range cfg.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}
	return doc, nil
}

// MustDocument panics when the bundled contract cannot be loaded.
func MustDocument(options ...DocumentOption) *openapi3.T {
	doc, err := Document(options...)
	if err != nil {
		panic(err)
	}
	return doc
}
