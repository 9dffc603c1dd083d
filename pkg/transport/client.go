package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/openapi"
)

// DefaultTimeout bounds a single save request.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// ContractMessage is the form-level message used when a record fails the
// contract before it is sent.
const ContractMessage = "The entry does not match the logbook format."

// Client posts flight records as JSON to a save endpoint.
type Client struct {
	endpoint  string
	http      *http.Client
	timeout   time.Duration
	validator *openapi.Validator
	headers   http.Header
	logger    *zap.Logger
}

var _ form.Saver = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader adds a header to every request, such as an Authorization token.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithValidator checks records against v before sending. Pass nil to send
// records unchecked.
func WithValidator(v *openapi.Validator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client that posts to endpoint, the full URL of the save
// operation. Records are validated against the bundled contract unless
// WithValidator(nil) is given.
func New(endpoint string, options ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("transport: endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("transport: endpoint %q is not an http(s) url", endpoint)
	}

	validator, err := openapi.DefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("transport: load contract: %w", err)
	}

	c := &Client{
		endpoint:  endpoint,
		http:      http.DefaultClient,
		timeout:   DefaultTimeout,
		validator: validator,
		headers:   make(http.Header),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint returns the URL records are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type errorPayload struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Save posts record and returns the stored copy. Contract violations and
// non-2xx responses are reported as *form.SaveError.
func (c *Client) Save(ctx context.Context, record flight.Record) (flight.Record, error) {
	if c.validator != nil {
		if issues := c.validator.Validate(record); len(issues) > 0 {
			return flight.Record{}, &form.SaveError{
				Message: ContractMessage,
				Errors:  openapi.Errors(issues),
			}
		}
	}

	body, err := json.Marshal(record)
	if err != nil {
		return flight.Record{}, fmt.Errorf("transport: encode record: %w", err)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return flight.Record{}, fmt.Errorf("transport: build request: %w", err)
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return flight.Record{}, fmt.Errorf("transport: post %s: %w", c.endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return flight.Record{}, fmt.Errorf("transport: read response: %w", err)
	}
	c.logger.Debug("save request finished",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return flight.Record{}, decodeFailure(resp, data)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return record, nil
	}
	var saved flight.Partial
	if err := json.Unmarshal(data, &saved); err != nil {
		return flight.Record{}, fmt.Errorf("transport: decode saved record: %w", err)
	}
	return flight.FromObject(saved), nil
}

func decodeFailure(resp *http.Response, data []byte) error {
	saveErr := &form.SaveError{Status: resp.StatusCode}

	var payload errorPayload
	if len(bytes.TrimSpace(data)) > 0 && json.Unmarshal(data, &payload) == nil {
		saveErr.Message = strings.TrimSpace(payload.Message)
		saveErr.Errors = payload.Errors
	}
	if saveErr.Message == "" && len(saveErr.Errors) == 0 {
		saveErr.Message = fmt.Sprintf("The server could not save the flight (%s).", strings.TrimSpace(resp.Status))
	}
	return saveErr
}
