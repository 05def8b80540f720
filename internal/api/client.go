package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/airchat/internal/models"
)

// AirlineClientInterface is the surface the chat loop needs from a service client.
type AirlineClientInterface interface {
	// Ask sends one question and returns the answer text. Any error is a
	// *errors.ServiceCallFailure.
	Ask(ctx context.Context, question string) (string, error)
	Endpoint() string
	Close()
}

// AirlineClient talks to the airline question-answering endpoint
type AirlineClient struct {
	httpClient tls_client.HttpClient
	endpoint   string
	timeout    time.Duration
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure AirlineClient implements AirlineClientInterface
var _ AirlineClientInterface = (*AirlineClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*AirlineClient)

// WithEndpoint overrides the service URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *AirlineClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AirlineClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient injects the underlying HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *AirlineClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for per-call diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *AirlineClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new AirlineClient
func NewClient(opts ...ClientOption) (*AirlineClient, error) {
	client := &AirlineClient{
		endpoint: models.EndpointChat,
		timeout:  models.DefaultTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// The transport timeout backs up the per-call context deadline.
		seconds := int(client.timeout / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(seconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the service URL
func (c *AirlineClient) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-call timeout
func (c *AirlineClient) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections. Subsequent calls fail.
func (c *AirlineClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *AirlineClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
