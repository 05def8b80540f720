package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	http2 "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"

	apierrors "github.com/diogo/airchat/internal/errors"
	"github.com/diogo/airchat/internal/models"
)

const testEndpoint = "https://airline.test/chat"

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc func(req *http2.Request) (*http2.Response, error)

	mu         sync.Mutex
	requests   []*http2.Request
	bodies     []string
	closedIdle bool
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*http2.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*http2.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar http2.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() http2.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                 { return nil }
func (m *mockHTTPClient) GetProxy() string                               { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)          {}
func (m *mockHTTPClient) GetFollowRedirect() bool                        { return false }
func (m *mockHTTPClient) Get(url string) (*http2.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*http2.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*http2.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedIdle = true
}

func (m *mockHTTPClient) Do(req *http2.Request) (*http2.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.bodies = append(m.bodies, string(data))
	}
	m.mu.Unlock()

	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, errors.New("no response configured")
}

// respondWith returns a doFunc that replies with the given status and body
func respondWith(status int, body string) func(req *http2.Request) (*http2.Response, error) {
	return func(req *http2.Request) (*http2.Response, error) {
		return &http2.Response{
			StatusCode: status,
			Header:     http2.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// timeoutNetError mimics a transport-level timeout
type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func newTestClient(t *testing.T, mock *mockHTTPClient, opts ...ClientOption) *AirlineClient {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock), WithEndpoint(testEndpoint)}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	defer client.Close()

	if client.Endpoint() != models.EndpointChat {
		t.Errorf("Endpoint() = %s, want %s", client.Endpoint(), models.EndpointChat)
	}
	if client.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", client.Timeout())
	}
}

func TestNewClientOptions(t *testing.T) {
	tests := []struct {
		name         string
		opts         []ClientOption
		wantEndpoint string
		wantTimeout  time.Duration
	}{
		{
			name:         "custom endpoint and timeout",
			opts:         []ClientOption{WithEndpoint("http://localhost:9000/chat"), WithTimeout(5 * time.Second)},
			wantEndpoint: "http://localhost:9000/chat",
			wantTimeout:  5 * time.Second,
		},
		{
			name:         "empty endpoint keeps default",
			opts:         []ClientOption{WithEndpoint("")},
			wantEndpoint: models.EndpointChat,
			wantTimeout:  models.DefaultTimeout,
		},
		{
			name:         "non-positive timeout keeps default",
			opts:         []ClientOption{WithTimeout(0)},
			wantEndpoint: models.EndpointChat,
			wantTimeout:  models.DefaultTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&mockHTTPClient{})}, tt.opts...)
			client, err := NewClient(opts...)
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.Endpoint() != tt.wantEndpoint {
				t.Errorf("Endpoint() = %s, want %s", client.Endpoint(), tt.wantEndpoint)
			}
			if client.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", client.Timeout(), tt.wantTimeout)
			}
		})
	}
}

func TestAskSendsQuestion(t *testing.T) {
	mock := &mockHTTPClient{doFunc: respondWith(200, `{"answer":"ok"}`)}
	client := newTestClient(t, mock)

	if _, err := client.Ask(context.Background(), "Is AI202 delayed?"); err != nil {
		t.Fatalf("Ask() unexpected error: %v", err)
	}

	if len(mock.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mock.requests))
	}
	req := mock.requests[0]
	if req.Method != http2.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.String() != testEndpoint {
		t.Errorf("URL = %s, want %s", req.URL.String(), testEndpoint)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var body models.QuestionRequest
	if err := json.Unmarshal([]byte(mock.bodies[0]), &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body.Question != "Is AI202 delayed?" {
		t.Errorf("question = %q, want %q", body.Question, "Is AI202 delayed?")
	}
}

func TestAskResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		wantKind apierrors.FailureKind
	}{
		{name: "answer", status: 200, body: `{"answer": "Flight AI202 is on time"}`, want: "Flight AI202 is on time"},
		{name: "missing answer", status: 200, body: `{}`, want: models.FallbackAnswer},
		{name: "null answer", status: 200, body: `{"answer": null}`, want: models.FallbackAnswer},
		{name: "empty string answer", status: 200, body: `{"answer": ""}`, want: ""},
		{name: "numeric answer", status: 200, body: `{"answer": 42}`, want: "42"},
		{name: "extra fields", status: 201, body: `{"answer":"yes","sources":[1,2]}`, want: "yes"},
		{name: "server error", status: 500, body: `{"message":"Internal server error"}`, wantKind: apierrors.KindStatus},
		{name: "not found", status: 404, body: ``, wantKind: apierrors.KindStatus},
		{name: "malformed json", status: 200, body: `{"answer": "unterminated`, wantKind: apierrors.KindDecode},
		{name: "empty body", status: 200, body: ``, wantKind: apierrors.KindDecode},
		{name: "html body", status: 200, body: `<html>gateway</html>`, wantKind: apierrors.KindDecode},
		{name: "top-level array", status: 200, body: `["answer"]`, wantKind: apierrors.KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &mockHTTPClient{doFunc: respondWith(tt.status, tt.body)})

			got, err := client.Ask(context.Background(), "question")

			if tt.wantKind != "" {
				failure, ok := apierrors.AsServiceCallFailure(err)
				if !ok {
					t.Fatalf("Ask() error = %v, want ServiceCallFailure", err)
				}
				if failure.Kind != tt.wantKind {
					t.Errorf("Kind = %s, want %s", failure.Kind, tt.wantKind)
				}
				if failure.Endpoint != testEndpoint {
					t.Errorf("Endpoint = %s, want %s", failure.Endpoint, testEndpoint)
				}
				return
			}

			if err != nil {
				t.Fatalf("Ask() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Ask() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAskStatusErrorKeepsBody(t *testing.T) {
	client := newTestClient(t, &mockHTTPClient{doFunc: respondWith(503, "maintenance")})

	_, err := client.Ask(context.Background(), "question")

	if apierrors.GetHTTPStatus(err) != 503 {
		t.Errorf("GetHTTPStatus() = %d, want 503", apierrors.GetHTTPStatus(err))
	}
	if apierrors.GetResponseBody(err) != "maintenance" {
		t.Errorf("GetResponseBody() = %q, want maintenance", apierrors.GetResponseBody(err))
	}
}

func TestAskConnectionRefused(t *testing.T) {
	mock := &mockHTTPClient{doFunc: func(req *http2.Request) (*http2.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:9: connect: connection refused")
	}}
	client := newTestClient(t, mock)

	_, err := client.Ask(context.Background(), "question")

	if !apierrors.IsNetworkError(err) {
		t.Fatalf("Ask() error = %v, want network failure", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %s, want the cause included", err.Error())
	}
}

func TestAskTimeout(t *testing.T) {
	tests := []struct {
		name   string
		doFunc func(req *http2.Request) (*http2.Response, error)
	}{
		{
			name: "context deadline",
			doFunc: func(req *http2.Request) (*http2.Response, error) {
				<-req.Context().Done()
				return nil, req.Context().Err()
			},
		},
		{
			name: "transport timeout",
			doFunc: func(req *http2.Request) (*http2.Response, error) {
				return nil, &url.Error{Op: "Post", URL: testEndpoint, Err: timeoutNetError{}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &mockHTTPClient{doFunc: tt.doFunc}, WithTimeout(20*time.Millisecond))

			_, err := client.Ask(context.Background(), "question")

			if !apierrors.IsTimeoutError(err) {
				t.Fatalf("Ask() error = %v, want timeout failure", err)
			}
			if !errors.Is(err, apierrors.ErrTimeout) {
				t.Error("expected errors.Is(err, ErrTimeout)")
			}
		})
	}
}

func TestAskAfterClose(t *testing.T) {
	mock := &mockHTTPClient{doFunc: respondWith(200, `{"answer":"ok"}`)}
	client := newTestClient(t, mock)

	client.Close()
	client.Close() // idempotent

	if !client.IsClosed() {
		t.Error("IsClosed() = false after Close()")
	}
	if !mock.closedIdle {
		t.Error("expected idle connections to be closed")
	}

	_, err := client.Ask(context.Background(), "question")
	if !apierrors.IsNetworkError(err) {
		t.Errorf("Ask() error = %v, want network failure", err)
	}
	if len(mock.requests) != 0 {
		t.Errorf("expected no requests after Close(), got %d", len(mock.requests))
	}
}

func TestMockAirlineClient(t *testing.T) {
	mock := &MockAirlineClient{AskVal: "answer"}

	got, err := mock.Ask(context.Background(), "q1")
	if err != nil || got != "answer" {
		t.Errorf("Ask() = %q, %v", got, err)
	}

	mock.AskFunc = func(ctx context.Context, question string) (string, error) {
		return "echo: " + question, nil
	}
	got, _ = mock.Ask(context.Background(), "q2")
	if got != "echo: q2" {
		t.Errorf("Ask() with AskFunc = %q", got)
	}

	if mock.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", mock.Calls())
	}
}
