// Package web serves the browser chat page and its JSON API.
package web

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diogo/airchat/internal/chat"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Server holds the browser sessions and renders the chat page
type Server struct {
	store        *chat.Store
	logger       *slog.Logger
	page         *template.Template
	markdown     *markdownRenderer
	secureCookie bool
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the logger used for request and turn logs
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSecureCookies marks the session cookie Secure, for HTTPS deployments
func WithSecureCookies(secure bool) ServerOption {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// NewServer creates a Server over store
func NewServer(store *chat.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		page:     template.Must(template.ParseFS(templatesFS, "templates/index.html")),
		markdown: newMarkdownRenderer(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router wires the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleIndex)
		r.Post("/messages", s.handleFormMessage)

		r.Route("/api", func(api chi.Router) {
			api.Get("/transcript", s.handleTranscript)
			api.Post("/messages", s.handleAPIMessage)
		})
	})

	return r
}
