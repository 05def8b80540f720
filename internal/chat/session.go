package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/airchat/internal/api"
	"github.com/diogo/airchat/internal/models"
)

// Renderer displays a full transcript. It receives a copy and must not
// mutate the session.
type Renderer interface {
	Render(messages []models.Message)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(messages []models.Message)

// Render calls f(messages)
func (f RendererFunc) Render(messages []models.Message) {
	f(messages)
}

// Session holds exactly one transcript and the client used to answer it.
// Turns are serialized; reads are safe from any goroutine.
type Session struct {
	id       string
	client   api.AirlineClientInterface
	renderer Renderer

	// turnMu is held for a whole Submit so both appends land together.
	turnMu sync.Mutex

	mu         sync.RWMutex
	transcript Transcript
	lastActive time.Time
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithRenderer sets the renderer invoked after every append
func WithRenderer(r Renderer) SessionOption {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithID sets the session identifier instead of generating one
func WithID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession creates an empty session bound to client
func NewSession(client api.AirlineClientInterface, opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		lastActive: time.Now(),
		client:     client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// LastActive returns when a message was last appended
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Len returns the transcript length
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Len()
}

// Touch marks the session as active without changing the transcript
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Messages()
}

// Submit runs one turn: append the question, render, ask the service,
// append the reply, render. It returns the two appended messages.
func (s *Session) Submit(ctx context.Context, userText string) (question, reply models.Message) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	question = s.AddQuestion(userText)
	answer, err := s.client.Ask(ctx, userText)
	reply = s.AddReply(answer, err)
	return question, reply
}

// AddQuestion appends a user message and renders. Callers that run the
// service call themselves must follow it with AddReply.
func (s *Session) AddQuestion(userText string) models.Message {
	msg := models.NewUserMessage(userText)
	s.append(msg)
	return msg
}

// AddReply appends the assistant message for a completed service call and
// renders.
func (s *Session) AddReply(answer string, err error) models.Message {
	msg := models.NewAssistantMessage(ReplyText(answer, err))
	s.append(msg)
	return msg
}

// Ask runs the service call for userText without touching the transcript.
func (s *Session) Ask(ctx context.Context, userText string) (string, error) {
	return s.client.Ask(ctx, userText)
}

// RenderAll hands the current transcript to the renderer
func (s *Session) RenderAll() {
	if s.renderer == nil {
		return
	}
	s.renderer.Render(s.Messages())
}

func (s *Session) append(msg models.Message) {
	s.mu.Lock()
	s.transcript.Append(msg)
	s.lastActive = time.Now()
	s.mu.Unlock()

	s.RenderAll()
}
