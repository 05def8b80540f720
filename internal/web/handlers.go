package web

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/diogo/airchat/internal/models"
)

// maxQuestionBytes bounds request bodies for both message endpoints
const maxQuestionBytes = 64 << 10

type pageMessage struct {
	Role models.Role
	HTML template.HTML
}

type pageData struct {
	Title       string
	Caption     string
	Placeholder string
	Messages    []pageMessage
}

type messagesResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []models.Message `json:"messages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	messages := session.Messages()
	data := pageData{
		Title:       models.AppTitle,
		Caption:     models.AppCaption,
		Placeholder: models.InputPlaceholder,
		Messages:    make([]pageMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		data.Messages = append(data.Messages, pageMessage{
			Role: msg.Role,
			HTML: s.markdown.Render(msg.Content),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err, "session", session.ID())
	}
}

// handleFormMessage runs a turn from the page form and redirects back to
// the page.
func (s *Server) handleFormMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQuestionBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	question := r.PostForm.Get("question")
	if strings.TrimSpace(question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	s.runTurn(r, question)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, messagesResponse{
		SessionID: session.ID(),
		Messages:  session.Messages(),
	})
}

func (s *Server) handleAPIMessage(w http.ResponseWriter, r *http.Request) {
	var payload models.QuestionRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxQuestionBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := payload.Question
	if strings.TrimSpace(question) == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	q, reply := s.runTurn(r, question)
	respondJSON(w, http.StatusOK, messagesResponse{
		SessionID: sessionFrom(r.Context()).ID(),
		Messages:  []models.Message{q, reply},
	})
}

// runTurn submits question on the caller's session and logs the outcome.
// The turn is detached from the request's cancellation; only the client's
// call timeout ends it.
func (s *Server) runTurn(r *http.Request, question string) (q, reply models.Message) {
	session := sessionFrom(r.Context())

	start := time.Now()
	q, reply = session.Submit(context.WithoutCancel(r.Context()), question)

	s.logger.Info("turn",
		"session", session.ID(),
		"duration", time.Since(start),
		"failed", strings.HasPrefix(reply.Content, models.ErrorReplyPrefix),
		"messages", session.Len(),
	)
	return q, reply
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
