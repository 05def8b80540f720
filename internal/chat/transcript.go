// Package chat implements the session chat loop: an append-only transcript
// per session, one synchronous service call per turn, and a render pass after
// every mutation.
package chat

import "github.com/diogo/airchat/internal/models"

// Transcript is the ordered record of a session's messages. Insertion order
// is chronological order is display order. It only grows.
type Transcript struct {
	messages []models.Message
}

// Append adds a message to the end of the transcript
func (t *Transcript) Append(msg models.Message) {
	t.messages = append(t.messages, msg)
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the messages in order
func (t *Transcript) Messages() []models.Message {
	copied := make([]models.Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}
