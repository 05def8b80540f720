package models

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents a single chat message in a transcript
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a message authored by the assistant
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// QuestionRequest is the JSON body sent to the service.
type QuestionRequest struct {
	Question string `json:"question"`
}
