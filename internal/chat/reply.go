package chat

import "github.com/diogo/airchat/internal/models"

// ReplyText turns the outcome of a service call into the assistant message
// content. Failures are shown to the user as a normal reply.
func ReplyText(answer string, err error) string {
	if err != nil {
		return models.ErrorReplyPrefix + err.Error()
	}
	return answer
}
