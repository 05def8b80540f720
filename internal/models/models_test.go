package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoleIsValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{Role("system"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageConstructors(t *testing.T) {
	u := NewUserMessage("Is AI202 delayed?")
	if u.Role != RoleUser || u.Content != "Is AI202 delayed?" {
		t.Errorf("NewUserMessage() = %+v", u)
	}

	a := NewAssistantMessage("Flight AI202 is on time")
	if a.Role != RoleAssistant || a.Content != "Flight AI202 is on time" {
		t.Errorf("NewAssistantMessage() = %+v", a)
	}
}

func TestQuestionRequestWireFormat(t *testing.T) {
	data, err := json.Marshal(QuestionRequest{Question: "Is AI202 delayed?"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"question":"Is AI202 delayed?"}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestDefaultHeaders(t *testing.T) {
	headers := DefaultHeaders()
	if headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", headers["Content-Type"])
	}
	if !strings.HasPrefix(headers["User-Agent"], "airchat/") {
		t.Errorf("User-Agent = %q, want airchat/ prefix", headers["User-Agent"])
	}
}
