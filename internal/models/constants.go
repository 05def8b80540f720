// Package models contains data types and constants for the airline chat client.
package models

import "time"

// Endpoints for the airline question-answering service
const (
	EndpointChat = "https://esqizm4qw8.execute-api.ap-south-1.amazonaws.com/chat"
)

// DefaultTimeout bounds a single service call.
const DefaultTimeout = 30 * time.Second

// Reply texts shown in the transcript
const (
	// FallbackAnswer is used when the service replies without an answer field.
	FallbackAnswer = "No response received."

	// ErrorReplyPrefix starts every assistant reply produced from a failed call.
	ErrorReplyPrefix = "⚠️ Error contacting airline service: "
)

// Presentation strings shared by the terminal and browser surfaces
const (
	AppTitle         = "✈️ Airline Assistant"
	AppCaption       = "Ask questions about flights, delays, routes, and dates"
	InputPlaceholder = "Ask about airline flights..."
)

// DefaultHeaders returns the default headers for service requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "airchat/" + Version,
	}
}

// Version is the client version reported in the User-Agent header.
// Overridden at build time through the commands package.
var Version = "0.1.0"
