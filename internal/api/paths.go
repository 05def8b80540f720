// Package api provides the airline service client implementation.
package api

// GJSON paths for extracting values from service responses.
const (
	PathAnswer = "answer"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20
