package api

import (
	"context"
	"sync"
)

// MockAirlineClient is a mock implementation of AirlineClientInterface for testing
type MockAirlineClient struct {
	// Mock return values
	AskVal      string
	AskErr      error
	AskFunc     func(ctx context.Context, question string) (string, error)
	EndpointVal string

	// Call recorders
	mu          sync.Mutex
	Questions   []string
	CloseCalled bool
}

// Ensure MockAirlineClient implements AirlineClientInterface
var _ AirlineClientInterface = (*MockAirlineClient)(nil)

func (m *MockAirlineClient) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	m.Questions = append(m.Questions, question)
	fn := m.AskFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question)
	}
	return m.AskVal, m.AskErr
}

func (m *MockAirlineClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockAirlineClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// Calls returns how many questions were asked
func (m *MockAirlineClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Questions)
}
