package source

import (
	"context"
	"sync"
	"time"
)

// MockSource is a call-recording Source for loader tests.
type MockSource struct {
	mu         sync.Mutex
	fetchCalls int

	Records    []any
	FetchError error
	// Delay simulates the network suspension point; a canceled context wins
	// the wait, as it would with a real transport.
	Delay time.Duration
}

func NewMockSource() *MockSource {
	return &MockSource{
		Records: make([]any, 0),
	}
}

func (m *MockSource) Fetch(ctx context.Context) ([]any, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.FetchError != nil {
		return nil, m.FetchError
	}

	return m.Records, nil
}

func (m *MockSource) FetchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fetchCalls
}
