package recognizer

import (
	"context"
	"sync"
	"time"
)

// MockClient is a test implementation of the Client interface.
// It allows tests to control health and detection outcomes, delay
// responses to simulate slow cycles, and count calls.
type MockClient struct {
	mu          sync.Mutex
	healthErr   error
	result      *Result
	results     []*Result // consumed in order when set
	detectErr   error
	detectDelay time.Duration
	healthCalls int
	detectCalls int
}

// NewMockClient creates a new MockClient instance.
func NewMockClient() *MockClient {
	return &MockClient{result: &Result{}}
}

// SetHealthError sets the error returned by Health.
func (m *MockClient) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

// SetResult sets the result returned by every DetectSign call.
func (m *MockClient) SetResult(r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = r
	m.results = nil
}

// SetResults sets a sequence of results returned by successive DetectSign
// calls. The last result repeats once the sequence is exhausted.
func (m *MockClient) SetResults(results []*Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = results
}

// SetDetectError sets the error returned by DetectSign.
func (m *MockClient) SetDetectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectErr = err
}

// SetDetectDelay makes DetectSign block for the given duration.
func (m *MockClient) SetDetectDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectDelay = d
}

// HealthCalls returns how many times Health was called.
func (m *MockClient) HealthCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthCalls
}

// DetectCalls returns how many times DetectSign was called.
func (m *MockClient) DetectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detectCalls
}

// Health returns the pre-configured error.
func (m *MockClient) Health(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthCalls++
	return m.healthErr
}

// DetectSign returns the pre-configured result or error after the
// configured delay.
func (m *MockClient) DetectSign(ctx context.Context, jpeg []byte) (*Result, error) {
	m.mu.Lock()
	m.detectCalls++
	delay := m.detectDelay
	err := m.detectErr
	r := m.result
	if len(m.results) > 0 {
		r = m.results[0]
		if len(m.results) > 1 {
			m.results = m.results[1:]
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if r == nil {
		return &Result{}, nil
	}
	out := *r
	return &out, nil
}
