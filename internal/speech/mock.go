package speech

import (
	"context"
	"sync"
	"time"
)

// MockEngine is a test implementation of the Engine interface.
// It lets tests control the voice list, per-utterance playback duration
// and failure modes, and records everything it was asked to speak.
type MockEngine struct {
	mu         sync.Mutex
	voices     []Voice
	voicesErr  error
	speakDelay time.Duration
	speakErr   error
	spoken     []Utterance
	paused     int
	resumed    int
	cancel     chan struct{}
}

// NewMockEngine creates a new MockEngine instance.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// SetVoices sets the voices returned by Voices.
func (m *MockEngine) SetVoices(voices []Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = voices
}

// SetVoicesError sets the error returned by Voices.
func (m *MockEngine) SetVoicesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voicesErr = err
}

// SetSpeakDelay sets how long each Speak call blocks before returning.
func (m *MockEngine) SetSpeakDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakDelay = d
}

// SetSpeakError sets the error returned by Speak.
func (m *MockEngine) SetSpeakError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakErr = err
}

// Spoken returns a copy of the utterances passed to Speak so far.
func (m *MockEngine) Spoken() []Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Utterance, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// SpokenTexts returns just the texts passed to Speak so far.
func (m *MockEngine) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, len(m.spoken))
	for i, u := range m.spoken {
		texts[i] = u.Text
	}
	return texts
}

// PauseCount returns how many times Pause was called.
func (m *MockEngine) PauseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// ResumeCount returns how many times Resume was called.
func (m *MockEngine) ResumeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumed
}

// Voices returns the pre-configured voice list or error.
func (m *MockEngine) Voices() ([]Voice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.voicesErr != nil {
		return nil, m.voicesErr
	}
	return m.voices, nil
}

// Speak records the utterance and blocks for the configured delay,
// returning early when cancelled.
func (m *MockEngine) Speak(ctx context.Context, u Utterance) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, u)
	cancel := make(chan struct{})
	m.cancel = cancel
	delay := m.speakDelay
	err := m.speakErr
	m.mu.Unlock()

	if err != nil {
		return err
	}

	select {
	case <-time.After(delay):
		return nil
	case <-cancel:
		return ErrCancelled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel unblocks the in-progress Speak call, if any.
func (m *MockEngine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		close(m.cancel)
		m.cancel = nil
	}
}

// Pause records the call.
func (m *MockEngine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused++
	return nil
}

// Resume records the call.
func (m *MockEngine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumed++
	return nil
}
