// Package session accumulates accepted signs into a running transcript.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default accumulation settings.
const (
	// DefaultDisplayThreshold is the minimum confidence for a sign to be
	// appended to the transcript.
	DefaultDisplayThreshold = 0.7
	// DefaultMinGap is the minimum time between two accepted signs.
	DefaultMinGap = 2 * time.Second
)

// Stats summarizes a session's recognition activity.
type Stats struct {
	Observed  int       `json:"observed"`
	Accepted  int       `json:"accepted"`
	StartedAt time.Time `json:"started_at"`
}

// Transcript is a finished session ready for persistence.
type Transcript struct {
	ID        string
	Text      string
	SignCount int
	StartedAt time.Time
	EndedAt   time.Time
}

// Config holds configuration options for a session.
type Config struct {
	DisplayThreshold float64
	MinGap           time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		DisplayThreshold: DefaultDisplayThreshold,
		MinGap:           DefaultMinGap,
	}
}

// Session is the ordered sequence of accepted sign tokens. A sign is
// accepted when its confidence exceeds the display threshold, it differs
// from the most recently accepted sign, and the minimum gap since the
// last acceptance has passed.
type Session struct {
	config Config

	mu         sync.Mutex
	id         string
	signs      []string
	lastSign   string
	lastAccept time.Time
	observed   int
	started    time.Time
}

// New creates an empty session.
func New(config Config) *Session {
	if config.DisplayThreshold <= 0 {
		config.DisplayThreshold = DefaultDisplayThreshold
	}
	if config.MinGap < 0 {
		config.MinGap = DefaultMinGap
	}

	return &Session{
		config:  config,
		id:      uuid.New().String(),
		started: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// DisplayThreshold returns the acceptance confidence threshold.
func (s *Session) DisplayThreshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.DisplayThreshold
}

// SetDisplayThreshold changes the acceptance confidence threshold for
// subsequent observations.
func (s *Session) SetDisplayThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.DisplayThreshold = v
}

// Observe feeds one recognition outcome into the session and reports
// whether the sign was accepted into the transcript.
func (s *Session) Observe(sign string, confidence float64) bool {
	sign = strings.TrimSpace(sign)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.observed++

	if sign == "" || confidence <= s.config.DisplayThreshold {
		return false
	}
	if sign == s.lastSign {
		return false
	}
	now := time.Now()
	if !s.lastAccept.IsZero() && now.Sub(s.lastAccept) < s.config.MinGap {
		return false
	}

	s.signs = append(s.signs, sign)
	s.lastSign = sign
	s.lastAccept = now
	return true
}

// Text returns the transcript: accepted signs joined with single spaces.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.signs, " ")
}

// Signs returns a copy of the accepted sign sequence.
func (s *Session) Signs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.signs))
	copy(out, s.signs)
	return out
}

// LastSign returns the most recently accepted sign, or empty.
func (s *Session) LastSign() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSign
}

// Stats returns a snapshot of the session statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Observed:  s.observed,
		Accepted:  len(s.signs),
		StartedAt: s.started,
	}
}

// Clear resets the session and returns the finished transcript. The
// returned transcript is nil when nothing was accepted.
func (s *Session) Clear() *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	var finished *Transcript
	if len(s.signs) > 0 {
		finished = &Transcript{
			ID:        s.id,
			Text:      strings.Join(s.signs, " "),
			SignCount: len(s.signs),
			StartedAt: s.started,
			EndedAt:   time.Now(),
		}
	}

	s.id = uuid.New().String()
	s.signs = nil
	s.lastSign = ""
	s.lastAccept = time.Time{}
	s.observed = 0
	s.started = time.Now()

	return finished
}
