package speech

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler lifecycle states.
type State int

const (
	// StateUninitialized indicates Initialize has not been called.
	StateUninitialized State = iota
	// StateLoadingVoices indicates the voice list is being fetched.
	StateLoadingVoices
	// StateReady indicates the scheduler accepts utterances.
	StateReady
	// StateDisabled indicates no speech engine is available.
	StateDisabled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoadingVoices:
		return "loading-voices"
	case StateReady:
		return "ready"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ErrNoEngine is returned by Initialize when no speech engine is configured.
var ErrNoEngine = errors.New("speech engine not available")

// Config holds configuration options for the speech scheduler.
type Config struct {
	// DuplicateWindow is how long an identical normalized text is
	// rejected after being accepted.
	DuplicateWindow time.Duration

	// DrainDelay is the settle time between an utterance ending and the
	// next dequeue attempt.
	DrainDelay time.Duration

	// VoiceLoadAttempts is how many times the voice list is fetched
	// before giving up and using the engine default voice.
	VoiceLoadAttempts int

	// VoiceLoadDelay is the fixed delay between voice list fetches.
	VoiceLoadDelay time.Duration

	// Rate, Pitch and Volume are the defaults applied to utterances
	// that do not set their own.
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		DuplicateWindow:   1500 * time.Millisecond,
		DrainDelay:        50 * time.Millisecond,
		VoiceLoadAttempts: 5,
		VoiceLoadDelay:    250 * time.Millisecond,
		Rate:              1.0,
		Pitch:             1.0,
		Volume:            1.0,
	}
}

// SpeakOptions override scheduler defaults for a single utterance.
type SpeakOptions struct {
	Rate     float64
	Pitch    float64
	Volume   float64
	Priority Priority
}

// Scheduler serializes text-to-speech requests onto a single voice channel.
// It owns the utterance queue: at most one utterance is speaking at any
// time, near-duplicate repeats are suppressed, and priorities control
// queue placement. All fields are guarded by mu; the queue is never
// exposed directly.
type Scheduler struct {
	engine    Engine
	formatter *Formatter
	config    Config
	rules     []VoiceRule

	mu        sync.Mutex
	state     State
	enabled   bool
	voice     *Voice
	queue     []Utterance
	speaking  bool
	currentID string
	lastText  string // normalized text of the last accepted utterance
	lastTime  time.Time
	initErr   error
}

// NewScheduler creates a Scheduler for the given engine.
// A nil engine is allowed; Initialize will then disable the scheduler.
func NewScheduler(engine Engine, config Config) *Scheduler {
	return &Scheduler{
		engine:    engine,
		formatter: NewFormatter(),
		config:    config,
		rules:     DefaultVoiceRules(),
		state:     StateUninitialized,
		enabled:   true,
	}
}

// Initialize loads the voice list and transitions the scheduler to ready.
// Voice loading is retried a fixed number of times; exhaustion is not an
// error, the scheduler degrades to the engine default voice. A missing
// engine transitions to disabled and returns ErrNoEngine.
func (s *Scheduler) Initialize() error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return nil
	}
	if s.engine == nil {
		s.state = StateDisabled
		s.initErr = ErrNoEngine
		s.mu.Unlock()
		return ErrNoEngine
	}
	s.state = StateLoadingVoices
	s.mu.Unlock()

	var voices []Voice
	for attempt := 0; attempt < s.config.VoiceLoadAttempts; attempt++ {
		var err error
		voices, err = s.engine.Voices()
		if err == nil && len(voices) > 0 {
			break
		}
		if err != nil {
			log.Printf("voice list fetch failed (attempt %d/%d): %v", attempt+1, s.config.VoiceLoadAttempts, err)
		}
		time.Sleep(s.config.VoiceLoadDelay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.voice = SelectVoice(voices, s.rules)
	if s.voice != nil {
		log.Printf("selected voice %q (%s)", s.voice.Name, s.voice.Language)
	} else {
		log.Println("no voice found, using engine default")
	}

	s.state = StateReady
	return nil
}

// Formatter returns the phrase formatter used before synthesis.
func (s *Scheduler) Formatter() *Formatter {
	return s.formatter
}

// SetEnabled enables or disables speech output. Disabling does not stop
// the current utterance; callers combine it with StopSpeaking as needed.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// IsEnabled returns whether speech output is enabled.
func (s *Scheduler) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InitError returns the initialization error, if any.
func (s *Scheduler) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// Voice returns the selected voice, or nil when the engine default is used.
func (s *Scheduler) Voice() *Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

// IsSpeaking returns whether an utterance is currently playing.
func (s *Scheduler) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// QueueLen returns the number of pending utterances.
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Speak requests that text be spoken. It returns whether the request was
// accepted. Requests are rejected when the scheduler is disabled or not
// ready, when the text is blank, or when the normalized text repeats the
// previously accepted text within the duplicate suppression window.
//
// Accepted requests update the duplicate tracking immediately, before
// playback. Priority controls placement: immediate cancels the current
// utterance and goes to the queue head, high goes to the head, normal to
// the tail.
func (s *Scheduler) Speak(text string, opts SpeakOptions) bool {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	if !s.enabled || s.state != StateReady || trimmed == "" {
		s.mu.Unlock()
		return false
	}

	normalized := strings.ToUpper(trimmed)
	now := time.Now()
	if normalized == s.lastText && now.Sub(s.lastTime) < s.config.DuplicateWindow {
		s.mu.Unlock()
		return false
	}
	s.lastText = normalized
	s.lastTime = now

	u := Utterance{
		ID:       uuid.New().String(),
		Text:     s.formatter.Format(trimmed),
		Rate:     orDefault(opts.Rate, s.config.Rate),
		Pitch:    orDefault(opts.Pitch, s.config.Pitch),
		Volume:   orDefault(opts.Volume, s.config.Volume),
		Voice:    s.voice,
		Priority: opts.Priority,
	}

	switch opts.Priority {
	case PriorityImmediate:
		s.queue = append([]Utterance{u}, s.queue...)
		if s.speaking {
			s.engine.Cancel()
		}
	case PriorityHigh:
		s.queue = append([]Utterance{u}, s.queue...)
	default:
		s.queue = append(s.queue, u)
	}
	s.mu.Unlock()

	s.drain()
	return true
}

// StopSpeaking cancels the current utterance, if any, and clears the
// speaking state. Pending utterances are not affected; use ClearQueue.
func (s *Scheduler) StopSpeaking() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.speaking {
		return
	}
	s.engine.Cancel()
	s.speaking = false
	s.currentID = ""
}

// ClearQueue empties the pending queue without affecting current playback.
func (s *Scheduler) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
}

// PauseSpeaking pauses the current utterance. No-op when not speaking.
func (s *Scheduler) PauseSpeaking() {
	s.mu.Lock()
	speaking := s.speaking
	s.mu.Unlock()

	if !speaking {
		return
	}
	if err := s.engine.Pause(); err != nil {
		log.Printf("pause failed: %v", err)
	}
}

// ResumeSpeaking resumes a paused utterance. No-op when not speaking.
func (s *Scheduler) ResumeSpeaking() {
	s.mu.Lock()
	speaking := s.speaking
	s.mu.Unlock()

	if !speaking {
		return
	}
	if err := s.engine.Resume(); err != nil {
		log.Printf("resume failed: %v", err)
	}
}

// drain starts the next queued utterance unless one is already playing or
// the queue is empty. It is safe to call opportunistically from any point.
func (s *Scheduler) drain() {
	s.mu.Lock()
	if s.speaking || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}

	u := s.queue[0]
	s.queue = s.queue[1:]
	s.speaking = true
	s.currentID = u.ID
	s.mu.Unlock()

	go s.play(u)
}

// play runs a single utterance to completion, then schedules the next
// dequeue after the settle delay. The currentID check keeps a stale
// completion from clobbering the state of a newer utterance.
func (s *Scheduler) play(u Utterance) {
	err := s.engine.Speak(context.Background(), u)
	if err != nil && !errors.Is(err, ErrCancelled) {
		log.Printf("utterance failed: %v", err)
	}

	s.mu.Lock()
	if s.currentID == u.ID {
		s.speaking = false
		s.currentID = ""
	}
	s.mu.Unlock()

	time.Sleep(s.config.DrainDelay)
	s.drain()
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
