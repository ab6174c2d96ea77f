// Package speech provides speech output scheduling for the SignSpeak assistive system.
package speech

import (
	"context"
	"errors"
)

// ErrCancelled is returned by an engine when an utterance is cancelled mid-playback.
var ErrCancelled = errors.New("utterance cancelled")

// Priority controls where an utterance is placed in the speech queue.
type Priority int

const (
	// PriorityNormal appends the utterance to the end of the queue.
	PriorityNormal Priority = iota
	// PriorityHigh inserts the utterance at the front of the queue.
	PriorityHigh
	// PriorityImmediate cancels the current utterance and speaks next.
	PriorityImmediate
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// Voice describes a single voice offered by a speech engine.
type Voice struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Language     string `json:"language"` // BCP 47 tag, e.g. "en-US"
	LocalService bool   `json:"local_service"`
}

// Utterance is a single text-to-speech playback request.
type Utterance struct {
	ID       string
	Text     string
	Rate     float64 // Speech rate multiplier (1.0 = normal)
	Pitch    float64 // Pitch adjustment (1.0 = normal)
	Volume   float64 // Volume level (0.0 to 1.0)
	Voice    *Voice  // nil means the engine default voice
	Priority Priority
}

// Engine defines the interface to an underlying speech synthesis backend.
type Engine interface {
	// Voices returns the list of voices the engine can speak with.
	Voices() ([]Voice, error)

	// Speak plays the utterance and blocks until playback ends,
	// is cancelled, or the context is done.
	Speak(ctx context.Context, u Utterance) error

	// Cancel stops the in-progress utterance, if any.
	Cancel()

	// Pause temporarily halts the in-progress utterance.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error
}
