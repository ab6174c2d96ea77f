// Package avatar sequences the crossfade between sign demonstrations.
// Rendering itself happens in the UI; this package only tracks which sign
// is visible and which fade phase the display is in.
package avatar

import (
	"sync"
	"time"
)

// Phase is the current step of a crossfade transition.
type Phase int

const (
	// PhaseIdle indicates no transition is in progress.
	PhaseIdle Phase = iota
	// PhaseFadingOut indicates the previous sign is fading out.
	PhaseFadingOut
	// PhaseFadingIn indicates the new sign is fading in.
	PhaseFadingIn
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingOut:
		return "fading-out"
	case PhaseFadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

// Default fade timings.
const (
	DefaultFadeOut = 300 * time.Millisecond
	DefaultFadeIn  = 300 * time.Millisecond
)

// Config holds configuration options for the transitioner.
type Config struct {
	FadeOut time.Duration
	FadeIn  time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{FadeOut: DefaultFadeOut, FadeIn: DefaultFadeIn}
}

// Transitioner runs the idle → fading-out → fading-in → idle sequence on
// a single timer. Starting a new transition cancels the pending timer of
// a superseded one, so overlapping requests never race.
type Transitioner struct {
	config Config

	mu      sync.Mutex
	phase   Phase
	current string // sign currently on screen
	next    string // sign the active transition is switching to
	timer   *time.Timer
	onPhase func(Phase, string)
}

// NewTransitioner creates a Transitioner in the idle phase.
func NewTransitioner(config Config) *Transitioner {
	if config.FadeOut <= 0 {
		config.FadeOut = DefaultFadeOut
	}
	if config.FadeIn <= 0 {
		config.FadeIn = DefaultFadeIn
	}
	return &Transitioner{config: config}
}

// OnPhase registers a callback invoked on every phase change with the
// phase entered and the sign on screen at that moment.
func (t *Transitioner) OnPhase(fn func(Phase, string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPhase = fn
}

// Show starts a transition to the given sign. A transition already in
// progress is superseded: its pending timer is cancelled and the new
// fade-out starts from the current phase.
func (t *Transitioner) Show(sign string) {
	t.mu.Lock()

	if t.phase == PhaseIdle && t.current == sign {
		t.mu.Unlock()
		return
	}

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	t.next = sign
	t.phase = PhaseFadingOut
	t.timer = time.AfterFunc(t.config.FadeOut, t.fadeOutDone)
	fn := t.onPhase
	current := t.current
	t.mu.Unlock()

	if fn != nil {
		fn(PhaseFadingOut, current)
	}
}

// fadeOutDone switches the displayed sign and starts the fade-in.
func (t *Transitioner) fadeOutDone() {
	t.mu.Lock()
	if t.phase != PhaseFadingOut {
		// Superseded or stopped after the timer fired.
		t.mu.Unlock()
		return
	}

	t.current = t.next
	t.next = ""
	t.phase = PhaseFadingIn
	t.timer = time.AfterFunc(t.config.FadeIn, t.fadeInDone)
	fn := t.onPhase
	current := t.current
	t.mu.Unlock()

	if fn != nil {
		fn(PhaseFadingIn, current)
	}
}

// fadeInDone returns the transitioner to idle.
func (t *Transitioner) fadeInDone() {
	t.mu.Lock()
	if t.phase != PhaseFadingIn {
		t.mu.Unlock()
		return
	}

	t.phase = PhaseIdle
	t.timer = nil
	fn := t.onPhase
	current := t.current
	t.mu.Unlock()

	if fn != nil {
		fn(PhaseIdle, current)
	}
}

// Current returns the sign on screen and the active phase.
func (t *Transitioner) Current() (string, Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.phase
}

// Stop cancels any pending transition and returns to idle without
// changing the displayed sign.
func (t *Transitioner) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.phase = PhaseIdle
	t.next = ""
}
