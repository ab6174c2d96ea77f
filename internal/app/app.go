// Package app provides the main application logic for the SignSpeak assistive system.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/signspeak/internal/avatar"
	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/recognizer"
	"github.com/ayusman/signspeak/internal/session"
	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
)

// Polling loop constants.
const (
	// DefaultPollInterval is the time between detection cycles.
	DefaultPollInterval = 800 * time.Millisecond
	// DefaultAcceptThreshold is the minimum confidence for a detection
	// to update the current sign.
	DefaultAcceptThreshold = 0.65
)

// Config holds configuration options for the application.
type Config struct {
	Store      *store.Store
	Camera     capture.Camera // optional; built from CameraID when nil
	CameraID   int
	Recognizer recognizer.Client
	Speech     *speech.Scheduler
	Avatar     *avatar.Transitioner

	PollInterval     time.Duration
	AcceptThreshold  float64
	DisplayThreshold float64
	JPEGQuality      int
	ActivityThresh   float64

	// OnSign is invoked whenever a detection is accepted into the session.
	OnSign func(sign string, confidence float64)
}

// State is a point-in-time snapshot of the detection loop.
type State struct {
	Enabled      bool    `json:"enabled"`
	Healthy      bool    `json:"healthy"`
	HandDetected bool    `json:"hand_detected"`
	Sign         string  `json:"sign"`
	Confidence   float64 `json:"confidence"`
	LastError    string  `json:"last_error,omitempty"`
	SessionID    string  `json:"session_id"`
	SessionText  string  `json:"session_text"`
	SkippedTicks int     `json:"skipped_ticks"`
}

// App orchestrates the detection loop: it polls the camera, uploads frames
// to the recognition service, folds the results into the running session,
// and hands accepted signs to speech and the avatar.
type App struct {
	config  Config
	camera  capture.Camera
	gate    *capture.ActivityGate
	session *session.Session

	mu              sync.RWMutex
	enabled         bool
	stopCh          chan struct{}
	cancel          context.CancelFunc
	ctx             context.Context
	inFlight        bool
	acceptThreshold float64
	healthy         bool
	handDetected    bool
	currentSign     string
	confidence      float64
	lastError       string
	skippedTicks    int
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.AcceptThreshold <= 0 {
		config.AcceptThreshold = DefaultAcceptThreshold
	}
	if config.JPEGQuality <= 0 {
		config.JPEGQuality = capture.DefaultJPEGQuality
	}

	camera := config.Camera
	if camera == nil {
		camera = capture.NewCamera(config.CameraID)
	}

	return &App{
		config:          config,
		camera:          camera,
		gate:            capture.NewActivityGate(config.ActivityThresh),
		acceptThreshold: config.AcceptThreshold,
		session: session.New(session.Config{
			DisplayThreshold: config.DisplayThreshold,
			MinGap:           session.DefaultMinGap,
		}),
	}
}

// SetEnabled enables or disables sign detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether sign detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// AcceptThreshold returns the minimum confidence for a detection to
// update the current sign.
func (a *App) AcceptThreshold() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.acceptThreshold
}

// SetAcceptThreshold changes the accept threshold for subsequent cycles.
func (a *App) SetAcceptThreshold(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acceptThreshold = v
}

// DisplayThreshold returns the session acceptance threshold.
func (a *App) DisplayThreshold() float64 {
	return a.session.DisplayThreshold()
}

// SetDisplayThreshold changes the session acceptance threshold.
func (a *App) SetDisplayThreshold(v float64) {
	a.session.SetDisplayThreshold(v)
}

// PollInterval returns the configured time between detection cycles.
func (a *App) PollInterval() time.Duration {
	return a.config.PollInterval
}

// Start checks the recognition service and begins the polling loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Probe the recognition service. A down service is not fatal: the
	// loop keeps polling and recovers when it comes back.
	if a.config.Recognizer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recognizer.DefaultHealthTimeout)
		err := a.config.Recognizer.Health(ctx)
		cancel()

		a.healthy = err == nil
		if err != nil {
			log.Printf("Recognition service unavailable: %v", err)
		}
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.stopCh = make(chan struct{})
	go a.runLoop()

	log.Println("Detection loop started")
	return nil
}

// Stop halts the polling loop, releases the camera and resets detection state.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.gate.Reset()
	a.inFlight = false
	a.handDetected = false
	a.currentSign = ""
	a.confidence = 0
	a.lastError = ""
	a.skippedTicks = 0

	log.Println("Detection loop stopped")
}

// Snapshot returns the current detection state.
func (a *App) Snapshot() State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return State{
		Enabled:      a.enabled,
		Healthy:      a.healthy,
		HandDetected: a.handDetected,
		Sign:         a.currentSign,
		Confidence:   a.confidence,
		LastError:    a.lastError,
		SessionID:    a.session.ID(),
		SessionText:  a.session.Text(),
		SkippedTicks: a.skippedTicks,
	}
}

// ClearSession finishes the running session and persists its transcript.
// The returned transcript is nil when nothing was accepted.
func (a *App) ClearSession() (*session.Transcript, error) {
	finished := a.session.Clear()
	if finished == nil {
		return nil, nil
	}

	if a.config.Store != nil {
		rec := &store.SessionRecord{
			ID:         finished.ID,
			Transcript: finished.Text,
			SignCount:  finished.SignCount,
			StartedAt:  finished.StartedAt,
			EndedAt:    finished.EndedAt,
		}
		if err := a.config.Store.Sessions().Create(rec); err != nil {
			return finished, err
		}
	}

	return finished, nil
}

// Session returns the running session.
func (a *App) Session() *session.Session {
	return a.session
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Speech returns the speech scheduler, which may be nil.
func (a *App) Speech() *speech.Scheduler {
	return a.config.Speech
}

// Avatar returns the avatar transitioner, which may be nil.
func (a *App) Avatar() *avatar.Transitioner {
	return a.config.Avatar
}
