// Package server provides the HTTP server for the SignSpeak assistive system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/server/api"
	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the SignSpeak application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/detection", s.handleDetection)
		s.mux.HandleFunc("/api/session", s.handleSession)
		s.mux.HandleFunc("/api/session/clear", s.handleSessionClear)
		s.mux.HandleFunc("/api/speak", s.handleSpeak)
		s.mux.HandleFunc("/api/speak/stop", s.handleSpeakStop)
		s.mux.HandleFunc("/api/speak/pause", s.handleSpeakPause)
		s.mux.HandleFunc("/api/speak/resume", s.handleSpeakResume)
		s.mux.HandleFunc("/api/signs", s.handleSigns)

		s.events = NewEventsHandler(s.config.App)
		s.mux.Handle("/api/events", s.events)

		if s.config.App.Camera() != nil {
			s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		}
	}

	// Stored session history and phrase overrides need the database
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)

		var formatter *speech.Formatter
		if s.config.App != nil && s.config.App.Speech() != nil {
			formatter = s.config.App.Speech().Formatter()
		}
		phrasesHandler := api.NewPhrasesHandler(s.config.Store, formatter)
		s.mux.Handle("/api/phrases", phrasesHandler)
		s.mux.Handle("/api/phrases/", phrasesHandler)

		if s.config.App != nil {
			s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, s.config.App))
		}
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops the event broadcaster. Safe to call more than once.
func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.App.Snapshot())
}

// handleDetection handles POST requests to /api/detection to toggle polling.
func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s.config.App.SetEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

// handleSession handles GET requests to /api/session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.config.App.Session()
	stats := sess.Stats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       sess.ID(),
		"text":     sess.Text(),
		"signs":    sess.Signs(),
		"observed": stats.Observed,
		"accepted": stats.Accepted,
	})
}

// handleSessionClear handles POST requests to /api/session/clear. The
// finished transcript is persisted and returned; an empty session clears
// to nothing and responds 204.
func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	finished, err := s.config.App.ClearSession()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist session")
		return
	}
	if finished == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         finished.ID,
		"text":       finished.Text,
		"sign_count": finished.SignCount,
	})
}

// handleSpeak handles POST requests to /api/speak.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scheduler := s.config.App.Speech()
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not available")
		return
	}

	var req struct {
		Text     string `json:"text"`
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	priority, ok := parsePriority(req.Priority)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	queued := scheduler.Speak(req.Text, speech.SpeakOptions{Priority: priority})
	writeJSON(w, http.StatusOK, map[string]bool{"queued": queued})
}

// handleSpeakStop handles POST requests to /api/speak/stop.
func (s *Server) handleSpeakStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scheduler := s.config.App.Speech()
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not available")
		return
	}

	scheduler.StopSpeaking()
	scheduler.ClearQueue()
	w.WriteHeader(http.StatusNoContent)
}

// handleSpeakPause handles POST requests to /api/speak/pause.
func (s *Server) handleSpeakPause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scheduler := s.config.App.Speech()
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not available")
		return
	}

	scheduler.PauseSpeaking()
	w.WriteHeader(http.StatusNoContent)
}

// handleSpeakResume handles POST requests to /api/speak/resume.
func (s *Server) handleSpeakResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scheduler := s.config.App.Speech()
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not available")
		return
	}

	scheduler.ResumeSpeaking()
	w.WriteHeader(http.StatusNoContent)
}

// handleSigns handles GET requests to /api/signs: the known sign
// vocabulary with the phrase each sign speaks as.
func (s *Server) handleSigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scheduler := s.config.App.Speech()
	if scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not available")
		return
	}

	formatter := scheduler.Formatter()
	signs := formatter.Signs()

	entries := make([]map[string]string, 0, len(signs))
	for _, sign := range signs {
		entries = append(entries, map[string]string{
			"sign":   sign,
			"phrase": formatter.Format(sign),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"signs": entries})
}

// parsePriority maps the wire priority names to speech priorities.
func parsePriority(name string) (speech.Priority, bool) {
	switch name {
	case "", "normal":
		return speech.PriorityNormal, true
	case "high":
		return speech.PriorityHigh, true
	case "immediate":
		return speech.PriorityImmediate, true
	default:
		return speech.PriorityNormal, false
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
