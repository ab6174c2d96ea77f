package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/store"
)

// Settings keys read at startup and written by this handler.
const (
	SettingAcceptThreshold  = "accept_threshold"
	SettingDisplayThreshold = "display_threshold"
	SettingPollIntervalMS   = "poll_interval_ms"
)

// SettingsHandler handles HTTP requests for detection tuning. Threshold
// changes are persisted and applied to the running loop; the poll
// interval is persisted and picked up on the next start.
type SettingsHandler struct {
	store *store.Store
	app   *app.App
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s *store.Store, a *app.App) *SettingsHandler {
	return &SettingsHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type settingsResponse struct {
	AcceptThreshold  float64 `json:"accept_threshold"`
	DisplayThreshold float64 `json:"display_threshold"`
	PollIntervalMS   int64   `json:"poll_interval_ms"`
}

type setSettingsRequest struct {
	AcceptThreshold  *float64 `json:"accept_threshold"`
	DisplayThreshold *float64 `json:"display_threshold"`
}

func (h *SettingsHandler) current() settingsResponse {
	return settingsResponse{
		AcceptThreshold:  h.app.AcceptThreshold(),
		DisplayThreshold: h.app.DisplayThreshold(),
		PollIntervalMS:   h.app.PollInterval().Milliseconds(),
	}
}

// get handles GET /api/settings and returns the live detection settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// set handles POST /api/settings. Absent fields are left unchanged.
func (h *SettingsHandler) set(w http.ResponseWriter, r *http.Request) {
	var req setSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AcceptThreshold == nil && req.DisplayThreshold == nil {
		writeError(w, http.StatusBadRequest, "No settings given")
		return
	}

	if req.AcceptThreshold != nil {
		v := *req.AcceptThreshold
		if v <= 0 || v > 1 {
			writeError(w, http.StatusBadRequest, "Accept threshold must be in (0, 1]")
			return
		}
		if err := h.store.Settings().Set(SettingAcceptThreshold, formatThreshold(v)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store setting")
			return
		}
		h.app.SetAcceptThreshold(v)
	}

	if req.DisplayThreshold != nil {
		v := *req.DisplayThreshold
		if v <= 0 || v > 1 {
			writeError(w, http.StatusBadRequest, "Display threshold must be in (0, 1]")
			return
		}
		if err := h.store.Settings().Set(SettingDisplayThreshold, formatThreshold(v)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store setting")
			return
		}
		h.app.SetDisplayThreshold(v)
	}

	writeJSON(w, http.StatusOK, h.current())
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
