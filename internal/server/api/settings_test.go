package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/store"
)

func newSettingsHandler(t *testing.T) (*SettingsHandler, *store.Store, *app.App) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	a := app.New(app.Config{PollInterval: 800 * time.Millisecond})
	return NewSettingsHandler(s, a), s, a
}

func TestSettingsHandler_GetDefaults(t *testing.T) {
	handler, _, _ := newSettingsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp settingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AcceptThreshold != app.DefaultAcceptThreshold {
		t.Errorf("accept threshold = %f, want %f", resp.AcceptThreshold, app.DefaultAcceptThreshold)
	}
	if resp.PollIntervalMS != 800 {
		t.Errorf("poll interval = %d, want 800", resp.PollIntervalMS)
	}
}

func TestSettingsHandler_SetPersistsAndApplies(t *testing.T) {
	handler, s, a := newSettingsHandler(t)

	body := `{"accept_threshold": 0.8, "display_threshold": 0.85}`
	req := httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	if got := a.AcceptThreshold(); got != 0.8 {
		t.Errorf("live accept threshold = %f, want 0.8", got)
	}
	if got := a.DisplayThreshold(); got != 0.85 {
		t.Errorf("live display threshold = %f, want 0.85", got)
	}

	stored, err := s.Settings().Get(SettingAcceptThreshold)
	if err != nil {
		t.Fatalf("stored accept threshold missing: %v", err)
	}
	if stored != "0.8" {
		t.Errorf("stored accept threshold = %q, want %q", stored, "0.8")
	}
	stored, err = s.Settings().Get(SettingDisplayThreshold)
	if err != nil {
		t.Fatalf("stored display threshold missing: %v", err)
	}
	if stored != "0.85" {
		t.Errorf("stored display threshold = %q, want %q", stored, "0.85")
	}
}

func TestSettingsHandler_SetRejectsOutOfRange(t *testing.T) {
	handler, _, a := newSettingsHandler(t)

	for _, body := range []string{
		`{"accept_threshold": 1.5}`,
		`{"accept_threshold": 0}`,
		`{"display_threshold": -0.2}`,
		`{}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status for %s = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}

	if got := a.AcceptThreshold(); got != app.DefaultAcceptThreshold {
		t.Errorf("accept threshold = %f, want unchanged default", got)
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	handler, _, _ := newSettingsHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
