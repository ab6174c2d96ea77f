package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/signspeak/internal/speech"
)

func TestPhrasesHandler_SetAppliesToFormatter(t *testing.T) {
	s := newTestStore(t)
	formatter := speech.NewFormatter()
	handler := NewPhrasesHandler(s, formatter)

	body, _ := json.Marshal(setPhraseRequest{Sign: "thanks", Phrase: "Many thanks"})
	req := httptest.NewRequest(http.MethodPost, "/api/phrases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// The sign is normalized to uppercase and the live formatter updated
	if got := formatter.Format("THANKS"); got != "Many thanks" {
		t.Errorf("Format(THANKS) = %q, want %q", got, "Many thanks")
	}

	stored, err := s.Phrases().Get("THANKS")
	if err != nil {
		t.Fatalf("override not persisted: %v", err)
	}
	if stored.Phrase != "Many thanks" {
		t.Errorf("stored phrase = %q, want %q", stored.Phrase, "Many thanks")
	}
}

func TestPhrasesHandler_SetRejectsBlank(t *testing.T) {
	s := newTestStore(t)
	handler := NewPhrasesHandler(s, nil)

	body, _ := json.Marshal(setPhraseRequest{Sign: "", Phrase: "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/phrases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPhrasesHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewPhrasesHandler(s, nil)

	s.Phrases().Set("HELLO", "Hi")
	s.Phrases().Set("YES", "Yep")

	req := httptest.NewRequest(http.MethodGet, "/api/phrases", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp listPhrasesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Phrases) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(resp.Phrases))
	}
}

func TestPhrasesHandler_DeleteRestoresDefault(t *testing.T) {
	s := newTestStore(t)
	formatter := speech.NewFormatter()
	handler := NewPhrasesHandler(s, formatter)

	s.Phrases().Set("THANKS", "Many thanks")
	formatter.Override("THANKS", "Many thanks")

	req := httptest.NewRequest(http.MethodDelete, "/api/phrases/THANKS", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	if got := formatter.Format("THANKS"); got != "Thank you" {
		t.Errorf("Format(THANKS) = %q, want default %q", got, "Thank you")
	}
}

func TestPhrasesHandler_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewPhrasesHandler(s, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/phrases/MISSING", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
