package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
)

// PhrasesHandler handles HTTP requests for phrase overrides. Changes are
// persisted and applied to the live formatter so the next utterance
// already uses them.
type PhrasesHandler struct {
	store     *store.Store
	formatter *speech.Formatter
}

// NewPhrasesHandler creates a new PhrasesHandler. The formatter may be nil
// when speech is unavailable; overrides are then only persisted.
func NewPhrasesHandler(s *store.Store, formatter *speech.Formatter) *PhrasesHandler {
	return &PhrasesHandler{store: s, formatter: formatter}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PhrasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/phrases or /api/phrases/{sign}
	path := strings.TrimPrefix(r.URL.Path, "/api/phrases")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.set(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	sign := strings.ToUpper(path)
	switch r.Method {
	case http.MethodDelete:
		h.delete(w, r, sign)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type setPhraseRequest struct {
	Sign   string `json:"sign"`
	Phrase string `json:"phrase"`
}

type listPhrasesResponse struct {
	Phrases []*store.Phrase `json:"phrases"`
}

// list handles GET /api/phrases and returns all stored overrides.
func (h *PhrasesHandler) list(w http.ResponseWriter, r *http.Request) {
	phrases, err := h.store.Phrases().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list phrases")
		return
	}

	if phrases == nil {
		phrases = []*store.Phrase{}
	}
	writeJSON(w, http.StatusOK, listPhrasesResponse{Phrases: phrases})
}

// set handles POST /api/phrases and stores an override.
func (h *PhrasesHandler) set(w http.ResponseWriter, r *http.Request) {
	var req setPhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sign := strings.ToUpper(strings.TrimSpace(req.Sign))
	phrase := strings.TrimSpace(req.Phrase)
	if sign == "" || phrase == "" {
		writeError(w, http.StatusBadRequest, "Sign and phrase are required")
		return
	}

	if err := h.store.Phrases().Set(sign, phrase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store phrase")
		return
	}

	if h.formatter != nil {
		h.formatter.Override(sign, phrase)
	}

	writeJSON(w, http.StatusOK, setPhraseRequest{Sign: sign, Phrase: phrase})
}

// delete handles DELETE /api/phrases/{sign} and removes an override.
func (h *PhrasesHandler) delete(w http.ResponseWriter, r *http.Request, sign string) {
	err := h.store.Phrases().Delete(sign)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete phrase")
		return
	}

	if h.formatter != nil {
		h.formatter.Reset(sign)
	}

	w.WriteHeader(http.StatusNoContent)
}
