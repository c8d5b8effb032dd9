package httpapp

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Log.Error("Failed to encode response", "error", err)
	}
}

// respondError reports an expected failure. Expected failure classes answer
// with 200 and {success:false, error}; only missing files get a 404.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
