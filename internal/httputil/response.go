package httputil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/banshee-data/telescope.tracker/internal/monitoring"
)

// WriteJSON replies with v as indented JSON. Debug pages are read by people,
// so the output favours legibility over size.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		monitoring.Logf("failed to encode json response: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// MethodNotAllowed replies 405 and advertises the allowed methods.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
