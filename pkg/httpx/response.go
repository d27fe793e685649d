// Package httpx holds the JSON response helpers and middleware shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type jsonError struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes {"error": message} with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, jsonError{Error: message})
}

// WriteOK writes the {"ok": true} acknowledgement used by delete endpoints.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// PathID parses a positive integer path value; ok is false for anything else.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
