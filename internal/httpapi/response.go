package httpapi

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape for every endpoint.
// Degraded results still report Success true; callers must inspect the
// note inside Data to learn about degraded provenance.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// respondData writes a successful envelope.
func respondData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// respondList writes a successful envelope with a count field.
func respondList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}
