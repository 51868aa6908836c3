package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the standard API response wrapper used across handlers.
// Message is usually a string; validation failures carry a field→messages map.
type Envelope struct {
	Code    int   `json:"code"`
	Message any   `json:"message,omitempty"`
	Data    any   `json:"data,omitempty"`
	HasMore *bool `json:"has_more,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	env := Envelope{Code: status, Data: data}
	if message != "" {
		env.Message = message
	}
	write(w, status, env)
}

// Page writes one window of a list along with the has_more flag.
func Page(w http.ResponseWriter, data any, hasMore bool) {
	write(w, http.StatusOK, Envelope{Code: http.StatusOK, Data: data, HasMore: &hasMore})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message any) {
	write(w, status, Envelope{Code: status, Message: message})
}

// NoContent answers 204 without a body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
