package router

import (
	"encoding/json"
	"net/http"
	"time"
)

const fallbackMessage = "The requested service is currently unavailable. Please try again later."

type fallbackResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FallbackHandler answers for an upstream whose breaker refused or whose call failed.
func FallbackHandler(now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, fallbackResponse{
			Error:     "Service Unavailable",
			Message:   fallbackMessage,
			Timestamp: now().Format(time.RFC3339Nano),
		})
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func renderJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, errorResponse{Error: message, Code: statusCode})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
