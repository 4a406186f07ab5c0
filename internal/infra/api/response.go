package api

import (
	"encoding/json"
	"net/http"
	"time"
)

const successMessage = "Request successful"

// Envelope is the body of every JSON response.
type Envelope struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp,omitempty"`
	Path      string `json:"path,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteData wraps data in a success envelope.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Status: true, Message: successMessage, Data: data})
}

// WriteError writes a failure envelope stamped with the request path.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	WriteJSON(w, code, Envelope{
		Status:    false,
		Message:   msg,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Path:      r.URL.Path,
	})
}
