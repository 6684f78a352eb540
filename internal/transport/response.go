package transport

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the single error envelope for the whole API. Details maps
// field name to reason for validation failures; it is omitted otherwise so
// clients can branch on its presence.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// WriteMessage is for operations whose only payload is an acknowledgement,
// like calendar deletions.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageResponse{Message: message})
}
