package utils

import (
	"encoding/json"
	"net/http"

	"glasstrade-backend/internal/apperrors"
)

// Success writes the {"success":true,...} envelope. Extra payload keys
// are merged alongside the success flag.
func Success(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Error writes the {"success":false,"error":...} envelope.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// FromError maps a service error to its HTTP status and writes the
// failure envelope.
func FromError(w http.ResponseWriter, err error) {
	Error(w, apperrors.HTTPStatus(err), err.Error())
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
