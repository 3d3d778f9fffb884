// Package shared centralizes JSON envelopes and domain error translation so
// every handler returns consistent responses.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "datatrail/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response with a stable
// error code envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}
