package middleware

import (
	"net/http"
	"time"

	"datatrail/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All operations within a single request use the
// same "now", so authorization and consent checks are evaluated against one
// consistent instant.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
