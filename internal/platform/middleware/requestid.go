package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"datatrail/pkg/requestcontext"
)

const requestIDHeader = "X-Request-Id"

// RequestID ensures every request carries a correlation ID, honoring one
// supplied by the caller and minting one otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)
		ctx := requestcontext.WithRequestID(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
