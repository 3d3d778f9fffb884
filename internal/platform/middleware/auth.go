package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	id "datatrail/pkg/domain"
	"datatrail/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	Principal id.Principal
	JTI       string
}

const adminKeyHeader = "X-Admin-Key"

// RequireAuth resolves the caller principal before the core is invoked. A
// bearer JWT identifies any principal; the out-of-band admin key identifies
// the administrator principal. Requests with neither are rejected.
func RequireAuth(validator JWTValidator, adminKeyHash string, admin id.Principal, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if key := r.Header.Get(adminKeyHeader); key != "" && adminKeyHash != "" {
				if err := bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(key)); err != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid_admin_key", "admin key rejected")
					return
				}
				ctx = requestcontext.WithPrincipal(ctx, admin)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WarnContext(ctx, "token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", "token validation failed")
				return
			}
			if claims.Principal.IsZero() {
				writeJSONError(w, http.StatusUnauthorized, "invalid_token", "token carries no subject")
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, claims.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errCode,
		"error_description": errDesc,
	})
}
