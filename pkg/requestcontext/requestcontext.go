// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services consume them. Keeping the package
// free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	caller := requestcontext.Principal(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithPrincipal(ctx, "subject-1")
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "datatrail/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	principalKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	userAgentKey   struct{}
	clientIPKey    struct{}
)

// WithPrincipal stores the authenticated caller principal.
func WithPrincipal(ctx context.Context, p id.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// Principal retrieves the authenticated caller, or the zero principal when
// the request is unauthenticated.
func Principal(ctx context.Context) id.Principal {
	p, _ := ctx.Value(principalKey{}).(id.Principal)
	return p
}

// WithRequestID stores the request correlation ID.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID retrieves the request correlation ID, or "" when unset.
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// WithTime injects the request-scoped "now". All operations within a single
// request observe the same timestamp, which keeps consent evaluation and
// record acceptance deterministic and testable.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now retrieves the request-scoped time, falling back to the wall clock when
// no middleware has set one.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithUserAgent stores the raw request user agent.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// UserAgent retrieves the raw request user agent, or "" when unset.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

// WithClientIP stores the remote client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP retrieves the remote client address, or "" when unset.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
