package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"datatrail/pkg/requestcontext"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logger emits one structured log line per request. The client device is
// summarized from the user agent so the audit consumers can correlate
// mutations with the submitting application.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			ctx := requestcontext.WithClientIP(r.Context(), ip)
			ctx = requestcontext.WithUserAgent(ctx, r.UserAgent())

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			ua := useragent.New(r.UserAgent())
			browser, version := ua.Browser()
			logger.InfoContext(ctx, "request",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", ip,
				"client_os", ua.OS(),
				"client_browser", browser+"/"+version,
				"bot", ua.Bot(),
			)
		})
	}
}
