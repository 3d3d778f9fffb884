package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accesshandler "datatrail/internal/access/handler"
	approvalhandler "datatrail/internal/approval/handler"
	consenthandler "datatrail/internal/consent/handler"
	"datatrail/internal/platform/middleware"
	recordshandler "datatrail/internal/records/handler"
	registryhandler "datatrail/internal/registry/handler"
)

// Handlers groups the per-domain handlers the router mounts.
type Handlers struct {
	Registry *registryhandler.Handler
	Approval *approvalhandler.Handler
	Consent  *consenthandler.Handler
	Records  *recordshandler.Handler
	Access   *accesshandler.Handler
}

// NewRouter wires all endpoints. Authenticated routes resolve the caller
// principal before any core operation runs; the boolean decision queries are
// public by design.
func NewRouter(logger *slog.Logger, requireAuth func(http.Handler) http.Handler, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(pub chi.Router) {
		h.Consent.RegisterPublic(pub)
		h.Access.RegisterPublic(pub)
	})

	r.Group(func(priv chi.Router) {
		priv.Use(requireAuth)
		h.Registry.Register(priv)
		h.Approval.Register(priv)
		h.Consent.Register(priv)
		h.Records.Register(priv)
	})

	return r
}
