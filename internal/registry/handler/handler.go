package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datatrail/internal/transport/http/shared"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	SetVerified(ctx context.Context, caller, org id.Principal, verified bool) error
	IsVerified(ctx context.Context, org id.Principal) (bool, error)
}

// Handler handles organization verification endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new registry Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/registry/organizations/{org}/verification", h.handleSetVerified)
	r.Get("/registry/organizations/{org}/verification", h.handleGetVerified)
}

type setVerifiedRequest struct {
	Verified bool `json:"verified"`
}

func (h *Handler) handleSetVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	org := id.Principal(chi.URLParam(r, "org"))
	var req setVerifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.SetVerified(ctx, caller, org, req.Verified); err != nil {
		h.logger.WarnContext(ctx, "set verified failed",
			"request_id", requestcontext.RequestID(ctx),
			"organization", org.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	org := id.Principal(chi.URLParam(r, "org"))
	verified, err := h.service.IsVerified(ctx, org)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}
