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

// Service defines the interface for approval operations.
type Service interface {
	SetInsurerApproval(ctx context.Context, caller, organization id.Principal, approved bool) error
	SetAgentApproval(ctx context.Context, caller, agent id.Principal, approved bool) error
}

// Handler handles the subject's self-service approval endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new approval Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the approval routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/approvals/insurers/{org}", h.handleSetInsurer)
	r.Put("/approvals/agents/{agent}", h.handleSetAgent)
}

type setApprovalRequest struct {
	Approved bool `json:"approved"`
}

func (h *Handler) handleSetInsurer(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, id.Principal(chi.URLParam(r, "org")), h.service.SetInsurerApproval)
}

func (h *Handler) handleSetAgent(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, id.Principal(chi.URLParam(r, "agent")), h.service.SetAgentApproval)
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request, grantee id.Principal, op func(context.Context, id.Principal, id.Principal, bool) error) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req setApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := op(ctx, caller, grantee, req.Approved); err != nil {
		h.logger.WarnContext(ctx, "set approval failed",
			"request_id", requestcontext.RequestID(ctx),
			"grantee", grantee.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
