package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datatrail/internal/transport/http/shared"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
)

// Evaluator defines the access decision query.
type Evaluator interface {
	CanAccess(ctx context.Context, subject, caller id.Principal) (bool, error)
}

// Handler exposes the public access decision endpoint.
type Handler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// New creates a new access Handler.
func New(evaluator Evaluator, logger *slog.Logger) *Handler {
	return &Handler{evaluator: evaluator, logger: logger}
}

// RegisterPublic registers the unauthenticated decision query. It discloses
// only a boolean.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/access", h.handleCanAccess)
}

func (h *Handler) handleCanAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := id.Principal(r.URL.Query().Get("subject"))
	caller := id.Principal(r.URL.Query().Get("caller"))
	if subject.IsZero() || caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "subject and caller are required"))
		return
	}

	allowed, err := h.evaluator.CanAccess(ctx, subject, caller)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate access"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}
