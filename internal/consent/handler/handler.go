package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"datatrail/internal/consent"
	"datatrail/internal/transport/http/shared"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/requestcontext"
)

// Service defines the interface for consent operations.
type Service interface {
	SetConsent(ctx context.Context, caller id.Principal, category id.DataCategory, active bool, expiresAt time.Time, termsURI string, termsHash id.Hash) error
	IsConsentActive(ctx context.Context, subject id.Principal, category id.DataCategory) (bool, error)
	GetConsent(ctx context.Context, caller, subject id.Principal, category id.DataCategory) (consent.Consent, error)
}

// Handler handles consent endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new consent Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the authenticated consent routes.
func (h *Handler) Register(r chi.Router) {
	r.Put("/consents/{category}", h.handleSetConsent)
	r.Get("/subjects/{subject}/consents/{category}", h.handleGetConsent)
}

// RegisterPublic registers the unauthenticated consent predicate. It
// discloses only a boolean.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/subjects/{subject}/consents/{category}/active", h.handleIsActive)
}

type setConsentRequest struct {
	Active    bool      `json:"active"`
	ExpiresAt time.Time `json:"expires_at"`
	TermsURI  string    `json:"terms_uri"`
	TermsHash string    `json:"terms_hash"`
}

func (h *Handler) handleSetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req setConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	termsHash, err := id.ParseHash(req.TermsHash)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.SetConsent(ctx, caller, category, req.Active, req.ExpiresAt, req.TermsURI, termsHash); err != nil {
		h.logger.WarnContext(ctx, "set consent failed",
			"request_id", requestcontext.RequestID(ctx),
			"category", category.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	subject := id.Principal(chi.URLParam(r, "subject"))
	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entry, err := h.service.GetConsent(ctx, caller, subject, category)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleIsActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := id.Principal(chi.URLParam(r, "subject"))
	category, err := id.ParseDataCategory(chi.URLParam(r, "category"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	active, err := h.service.IsConsentActive(ctx, subject, category)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"active": active})
}
