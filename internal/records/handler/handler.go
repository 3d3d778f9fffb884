package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"datatrail/internal/records"
	"datatrail/internal/transport/http/shared"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the interface for record log operations.
type Service interface {
	Add(ctx context.Context, caller, subject id.Principal, category id.DataCategory, fingerprint id.Hash, locationURI string, keyHint id.Hash, collectedAt time.Time) (int, error)
	Redact(ctx context.Context, caller id.Principal, index int) error
	Count(ctx context.Context, caller, subject id.Principal) (int, error)
	Get(ctx context.Context, caller, subject id.Principal, index int) (records.DataRecord, error)
}

// Handler handles record log endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new records Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the record routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subjects/{subject}/records", h.handleAdd)
	r.Post("/records/{index}/redact", h.handleRedact)
	r.Get("/subjects/{subject}/records/count", h.handleCount)
	r.Get("/subjects/{subject}/records/{index}", h.handleGet)
}

type addRecordRequest struct {
	Category          string    `json:"category"`
	DataFingerprint   string    `json:"data_fingerprint"`
	LocationURI       string    `json:"location_uri"`
	EncryptionKeyHint string    `json:"encryption_key_hint"`
	CollectedAt       time.Time `json:"collected_at"`
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	subject := id.Principal(chi.URLParam(r, "subject"))

	var req addRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	category, err := id.ParseDataCategory(req.Category)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	fingerprint, err := id.ParseHash(req.DataFingerprint)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	keyHint, err := id.ParseHash(req.EncryptionKeyHint)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	index, err := h.service.Add(ctx, caller, subject, category, fingerprint, req.LocationURI, keyHint, req.CollectedAt)
	if err != nil {
		h.logger.WarnContext(ctx, "add record failed",
			"request_id", requestcontext.RequestID(ctx),
			"subject", subject.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]int{"index": index})
}

func (h *Handler) handleRedact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record index"))
		return
	}

	if err := h.service.Redact(ctx, caller, index); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	subject := id.Principal(chi.URLParam(r, "subject"))

	count, err := h.service.Count(ctx, caller, subject)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	subject := id.Principal(chi.URLParam(r, "subject"))

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record index"))
		return
	}

	record, err := h.service.Get(ctx, caller, subject, index)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}
