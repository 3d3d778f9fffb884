package consent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"datatrail/internal/audit"
	"datatrail/internal/platform/metrics"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/platform/sentinel"
	"datatrail/pkg/requestcontext"
)

// AccessEvaluator gates reads of full consent entries.
type AccessEvaluator interface {
	CanAccess(ctx context.Context, subject, caller id.Principal) (bool, error)
}

// Service owns per-subject, per-category consent state. SetConsent is
// self-scoped and a literal overwrite; the active predicate is public.
type Service struct {
	mu       sync.Mutex
	store    Store
	access   AccessEvaluator
	notifier *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewService(store Store, access AccessEvaluator, notifier *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		access:   access,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("datatrail/consent"),
	}
}

// SetConsent replaces the caller's consent entry for the category. No check
// that the expiry lies in the future is performed; an already-expired entry
// is accepted and simply inert.
func (s *Service) SetConsent(ctx context.Context, caller id.Principal, category id.DataCategory, active bool, expiresAt time.Time, termsURI string, termsHash id.Hash) error {
	ctx, span := s.tracer.Start(ctx, "consent.SetConsent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Consent{
		Subject:   caller,
		Category:  category,
		Active:    active,
		ExpiresAt: expiresAt,
		TermsURI:  termsURI,
		TermsHash: termsHash,
	}
	if err := s.store.Put(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store consent")
	}
	if err := s.notifier.Emit(ctx, audit.Event{
		Kind:      audit.KindConsentChanged,
		Actor:     caller,
		Subject:   caller,
		Category:  category,
		Active:    active,
		ExpiresAt: expiresAt,
		TermsURI:  termsURI,
		TermsHash: termsHash,
	}); err != nil {
		return err
	}

	s.metrics.IncMutation("set_consent")
	s.logger.InfoContext(ctx, "consent changed",
		"subject", caller.String(),
		"category", category.String(),
		"active", active,
	)
	return nil
}

// IsConsentActive evaluates the consent predicate at the request-scoped
// "now". Public: it discloses only a boolean. A subject with no entry for
// the category is inactive.
func (s *Service) IsConsentActive(ctx context.Context, subject id.Principal, category id.DataCategory) (bool, error) {
	entry, err := s.store.Get(ctx, subject, category)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	return entry.IsActive(requestcontext.Now(ctx)), nil
}

// GetConsent returns the full consent entry. Accessible to the subject
// itself and to authorized accessors.
//
// Errors: CodeUnauthorized when the caller may not read the subject's data;
// CodeNotFound when no entry exists for the category.
func (s *Service) GetConsent(ctx context.Context, caller, subject id.Principal, category id.DataCategory) (Consent, error) {
	ok, err := s.access.CanAccess(ctx, subject, caller)
	if err != nil {
		return Consent{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate access")
	}
	if !ok {
		s.metrics.IncDenied("get_consent", string(dErrors.CodeUnauthorized))
		return Consent{}, dErrors.New(dErrors.CodeUnauthorized, "caller may not read this subject's consent")
	}

	entry, err := s.store.Get(ctx, subject, category)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Consent{}, dErrors.New(dErrors.CodeNotFound, "no consent entry for category")
		}
		return Consent{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	return entry, nil
}
