package registry

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"datatrail/internal/audit"
	"datatrail/internal/platform/metrics"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
)

// Service owns the platform verification relation. Only the administrator
// principal, fixed at construction, may change it; there is no transfer
// operation.
type Service struct {
	mu       sync.Mutex
	store    VerificationStore
	admin    id.Principal
	notifier *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewService(store VerificationStore, admin id.Principal, notifier *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		admin:    admin,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("datatrail/registry"),
	}
}

// SetVerified marks an organization as platform-verified or not. Idempotent:
// re-setting the same value re-emits the notification and nothing else.
//
// Errors: CodeUnauthorized when the caller is not the administrator.
func (s *Service) SetVerified(ctx context.Context, caller, org id.Principal, verified bool) error {
	ctx, span := s.tracer.Start(ctx, "registry.SetVerified")
	defer span.End()

	if caller != s.admin {
		s.metrics.IncDenied("set_verified", string(dErrors.CodeUnauthorized))
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator may set verification")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetVerified(ctx, org, verified); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification")
	}
	if err := s.notifier.Emit(ctx, audit.Event{
		Kind:         audit.KindVerificationChanged,
		Actor:        caller,
		Subject:      org,
		Organization: org,
		Verified:     verified,
	}); err != nil {
		return err
	}

	s.metrics.IncMutation("set_verified")
	s.logger.InfoContext(ctx, "verification changed",
		"organization", org.String(),
		"verified", verified,
	)
	return nil
}

// IsVerified reports whether the organization is platform-verified.
func (s *Service) IsVerified(ctx context.Context, org id.Principal) (bool, error) {
	verified, err := s.store.IsVerified(ctx, org)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read verification")
	}
	return verified, nil
}
