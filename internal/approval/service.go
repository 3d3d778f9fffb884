package approval

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

// Service owns the per-subject approval relations. Both operations are
// self-scoped by construction: the caller is always the subject, so no
// principal can alter another's approvals.
type Service struct {
	mu       sync.Mutex
	store    Store
	notifier *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewService(store Store, notifier *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("datatrail/approval"),
	}
}

// SetInsurerApproval grants or withdraws an organization's permission to read
// the caller's records. Idempotent, always succeeds for any caller.
func (s *Service) SetInsurerApproval(ctx context.Context, caller, organization id.Principal, approved bool) error {
	return s.set(ctx, id.ApprovalKindInsurer, caller, organization, approved)
}

// SetAgentApproval delegates or withdraws write authority over the caller's
// record log.
func (s *Service) SetAgentApproval(ctx context.Context, caller, agent id.Principal, approved bool) error {
	return s.set(ctx, id.ApprovalKindAgent, caller, agent, approved)
}

func (s *Service) set(ctx context.Context, kind id.ApprovalKind, subject, grantee id.Principal, approved bool) error {
	ctx, span := s.tracer.Start(ctx, "approval.Set")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, kind, subject, grantee, approved); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update approval")
	}
	if err := s.notifier.Emit(ctx, audit.Event{
		Kind:         audit.KindApprovalChanged,
		Actor:        subject,
		Subject:      subject,
		ApprovalKind: kind,
		Grantee:      grantee,
		Approved:     approved,
	}); err != nil {
		return err
	}

	s.metrics.IncMutation("set_" + kind.String() + "_approval")
	s.logger.InfoContext(ctx, "approval changed",
		"kind", kind.String(),
		"subject", subject.String(),
		"grantee", grantee.String(),
		"approved", approved,
	)
	return nil
}

// IsInsurerApproved reports whether the subject approved the organization for
// reads. The conjunct with platform verification lives in the access
// evaluator, not here.
func (s *Service) IsInsurerApproved(ctx context.Context, subject, organization id.Principal) (bool, error) {
	approved, err := s.store.Get(ctx, id.ApprovalKindInsurer, subject, organization)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read approval")
	}
	return approved, nil
}

// IsAgentApproved reports whether the subject delegated write authority to
// the agent.
func (s *Service) IsAgentApproved(ctx context.Context, subject, agent id.Principal) (bool, error) {
	approved, err := s.store.Get(ctx, id.ApprovalKindAgent, subject, agent)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read approval")
	}
	return approved, nil
}
