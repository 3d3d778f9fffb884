package records

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

// ConsentChecker reports whether consent for a category is active right now.
type ConsentChecker interface {
	IsConsentActive(ctx context.Context, subject id.Principal, category id.DataCategory) (bool, error)
}

// AgentApprovalReader reports delegated write authority.
type AgentApprovalReader interface {
	IsAgentApproved(ctx context.Context, subject, agent id.Principal) (bool, error)
}

// AccessEvaluator gates all record reads.
type AccessEvaluator interface {
	CanAccess(ctx context.Context, subject, caller id.Principal) (bool, error)
}

// Service owns the per-subject record logs. Add is the sole write entry
// point; Redact flips the one soft flag; Count and Get are gated reads.
type Service struct {
	mu        sync.Mutex
	store     Store
	consents  ConsentChecker
	approvals AgentApprovalReader
	access    AccessEvaluator
	notifier  *audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewService(store Store, consents ConsentChecker, approvals AgentApprovalReader, access AccessEvaluator, notifier *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		consents:  consents,
		approvals: approvals,
		access:    access,
		notifier:  notifier,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("datatrail/records"),
	}
}

// Add appends a record to the subject's log and returns its index. StoredAt
// is assigned from the request-scoped clock, never writer-supplied.
//
// Errors: CodeUnauthorized unless the caller is the subject or an approved
// agent; CodeConsentRequired unless consent for the category is active at
// call time. Both checks run before any state changes.
func (s *Service) Add(ctx context.Context, caller, subject id.Principal, category id.DataCategory, fingerprint id.Hash, locationURI string, keyHint id.Hash, collectedAt time.Time) (int, error) {
	ctx, span := s.tracer.Start(ctx, "records.Add")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != subject {
		delegated, err := s.approvals.IsAgentApproved(ctx, subject, caller)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read agent approval")
		}
		if !delegated {
			s.metrics.IncDenied("add_record", string(dErrors.CodeUnauthorized))
			return 0, dErrors.New(dErrors.CodeUnauthorized, "caller is neither the subject nor an approved agent")
		}
	}

	active, err := s.consents.IsConsentActive(ctx, subject, category)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate consent")
	}
	if !active {
		s.metrics.IncDenied("add_record", string(dErrors.CodeConsentRequired))
		return 0, dErrors.New(dErrors.CodeConsentRequired, "no active consent for category")
	}

	record := DataRecord{
		Subject:           subject,
		Category:          category,
		DataFingerprint:   fingerprint,
		LocationURI:       locationURI,
		EncryptionKeyHint: keyHint,
		CollectedAt:       collectedAt,
		StoredAt:          requestcontext.Now(ctx),
	}
	index, err := s.store.Append(ctx, record)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append record")
	}

	if err := s.notifier.Emit(ctx, audit.Event{
		Kind:        audit.KindRecordAdded,
		Actor:       caller,
		Subject:     subject,
		Category:    category,
		Index:       index,
		Fingerprint: fingerprint,
		LocationURI: locationURI,
		KeyHint:     keyHint,
		CollectedAt: collectedAt,
	}); err != nil {
		return 0, err
	}

	s.metrics.IncMutation("add_record")
	s.metrics.IncRecordsAppended()
	s.logger.InfoContext(ctx, "record added",
		"subject", subject.String(),
		"category", category.String(),
		"index", index,
	)
	return index, nil
}

// Redact flags a record in the caller's own log. Idempotent and
// irreversible; no operation clears the flag, and record content is
// untouched. Agents cannot redact on a subject's behalf.
//
// Errors: CodeIndexOutOfBounds when the index does not exist.
func (s *Service) Redact(ctx context.Context, caller id.Principal, index int) error {
	ctx, span := s.tracer.Start(ctx, "records.Redact")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Redact(ctx, caller, index); err != nil {
		if errors.Is(err, sentinel.ErrOutOfRange) {
			s.metrics.IncDenied("redact_record", string(dErrors.CodeIndexOutOfBounds))
			return dErrors.New(dErrors.CodeIndexOutOfBounds, "no record at index")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to redact record")
	}

	if err := s.notifier.Emit(ctx, audit.Event{
		Kind:     audit.KindRecordRedacted,
		Actor:    caller,
		Subject:  caller,
		Index:    index,
		Redacted: true,
	}); err != nil {
		return err
	}

	s.metrics.IncMutation("redact_record")
	s.metrics.IncRecordsRedacted()
	s.logger.InfoContext(ctx, "record redacted",
		"subject", caller.String(),
		"index", index,
	)
	return nil
}

// Count returns the length of the subject's log, including redacted entries;
// redaction never hides existence.
//
// Errors: CodeUnauthorized when the caller may not read the subject's data.
func (s *Service) Count(ctx context.Context, caller, subject id.Principal) (int, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRead(time.Since(start)) }()

	if err := s.authorizeRead(ctx, caller, subject, "get_record_count"); err != nil {
		return 0, err
	}
	count, err := s.store.Count(ctx, subject)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count records")
	}
	return count, nil
}

// Get returns the full record at the index, redacted or not. The redacted
// flag is a signal for consumers to disregard the referenced payload, not an
// access restriction.
//
// Errors: CodeUnauthorized when the caller may not read the subject's data;
// CodeIndexOutOfBounds when the index does not exist.
func (s *Service) Get(ctx context.Context, caller, subject id.Principal, index int) (DataRecord, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRead(time.Since(start)) }()

	if err := s.authorizeRead(ctx, caller, subject, "get_record"); err != nil {
		return DataRecord{}, err
	}
	record, err := s.store.Get(ctx, subject, index)
	if err != nil {
		if errors.Is(err, sentinel.ErrOutOfRange) {
			return DataRecord{}, dErrors.New(dErrors.CodeIndexOutOfBounds, "no record at index")
		}
		return DataRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read record")
	}
	return record, nil
}

func (s *Service) authorizeRead(ctx context.Context, caller, subject id.Principal, operation string) error {
	ok, err := s.access.CanAccess(ctx, subject, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate access")
	}
	if !ok {
		s.metrics.IncDenied(operation, string(dErrors.CodeUnauthorized))
		return dErrors.New(dErrors.CodeUnauthorized, "caller may not read this subject's records")
	}
	return nil
}
