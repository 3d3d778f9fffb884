package approval

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"datatrail/internal/audit"
	id "datatrail/pkg/domain"
)

type ApprovalServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	events  *audit.InMemoryStore
	service *Service
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.events = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.store, audit.NewPublisher(s.events), logger, nil)
}

func (s *ApprovalServiceSuite) TestSetInsurerApproval() {
	subject := id.Principal("user-1")
	insurer := id.Principal("insurer-1")
	ctx := context.Background()

	s.Run("grant then read", func() {
		s.Require().NoError(s.service.SetInsurerApproval(ctx, subject, insurer, true))

		approved, err := s.service.IsInsurerApproved(ctx, subject, insurer)
		s.Require().NoError(err)
		s.True(approved)

		events, err := s.events.ListBySubject(ctx, subject)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.KindApprovalChanged, events[0].Kind)
		s.Equal(id.ApprovalKindInsurer, events[0].ApprovalKind)
		s.Equal(insurer, events[0].Grantee)
		s.True(events[0].Approved)
	})

	s.Run("withdraw, then grant again", func() {
		s.Require().NoError(s.service.SetInsurerApproval(ctx, subject, insurer, false))
		approved, err := s.service.IsInsurerApproved(ctx, subject, insurer)
		s.Require().NoError(err)
		s.False(approved)

		s.Require().NoError(s.service.SetInsurerApproval(ctx, subject, insurer, true))
		approved, err = s.service.IsInsurerApproved(ctx, subject, insurer)
		s.Require().NoError(err)
		s.True(approved)
	})

	s.Run("approval targets an arbitrary principal", func() {
		unknown := id.Principal("never-registered")
		s.Require().NoError(s.service.SetInsurerApproval(ctx, subject, unknown, true))

		approved, err := s.service.IsInsurerApproved(ctx, subject, unknown)
		s.Require().NoError(err)
		s.True(approved)
	})
}

func (s *ApprovalServiceSuite) TestSetAgentApproval() {
	subject := id.Principal("user-2")
	agent := id.Principal("agent-1")
	ctx := context.Background()

	s.Run("delegation is separate from insurer approval", func() {
		s.Require().NoError(s.service.SetAgentApproval(ctx, subject, agent, true))

		delegated, err := s.service.IsAgentApproved(ctx, subject, agent)
		s.Require().NoError(err)
		s.True(delegated)

		approved, err := s.service.IsInsurerApproved(ctx, subject, agent)
		s.Require().NoError(err)
		s.False(approved)
	})

	s.Run("idempotent re-grant emits each time", func() {
		s.Require().NoError(s.service.SetAgentApproval(ctx, subject, agent, true))
		s.Require().NoError(s.service.SetAgentApproval(ctx, subject, agent, true))

		events, err := s.events.ListBySubject(ctx, subject)
		s.Require().NoError(err)
		s.GreaterOrEqual(len(events), 2)
	})
}
