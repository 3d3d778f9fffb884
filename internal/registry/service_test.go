package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"datatrail/internal/audit"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
)

const admin = id.Principal("platform-admin")

type RegistryServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	events  *audit.InMemoryStore
	service *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.events = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.store, admin, audit.NewPublisher(s.events), logger, nil)
}

func (s *RegistryServiceSuite) TestSetVerified() {
	org := id.Principal("insurer-1")
	ctx := context.Background()

	s.Run("administrator verifies an organization", func() {
		s.Require().NoError(s.service.SetVerified(ctx, admin, org, true))

		verified, err := s.service.IsVerified(ctx, org)
		s.Require().NoError(err)
		s.True(verified)

		events, err := s.events.ListBySubject(ctx, org)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.KindVerificationChanged, events[0].Kind)
		s.Equal(admin, events[0].Actor)
		s.True(events[0].Verified)
	})

	s.Run("non-administrator is rejected, even the target", func() {
		err := s.service.SetVerified(ctx, org, org, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		verified, err := s.service.IsVerified(ctx, id.Principal("insurer-self"))
		s.Require().NoError(err)
		s.False(verified)
	})

	s.Run("re-setting the same value re-emits", func() {
		target := id.Principal("insurer-2")
		s.Require().NoError(s.service.SetVerified(ctx, admin, target, true))
		s.Require().NoError(s.service.SetVerified(ctx, admin, target, true))

		events, err := s.events.ListBySubject(ctx, target)
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("verification can be withdrawn", func() {
		target := id.Principal("insurer-3")
		s.Require().NoError(s.service.SetVerified(ctx, admin, target, true))
		s.Require().NoError(s.service.SetVerified(ctx, admin, target, false))

		verified, err := s.service.IsVerified(ctx, target)
		s.Require().NoError(err)
		s.False(verified)
	})
}

func (s *RegistryServiceSuite) TestIsVerified() {
	s.Run("unknown organization is unverified", func() {
		verified, err := s.service.IsVerified(context.Background(), id.Principal("never-seen"))
		s.Require().NoError(err)
		s.False(verified)
	})
}
