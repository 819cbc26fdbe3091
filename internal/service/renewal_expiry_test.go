package service

import (
	"testing"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/api/dto"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/testutil"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/stretchr/testify/suite"
)

type RenewalExpiryServiceSuite struct {
	testutil.BaseServiceTestSuite
	renewals RenewalService
	sweeper  RenewalExpiryService
}

func TestRenewalExpiryService(t *testing.T) {
	suite.Run(t, new(RenewalExpiryServiceSuite))
}

func (s *RenewalExpiryServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.renewals = NewRenewalService(params)
	s.sweeper = NewRenewalExpiryService(params)
}

func (s *RenewalExpiryServiceSuite) TestSweepIsIdempotent() {
	stale := s.SeedLease("stale")
	fresh := s.SeedLease("fresh")

	old, err := s.renewals.Create(s.ContextAs(stale.TenantID), stale.Lease.ID, &dto.CreateRenewalRequest{})
	s.Require().NoError(err)

	s.GetClock().Advance(5 * 24 * time.Hour)
	recent, err := s.renewals.Create(s.ContextAs(fresh.TenantID), fresh.Lease.ID, &dto.CreateRenewalRequest{})
	s.Require().NoError(err)

	s.GetClock().Advance(3 * 24 * time.Hour)

	n, err := s.sweeper.Run(s.GetContext())
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.sweeper.Run(s.GetContext())
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	got, err := s.GetStores().RenewalRepo.Get(s.GetContext(), old.ID)
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusExpired, got.Status)

	got, err = s.GetStores().RenewalRepo.Get(s.GetContext(), recent.ID)
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusPending, got.Status)
}

func (s *RenewalExpiryServiceSuite) TestSweepIgnoresClosedRequests() {
	f := s.SeedLease("closed")
	req, err := s.renewals.Create(s.ContextAs(f.TenantID), f.Lease.ID, &dto.CreateRenewalRequest{})
	s.Require().NoError(err)
	_, err = s.renewals.Decline(s.ContextAs(f.OwnerID), req.ID)
	s.Require().NoError(err)

	s.GetClock().Advance(30 * 24 * time.Hour)
	n, err := s.sweeper.Run(s.GetContext())
	s.Require().NoError(err)
	s.Zero(n)

	got, err := s.GetStores().RenewalRepo.Get(s.GetContext(), req.ID)
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusDeclined, got.Status)
}
