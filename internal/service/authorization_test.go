package service

import (
	"testing"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type AuthorizationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AuthorizationService
	fixture *testutil.LeaseFixture
}

func TestAuthorizationService(t *testing.T) {
	suite.Run(t, new(AuthorizationServiceSuite))
}

func (s *AuthorizationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAuthorizationService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.fixture = s.SeedLease("main")
}

func (s *AuthorizationServiceSuite) TestResolve() {
	access, err := s.service.Resolve(s.GetContext(), s.fixture.Lease, s.fixture.OwnerID)
	s.Require().NoError(err)
	s.True(access.Auth.IsLandlord)
	s.True(access.Auth.IsOwner)
	s.Equal(s.fixture.TenantID, access.Auth.TenantID)
	s.Equal(s.fixture.OwnerID, access.Auth.LandlordID)
	s.Equal(s.fixture.OrganizationID, access.Parties.OrganizationID)

	access, err = s.service.Resolve(s.GetContext(), s.fixture.Lease, s.fixture.OutsiderID)
	s.Require().NoError(err)
	s.False(access.Auth.IsParty())
}

func (s *AuthorizationServiceSuite) TestRequireParty() {
	_, err := s.service.RequireParty(s.GetContext(), s.fixture.Lease, s.fixture.OutsiderID)
	s.Require().Error(err)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.RequireParty(s.GetContext(), s.fixture.Lease, "")
	s.Require().Error(err)
	s.True(ierr.IsPermissionDenied(err))

	access, err := s.service.RequireParty(s.GetContext(), s.fixture.Lease, s.fixture.TenantID)
	s.Require().NoError(err)
	s.True(access.Auth.IsTenant)
}

func (s *AuthorizationServiceSuite) TestTenantWhoIsAlsoMemberActsAsTenant() {
	s.GetStores().PartyRepo.AddOrganizationMember(s.fixture.OrganizationID, s.fixture.TenantID, "OWNER")

	access, err := s.service.RequireParty(s.GetContext(), s.fixture.Lease, s.fixture.TenantID)
	s.Require().NoError(err)
	s.True(access.Auth.IsTenant)
	s.False(access.Auth.IsLandlord)
	s.False(access.Auth.IsOwner)
}

func (s *AuthorizationServiceSuite) TestEnsureLandlordCanSetPrice() {
	s.NoError(s.service.EnsureLandlordCanSetPrice(party.AuthorizationContext{IsLandlord: true, IsOwner: true}))
	s.True(ierr.IsPermissionDenied(s.service.EnsureLandlordCanSetPrice(party.AuthorizationContext{IsLandlord: true})))
	s.True(ierr.IsPermissionDenied(s.service.EnsureLandlordCanSetPrice(party.AuthorizationContext{IsTenant: true})))
}
