package testutil

import (
	"context"
	"sync"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// InMemoryPartyStore implements party.Repository over seeded memberships
type InMemoryPartyStore struct {
	mu           sync.RWMutex
	tenantGroups map[string][]party.TenantGroupMember
	offers       map[string]string
	orgMembers   map[string][]party.OrganizationMember
}

func NewInMemoryPartyStore() *InMemoryPartyStore {
	s := &InMemoryPartyStore{}
	s.Clear()
	return s
}

// AddTenant adds a member to a tenant group
func (s *InMemoryPartyStore) AddTenant(tenantGroupID, userID string, isPrimary bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantGroups[tenantGroupID] = append(s.tenantGroups[tenantGroupID], party.TenantGroupMember{
		UserID:    userID,
		IsPrimary: isPrimary,
	})
}

// AddOffer links an offer to the landlord organization that made it
func (s *InMemoryPartyStore) AddOffer(offerID, organizationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[offerID] = organizationID
}

// AddOrganizationMember adds a landlord side member
func (s *InMemoryPartyStore) AddOrganizationMember(organizationID, userID string, role types.OrganizationRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgMembers[organizationID] = append(s.orgMembers[organizationID], party.OrganizationMember{
		UserID: userID,
		Role:   role,
	})
}

func (s *InMemoryPartyStore) GetLeaseParties(_ context.Context, leaseID, tenantGroupID, offerID string) (*party.LeaseParties, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parties := &party.LeaseParties{
		LeaseID:            leaseID,
		TenantGroupID:      tenantGroupID,
		TenantGroupMembers: append([]party.TenantGroupMember(nil), s.tenantGroups[tenantGroupID]...),
		OfferID:            offerID,
	}
	if orgID, ok := s.offers[offerID]; ok {
		parties.OrganizationID = orgID
		parties.OrganizationMembers = append([]party.OrganizationMember(nil), s.orgMembers[orgID]...)
	}
	return parties, nil
}

func (s *InMemoryPartyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantGroups = make(map[string][]party.TenantGroupMember)
	s.offers = make(map[string]string)
	s.orgMembers = make(map[string][]party.OrganizationMember)
}

// InMemoryPolicyStore implements policy.Repository
type InMemoryPolicyStore struct {
	mu                sync.RWMutex
	organizations     map[string]*policy.OrganizationOverride
	propertyTimezones map[string]string
	calls             int
}

func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	s := &InMemoryPolicyStore{}
	s.Clear()
	return s
}

func (s *InMemoryPolicyStore) SetOrganizationOverride(organizationID string, override *policy.OrganizationOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[organizationID] = override
}

func (s *InMemoryPolicyStore) SetPropertyTimezone(propertyID, timezone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.propertyTimezones[propertyID] = timezone
}

// Calls returns how many times overrides were read
func (s *InMemoryPolicyStore) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *InMemoryPolicyStore) GetOverrides(_ context.Context, organizationID, propertyID string) (*policy.Overrides, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	overrides := &policy.Overrides{}
	if o, ok := s.organizations[organizationID]; ok && o != nil {
		copied := *o
		overrides.Organization = &copied
	}
	if tz, ok := s.propertyTimezones[propertyID]; ok {
		overrides.PropertyTimezone = &tz
	}
	return overrides, nil
}

func (s *InMemoryPolicyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations = make(map[string]*policy.OrganizationOverride)
	s.propertyTimezones = make(map[string]string)
	s.calls = 0
}
