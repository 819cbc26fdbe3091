package testutil

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sentry"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sideeffect"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Stores holds all in-memory stores
type Stores struct {
	LeaseRepo   *InMemoryLeaseStore
	UnitRepo    *InMemoryUnitStore
	RenewalRepo *InMemoryRenewalStore
	PartyRepo   *InMemoryPartyStore
	PolicyRepo  *InMemoryPolicyStore
}

// BaseServiceTestSuite provides common functionality for service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	stores      Stores
	db          *InMemoryDB
	logger      *logger.Logger
	config      *config.Configuration
	clock       *types.FixedClock
	cache       cache.Cache
	notifier    *RecordingNotifier
	contracts   *FakeContractGenerator
	sideEffects *sideeffect.Runner
}

// DefaultNow is the instant every suite clock starts at
var DefaultNow = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()
	s.config.SideEffects.Timeout = 5 * time.Second
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	if s.config == nil {
		s.SetupSuite()
	}
	s.ctx = types.SetRequestID(context.Background(), types.GenerateUUID())
	s.clock = types.NewFixedClock(DefaultNow)
	s.cache = cache.NewInMemoryCache()
	s.notifier = NewRecordingNotifier()
	s.contracts = NewFakeContractGenerator()
	s.sideEffects = sideeffect.NewRunner(s.config, s.logger, sentry.NewNoopService(s.logger))

	s.stores = Stores{
		LeaseRepo:   NewInMemoryLeaseStore(),
		UnitRepo:    NewInMemoryUnitStore(),
		RenewalRepo: NewInMemoryRenewalStore(),
		PartyRepo:   NewInMemoryPartyStore(),
		PolicyRepo:  NewInMemoryPolicyStore(),
	}
	s.db = NewInMemoryDB(s.stores.LeaseRepo, s.stores.UnitRepo, s.stores.RenewalRepo)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.sideEffects.Wait()
	s.ClearStores()
}

// ClearStores clears all stores
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.LeaseRepo.Clear()
	s.stores.UnitRepo.Clear()
	s.stores.RenewalRepo.Clear()
	s.stores.PartyRepo.Clear()
	s.stores.PolicyRepo.Clear()
	s.cache.Flush(s.ctx)
	s.notifier.Clear()
	s.contracts.Clear()
	s.db.Reset()
}

func (s *BaseServiceTestSuite) GetContext() context.Context { return s.ctx }

// ContextAs returns the suite context acting as the given user
func (s *BaseServiceTestSuite) ContextAs(userID string) context.Context {
	return types.SetUserID(s.ctx, userID)
}

func (s *BaseServiceTestSuite) GetStores() Stores { return s.stores }
func (s *BaseServiceTestSuite) GetDB() *InMemoryDB { return s.db }
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger { return s.logger }
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration { return s.config }
func (s *BaseServiceTestSuite) GetClock() *types.FixedClock { return s.clock }
func (s *BaseServiceTestSuite) GetCache() cache.Cache { return s.cache }
func (s *BaseServiceTestSuite) GetNotifier() *RecordingNotifier { return s.notifier }
func (s *BaseServiceTestSuite) GetContractGenerator() *FakeContractGenerator { return s.contracts }
func (s *BaseServiceTestSuite) GetSideEffects() *sideeffect.Runner { return s.sideEffects }

// WaitForSideEffects blocks until notifications and contract calls finished
func (s *BaseServiceTestSuite) WaitForSideEffects() {
	s.sideEffects.Wait()
}

// LeaseFixture names the parties of a seeded lease
type LeaseFixture struct {
	Lease          *lease.Lease
	Unit           *lease.Unit
	OrganizationID string
	TenantID       string
	CoTenantID     string
	OwnerID        string
	MemberID       string
	OutsiderID     string
}

// SeedLease stores an active lease with a primary tenant, a co-tenant, an
// owner and a plain member on the landlord side
func (s *BaseServiceTestSuite) SeedLease(suffix string) *LeaseFixture {
	f := &LeaseFixture{
		OrganizationID: "org_" + suffix,
		TenantID:       "user_tenant_" + suffix,
		CoTenantID:     "user_cotenant_" + suffix,
		OwnerID:        "user_owner_" + suffix,
		MemberID:       "user_member_" + suffix,
		OutsiderID:     "user_outsider_" + suffix,
	}

	f.Unit = &lease.Unit{
		ID:         "unit_" + suffix,
		PropertyID: "prop_" + suffix,
		UnitNumber: "12A",
		Bedrooms:   2,
		Bathrooms:  1,
		Area:       decimal.NewFromInt(54),
		RentAmount: decimal.NewFromInt(1000),
		CreatedAt:  DefaultNow,
		UpdatedAt:  DefaultNow,
	}
	s.Require().NoError(s.stores.UnitRepo.Create(s.ctx, f.Unit))

	f.Lease = &lease.Lease{
		ID:            "lease_" + suffix,
		Status:        types.LeaseStatusActive,
		StartDate:     time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(1000),
		DepositAmount: decimal.NewFromInt(2000),
		TenantGroupID: "tg_" + suffix,
		UnitID:        f.Unit.ID,
		PropertyID:    f.Unit.PropertyID,
		OfferID:       "offer_" + suffix,
		LeaseType:     types.LeaseTypeOriginal,
		CreatedAt:     DefaultNow,
		UpdatedAt:     DefaultNow,
	}
	s.Require().NoError(s.stores.LeaseRepo.Create(s.ctx, f.Lease))

	s.stores.PartyRepo.AddTenant(f.Lease.TenantGroupID, f.CoTenantID, false)
	s.stores.PartyRepo.AddTenant(f.Lease.TenantGroupID, f.TenantID, true)
	s.stores.PartyRepo.AddOffer(f.Lease.OfferID, f.OrganizationID)
	s.stores.PartyRepo.AddOrganizationMember(f.OrganizationID, f.MemberID, types.OrganizationRoleMember)
	s.stores.PartyRepo.AddOrganizationMember(f.OrganizationID, f.OwnerID, types.OrganizationRoleOwner)

	return f
}
