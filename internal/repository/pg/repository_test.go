package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	client   *postgres.Client
	leases   lease.Repository
	units    lease.UnitRepository
	renewals renewal.Repository
	parties  party.Repository
	policies policy.Repository
	now      time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	log := logger.NewNopLogger()
	s.Require().NoError(Migrate(s.ctx, db, log))

	s.client = postgres.NewClientFromDB(db, log)
	s.leases = NewLeaseRepository(s.client, log)
	s.units = NewUnitRepository(s.client, log)
	s.renewals = NewRenewalRepository(s.client, log)
	s.parties = NewPartyRepository(s.client, log)
	s.policies = NewPolicyRepository(s.client, log)
}

func (s *RepositorySuite) newLease(id string) *lease.Lease {
	return &lease.Lease{
		ID:            id,
		Status:        types.LeaseStatusActive,
		StartDate:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		RentAmount:    decimal.NewFromInt(2000),
		DepositAmount: decimal.NewFromInt(4000),
		TenantGroupID: "tg_1",
		UnitID:        "unit_" + id,
		PropertyID:    "prop_1",
		OfferID:       "offer_1",
		LeaseType:     types.LeaseTypeOriginal,
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}
}

func (s *RepositorySuite) newRequest(id, leaseID string, status types.RenewalStatus, createdAt time.Time) *renewal.RenewalRequest {
	return &renewal.RenewalRequest{
		ID:              id,
		LeaseID:         leaseID,
		InitiatorUserID: "owner",
		InitiatorRole:   types.PartyRoleLandlord,
		Status:          status,
		ExpiresAt:       createdAt.AddDate(0, 0, 7),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func (s *RepositorySuite) TestLeaseLifecycle() {
	l := s.newLease("lease_1")
	l.RentalRequestID = lo.ToPtr("rr_1")
	s.Require().NoError(s.leases.Create(s.ctx, l))

	got, err := s.leases.Get(s.ctx, "lease_1")
	s.Require().NoError(err)
	s.Equal(types.LeaseStatusActive, got.Status)
	s.True(l.RentAmount.Equal(got.RentAmount))
	s.True(l.EndDate.Equal(got.EndDate))
	s.Equal("rr_1", lo.FromPtr(got.RentalRequestID))

	_, err = s.leases.Get(s.ctx, "missing")
	s.True(ierr.IsNotFound(err))

	s.Require().NoError(s.leases.MarkExpired(s.ctx, "lease_1", s.now))
	err = s.leases.MarkExpired(s.ctx, "lease_1", s.now)
	s.True(ierr.IsInvalidOperation(err))
	s.True(ierr.IsNotFound(s.leases.MarkExpired(s.ctx, "missing", s.now)))
}

func (s *RepositorySuite) TestOneActiveLeasePerGroupAndUnit() {
	first := s.newLease("lease_1")
	s.Require().NoError(s.leases.Create(s.ctx, first))

	second := s.newLease("lease_2")
	second.UnitID = first.UnitID
	s.True(ierr.IsAlreadyExists(s.leases.Create(s.ctx, second)))

	s.Require().NoError(s.leases.MarkExpired(s.ctx, first.ID, s.now))
	s.NoError(s.leases.Create(s.ctx, second))
}

func (s *RepositorySuite) TestListByParentID() {
	parent := s.newLease("lease_1")
	s.Require().NoError(s.leases.Create(s.ctx, parent))

	child := s.newLease("lease_2")
	child.ParentLeaseID = lo.ToPtr(parent.ID)
	child.LeaseType = types.LeaseTypeRenewal
	s.Require().NoError(s.leases.Create(s.ctx, child))

	children, err := s.leases.ListByParentID(s.ctx, parent.ID)
	s.Require().NoError(err)
	s.Require().Len(children, 1)
	s.Equal(child.ID, children[0].ID)
	s.Equal(types.LeaseTypeRenewal, children[0].LeaseType)
}

func (s *RepositorySuite) TestRecordTerminationNotice() {
	l := s.newLease("lease_1")
	s.Require().NoError(s.leases.Create(s.ctx, l))

	effective := time.Date(2025, 7, 9, 22, 0, 0, 0, time.UTC)
	l.TerminationNoticeByUserID = lo.ToPtr("tenant")
	l.TerminationNoticeDate = lo.ToPtr(s.now)
	l.TerminationReason = lo.ToPtr("moving abroad")
	l.TerminationEffectiveDate = lo.ToPtr(effective)
	s.Require().NoError(s.leases.RecordTerminationNotice(s.ctx, l))

	got, err := s.leases.Get(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(types.LeaseStatusActive, got.Status)
	s.True(got.HasTerminationNotice())
	s.True(effective.Equal(lo.FromPtr(got.TerminationEffectiveDate)))
	s.Equal("moving abroad", lo.FromPtr(got.TerminationReason))

	s.True(ierr.IsAlreadyExists(s.leases.RecordTerminationNotice(s.ctx, l)))
}

func (s *RepositorySuite) TestUnitNumberUniquePerProperty() {
	unit := &lease.Unit{
		ID:         "unit_1",
		PropertyID: "prop_1",
		UnitNumber: "4B",
		Floor:      lo.ToPtr(4),
		Bedrooms:   2,
		Bathrooms:  1,
		Area:       decimal.RequireFromString("54.5"),
		RentAmount: decimal.NewFromInt(2000),
		CreatedAt:  s.now,
	}
	s.Require().NoError(s.units.Create(s.ctx, unit))

	got, err := s.units.Get(s.ctx, "unit_1")
	s.Require().NoError(err)
	s.Equal(4, lo.FromPtr(got.Floor))
	s.True(unit.Area.Equal(got.Area))

	dup := *unit
	dup.ID = "unit_2"
	s.True(ierr.IsAlreadyExists(s.units.Create(s.ctx, &dup)))

	dup.PropertyID = "prop_2"
	s.NoError(s.units.Create(s.ctx, &dup))

	_, err = s.units.Get(s.ctx, "missing")
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestRenewalSingleOpenSlot() {
	first := s.newRequest("rnw_1", "lease_1", types.RenewalStatusPending, s.now)
	first.ProposedMonthlyRent = lo.ToPtr(decimal.RequireFromString("2500.50"))
	first.ProposedTermMonths = lo.ToPtr(12)
	s.Require().NoError(s.renewals.Create(s.ctx, first))

	second := s.newRequest("rnw_2", "lease_1", types.RenewalStatusCountered, s.now.Add(time.Hour))
	s.True(ierr.IsAlreadyExists(s.renewals.Create(s.ctx, second)))

	open, err := s.renewals.GetOpenByLeaseID(s.ctx, "lease_1")
	s.Require().NoError(err)
	s.Require().NotNil(open)
	s.Equal("rnw_1", open.ID)
	s.True(decimal.RequireFromString("2500.50").Equal(*open.ProposedMonthlyRent))
	s.Equal(12, lo.FromPtr(open.ProposedTermMonths))
	s.Nil(open.ProposedStartDate)

	s.Require().NoError(s.renewals.Transition(s.ctx, "rnw_1", types.OpenRenewalStatuses, types.RenewalStatusCancelled, "owner", s.now))
	s.NoError(s.renewals.Create(s.ctx, second))

	list, err := s.renewals.ListByLeaseID(s.ctx, "lease_1")
	s.Require().NoError(err)
	s.Equal([]string{"rnw_1", "rnw_2"}, lo.Map(list, func(r *renewal.RenewalRequest, _ int) string { return r.ID }))
	s.Equal("owner", lo.FromPtr(list[0].DecidedByUserID))
	s.Nil(list[1].ProposedMonthlyRent)
}

func (s *RepositorySuite) TestRenewalTransition() {
	s.Require().NoError(s.renewals.Create(s.ctx, s.newRequest("rnw_1", "lease_1", types.RenewalStatusPending, s.now)))

	s.Require().NoError(s.renewals.Transition(s.ctx, "rnw_1", types.OpenRenewalStatuses, types.RenewalStatusAccepted, "tenant", s.now))

	err := s.renewals.Transition(s.ctx, "rnw_1", types.OpenRenewalStatuses, types.RenewalStatusDeclined, "tenant", s.now)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(types.RenewalStatusAccepted, ierr.GetReportableDetails(err)["status"])

	err = s.renewals.Transition(s.ctx, "missing", types.OpenRenewalStatuses, types.RenewalStatusDeclined, "tenant", s.now)
	s.True(ierr.IsNotFound(err))

	open, err := s.renewals.GetOpenByLeaseID(s.ctx, "lease_1")
	s.NoError(err)
	s.Nil(open)
}

func (s *RepositorySuite) TestCancelOpenForLease() {
	s.Require().NoError(s.renewals.Create(s.ctx, s.newRequest("rnw_1", "lease_1", types.RenewalStatusPending, s.now)))
	s.Require().NoError(s.renewals.Create(s.ctx, s.newRequest("rnw_2", "lease_2", types.RenewalStatusPending, s.now)))

	n, err := s.renewals.CancelOpenForLease(s.ctx, "lease_1", "rnw_1", "tenant", s.now)
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.renewals.CancelOpenForLease(s.ctx, "lease_1", "", "tenant", s.now)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	other, err := s.renewals.Get(s.ctx, "rnw_2")
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusPending, other.Status)
}

func (s *RepositorySuite) TestExpireStaleIsIdempotent() {
	stale := s.newRequest("rnw_1", "lease_1", types.RenewalStatusPending, s.now.AddDate(0, 0, -8))
	fresh := s.newRequest("rnw_2", "lease_2", types.RenewalStatusCountered, s.now.AddDate(0, 0, -1))
	decided := s.newRequest("rnw_3", "lease_3", types.RenewalStatusDeclined, s.now.AddDate(0, 0, -30))
	for _, r := range []*renewal.RenewalRequest{stale, fresh, decided} {
		s.Require().NoError(s.renewals.Create(s.ctx, r))
	}

	n, err := s.renewals.ExpireStale(s.ctx, s.now)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	n, err = s.renewals.ExpireStale(s.ctx, s.now)
	s.Require().NoError(err)
	s.Zero(n)

	got, err := s.renewals.Get(s.ctx, "rnw_1")
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusExpired, got.Status)

	got, err = s.renewals.Get(s.ctx, "rnw_3")
	s.Require().NoError(err)
	s.Equal(types.RenewalStatusDeclined, got.Status)
}

func (s *RepositorySuite) TestGetLeaseParties() {
	db := s.client.DB()
	s.Require().NoError(db.Create(&tenantGroupMemberModel{ID: "tgm_1", TenantGroupID: "tg_1", UserID: "flatmate", CreatedAt: s.now}).Error)
	s.Require().NoError(db.Create(&tenantGroupMemberModel{ID: "tgm_2", TenantGroupID: "tg_1", UserID: "tenant", IsPrimary: true, CreatedAt: s.now.Add(time.Second)}).Error)
	s.Require().NoError(db.Create(&offerModel{ID: "offer_1", OrganizationID: "org_1", PropertyID: "prop_1", CreatedAt: s.now}).Error)
	s.Require().NoError(db.Create(&organizationMemberModel{ID: "om_1", OrganizationID: "org_1", UserID: "owner", Role: string(types.OrganizationRoleOwner), CreatedAt: s.now}).Error)
	s.Require().NoError(db.Create(&organizationMemberModel{ID: "om_2", OrganizationID: "org_1", UserID: "agent", Role: string(types.OrganizationRoleMember), CreatedAt: s.now.Add(time.Second)}).Error)

	parties, err := s.parties.GetLeaseParties(s.ctx, "lease_1", "tg_1", "offer_1")
	s.Require().NoError(err)
	s.Equal("org_1", parties.OrganizationID)
	s.Equal("tenant", parties.PrimaryTenantID())
	s.Equal("owner", parties.OwnerID())
	s.Len(parties.OrganizationMembers, 2)

	orphan, err := s.parties.GetLeaseParties(s.ctx, "lease_2", "tg_missing", "offer_missing")
	s.Require().NoError(err)
	s.Empty(orphan.PrimaryTenantID())
	s.Empty(orphan.OrganizationMembers)
}

func (s *RepositorySuite) TestGetOverrides() {
	db := s.client.DB()
	s.Require().NoError(db.Create(&organizationModel{ID: "org_1", TerminationCutoffDay: lo.ToPtr(15), CreatedAt: s.now}).Error)
	s.Require().NoError(db.Create(&propertyModel{ID: "prop_1", OrganizationID: "org_1", Timezone: lo.ToPtr("Europe/Berlin"), CreatedAt: s.now}).Error)

	overrides, err := s.policies.GetOverrides(s.ctx, "org_1", "prop_1")
	s.Require().NoError(err)
	s.Require().NotNil(overrides.Organization)
	s.Equal(15, lo.FromPtr(overrides.Organization.CutoffDay))
	s.Nil(overrides.Organization.MinNoticeDays)
	s.Equal("Europe/Berlin", lo.FromPtr(overrides.PropertyTimezone))

	none, err := s.policies.GetOverrides(s.ctx, "org_missing", "prop_missing")
	s.Require().NoError(err)
	s.Nil(none.Organization)
	s.Nil(none.PropertyTimezone)
}

func (s *RepositorySuite) TestWithTxRollsBack() {
	boom := errors.New("boom")
	err := s.client.WithTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.leases.Create(ctx, s.newLease("lease_1")))
		s.Require().NoError(s.client.LockKey(ctx, types.LockRequest{Key: "lease:lease_id=lease_1"}))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.leases.Get(s.ctx, "lease_1")
	s.True(ierr.IsNotFound(err))

	s.Error(s.client.LockKey(s.ctx, types.LockRequest{Key: "outside"}))
}
