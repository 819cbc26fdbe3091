package pg

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/shopspring/decimal"
)

// leaseModel is the row shape of the leases table
type leaseModel struct {
	ID            string          `gorm:"type:varchar(50);primaryKey"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       time.Time       `gorm:"not null"`
	RentAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DepositAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	TenantGroupID   string  `gorm:"type:varchar(50);not null;index"`
	UnitID          string  `gorm:"type:varchar(50);not null;index"`
	PropertyID      string  `gorm:"type:varchar(50);not null"`
	OfferID         string  `gorm:"type:varchar(50);not null"`
	RentalRequestID *string `gorm:"type:varchar(50)"`

	ParentLeaseID        *string `gorm:"type:varchar(50);index"`
	LeaseType            string  `gorm:"type:varchar(20);not null"`
	RenewalEffectiveDate *time.Time

	TerminationNoticeByUserID *string `gorm:"type:varchar(50)"`
	TerminationNoticeDate     *time.Time
	TerminationReason         *string `gorm:"type:text"`
	TerminationEffectiveDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (leaseModel) TableName() string { return string(types.TableNameLeases) }

func leaseToModel(l *lease.Lease) *leaseModel {
	return &leaseModel{
		ID:                        l.ID,
		Status:                    string(l.Status),
		StartDate:                 l.StartDate.UTC(),
		EndDate:                   l.EndDate.UTC(),
		RentAmount:                l.RentAmount,
		DepositAmount:             l.DepositAmount,
		TenantGroupID:             l.TenantGroupID,
		UnitID:                    l.UnitID,
		PropertyID:                l.PropertyID,
		OfferID:                   l.OfferID,
		RentalRequestID:           l.RentalRequestID,
		ParentLeaseID:             l.ParentLeaseID,
		LeaseType:                 string(l.LeaseType),
		RenewalEffectiveDate:      utcPtr(l.RenewalEffectiveDate),
		TerminationNoticeByUserID: l.TerminationNoticeByUserID,
		TerminationNoticeDate:     utcPtr(l.TerminationNoticeDate),
		TerminationReason:         l.TerminationReason,
		TerminationEffectiveDate:  utcPtr(l.TerminationEffectiveDate),
		CreatedAt:                 l.CreatedAt.UTC(),
		UpdatedAt:                 l.UpdatedAt.UTC(),
	}
}

func (m *leaseModel) toDomain() *lease.Lease {
	return &lease.Lease{
		ID:                        m.ID,
		Status:                    types.LeaseStatus(m.Status),
		StartDate:                 m.StartDate.UTC(),
		EndDate:                   m.EndDate.UTC(),
		RentAmount:                m.RentAmount,
		DepositAmount:             m.DepositAmount,
		TenantGroupID:             m.TenantGroupID,
		UnitID:                    m.UnitID,
		PropertyID:                m.PropertyID,
		OfferID:                   m.OfferID,
		RentalRequestID:           m.RentalRequestID,
		ParentLeaseID:             m.ParentLeaseID,
		LeaseType:                 types.LeaseType(m.LeaseType),
		RenewalEffectiveDate:      utcPtr(m.RenewalEffectiveDate),
		TerminationNoticeByUserID: m.TerminationNoticeByUserID,
		TerminationNoticeDate:     utcPtr(m.TerminationNoticeDate),
		TerminationReason:         m.TerminationReason,
		TerminationEffectiveDate:  utcPtr(m.TerminationEffectiveDate),
		CreatedAt:                 m.CreatedAt.UTC(),
		UpdatedAt:                 m.UpdatedAt.UTC(),
	}
}

// unitModel is the row shape of the units table
type unitModel struct {
	ID               string          `gorm:"type:varchar(50);primaryKey"`
	PropertyID       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_units_property_unit_number"`
	UnitNumber       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_units_property_unit_number"`
	Floor            *int
	Bedrooms         int
	Bathrooms        int
	Area             decimal.Decimal `gorm:"type:numeric(10,2)"`
	RentAmount       decimal.Decimal `gorm:"type:numeric(12,2)"`
	ClonedFromUnitID *string         `gorm:"type:varchar(50)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (unitModel) TableName() string { return string(types.TableNameUnits) }

func unitToModel(u *lease.Unit) *unitModel {
	return &unitModel{
		ID:               u.ID,
		PropertyID:       u.PropertyID,
		UnitNumber:       u.UnitNumber,
		Floor:            u.Floor,
		Bedrooms:         u.Bedrooms,
		Bathrooms:        u.Bathrooms,
		Area:             u.Area,
		RentAmount:       u.RentAmount,
		ClonedFromUnitID: u.ClonedFromUnitID,
		CreatedAt:        u.CreatedAt.UTC(),
		UpdatedAt:        u.UpdatedAt.UTC(),
	}
}

func (m *unitModel) toDomain() *lease.Unit {
	return &lease.Unit{
		ID:               m.ID,
		PropertyID:       m.PropertyID,
		UnitNumber:       m.UnitNumber,
		Floor:            m.Floor,
		Bedrooms:         m.Bedrooms,
		Bathrooms:        m.Bathrooms,
		Area:             m.Area,
		RentAmount:       m.RentAmount,
		ClonedFromUnitID: m.ClonedFromUnitID,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

// renewalRequestModel is the row shape of the renewal_requests table
type renewalRequestModel struct {
	ID              string `gorm:"type:varchar(50);primaryKey"`
	LeaseID         string `gorm:"type:varchar(50);not null;index"`
	InitiatorUserID string `gorm:"type:varchar(50);not null"`
	InitiatorRole   string `gorm:"type:varchar(20);not null"`
	Status          string `gorm:"type:varchar(20);not null;index"`

	ProposedTermMonths  *int
	ProposedStartDate   *time.Time
	ProposedMonthlyRent decimal.NullDecimal `gorm:"type:numeric(12,2)"`

	CounterOfID     *string   `gorm:"type:varchar(50)"`
	ExpiresAt       time.Time `gorm:"not null;index"`
	DecidedByUserID *string   `gorm:"type:varchar(50)"`
	DecidedAt       *time.Time
	Note            *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (renewalRequestModel) TableName() string { return string(types.TableNameRenewalRequests) }

func renewalToModel(r *renewal.RenewalRequest) *renewalRequestModel {
	m := &renewalRequestModel{
		ID:                 r.ID,
		LeaseID:            r.LeaseID,
		InitiatorUserID:    r.InitiatorUserID,
		InitiatorRole:      string(r.InitiatorRole),
		Status:             string(r.Status),
		ProposedTermMonths: r.ProposedTermMonths,
		ProposedStartDate:  utcPtr(r.ProposedStartDate),
		CounterOfID:        r.CounterOfID,
		ExpiresAt:          r.ExpiresAt.UTC(),
		DecidedByUserID:    r.DecidedByUserID,
		DecidedAt:          utcPtr(r.DecidedAt),
		Note:               r.Note,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}
	if r.ProposedMonthlyRent != nil {
		m.ProposedMonthlyRent = decimal.NewNullDecimal(*r.ProposedMonthlyRent)
	}
	return m
}

func (m *renewalRequestModel) toDomain() *renewal.RenewalRequest {
	r := &renewal.RenewalRequest{
		ID:                 m.ID,
		LeaseID:            m.LeaseID,
		InitiatorUserID:    m.InitiatorUserID,
		InitiatorRole:      types.PartyRole(m.InitiatorRole),
		Status:             types.RenewalStatus(m.Status),
		ProposedTermMonths: m.ProposedTermMonths,
		ProposedStartDate:  utcPtr(m.ProposedStartDate),
		CounterOfID:        m.CounterOfID,
		ExpiresAt:          m.ExpiresAt.UTC(),
		DecidedByUserID:    m.DecidedByUserID,
		DecidedAt:          utcPtr(m.DecidedAt),
		Note:               m.Note,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
	if m.ProposedMonthlyRent.Valid {
		rent := m.ProposedMonthlyRent.Decimal
		r.ProposedMonthlyRent = &rent
	}
	return r
}

// Membership tables are owned by other services; the core only reads them

type tenantGroupModel struct {
	ID        string `gorm:"type:varchar(50);primaryKey"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
}

func (tenantGroupModel) TableName() string { return string(types.TableNameTenantGroups) }

type tenantGroupMemberModel struct {
	ID            string `gorm:"type:varchar(50);primaryKey"`
	TenantGroupID string `gorm:"type:varchar(50);not null;index"`
	UserID        string `gorm:"type:varchar(50);not null"`
	IsPrimary     bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

func (tenantGroupMemberModel) TableName() string { return string(types.TableNameTenantGroupMembers) }

type offerModel struct {
	ID             string `gorm:"type:varchar(50);primaryKey"`
	OrganizationID string `gorm:"type:varchar(50);not null;index"`
	PropertyID     string `gorm:"type:varchar(50);not null"`
	CreatedAt      time.Time
}

func (offerModel) TableName() string { return string(types.TableNameOffers) }

type organizationModel struct {
	ID                       string `gorm:"type:varchar(50);primaryKey"`
	Name                     string `gorm:"type:varchar(255)"`
	TerminationCutoffDay     *int
	TerminationMinNoticeDays *int
	TerminationTimezone      *string `gorm:"type:varchar(64)"`
	CreatedAt                time.Time
}

func (organizationModel) TableName() string { return string(types.TableNameOrganizations) }

type organizationMemberModel struct {
	ID             string `gorm:"type:varchar(50);primaryKey"`
	OrganizationID string `gorm:"type:varchar(50);not null;index"`
	UserID         string `gorm:"type:varchar(50);not null"`
	Role           string `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time
}

func (organizationMemberModel) TableName() string { return string(types.TableNameOrganizationMembers) }

type propertyModel struct {
	ID             string  `gorm:"type:varchar(50);primaryKey"`
	OrganizationID string  `gorm:"type:varchar(50);index"`
	Name           string  `gorm:"type:varchar(255)"`
	Timezone       *string `gorm:"type:varchar(64)"`
	CreatedAt      time.Time
}

func (propertyModel) TableName() string { return string(types.TableNameProperties) }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
