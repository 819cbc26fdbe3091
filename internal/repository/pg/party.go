package pg

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
)

type partyRepository struct {
	client postgres.IClient
	log    *logger.Logger
}

// NewPartyRepository creates a repository reading tenant group and organization memberships
func NewPartyRepository(client postgres.IClient, log *logger.Logger) party.Repository {
	return &partyRepository{
		client: client,
		log:    log,
	}
}

// GetLeaseParties treats missing links of the graph as empty memberships
func (r *partyRepository) GetLeaseParties(ctx context.Context, leaseID, tenantGroupID, offerID string) (*party.LeaseParties, error) {
	db := r.client.Reader(ctx)
	parties := &party.LeaseParties{
		LeaseID:       leaseID,
		TenantGroupID: tenantGroupID,
		OfferID:       offerID,
	}

	var tenants []tenantGroupMemberModel
	err := db.Where("tenant_group_id = ?", tenantGroupID).
		Order("created_at ASC").
		Find(&tenants).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load tenant group members").
			Mark(ierr.ErrDatabase)
	}
	parties.TenantGroupMembers = lo.Map(tenants, func(m tenantGroupMemberModel, _ int) party.TenantGroupMember {
		return party.TenantGroupMember{UserID: m.UserID, IsPrimary: m.IsPrimary}
	})

	var offers []offerModel
	if err := db.Where("id = ?", offerID).Limit(1).Find(&offers).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load offer").
			Mark(ierr.ErrDatabase)
	}
	if len(offers) == 0 {
		r.log.Warnw("lease offer not found, no landlord side authority", "lease_id", leaseID, "offer_id", offerID)
		return parties, nil
	}
	parties.OrganizationID = offers[0].OrganizationID

	var members []organizationMemberModel
	err = db.Where("organization_id = ?", parties.OrganizationID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load organization members").
			Mark(ierr.ErrDatabase)
	}
	parties.OrganizationMembers = lo.Map(members, func(m organizationMemberModel, _ int) party.OrganizationMember {
		return party.OrganizationMember{UserID: m.UserID, Role: types.OrganizationRole(m.Role)}
	})

	return parties, nil
}
