package party

import (
	"context"
)

// Repository reads the membership graph of leases
type Repository interface {
	// GetLeaseParties hydrates tenant group and organization memberships for a lease
	GetLeaseParties(ctx context.Context, leaseID, tenantGroupID, offerID string) (*LeaseParties, error)
}
