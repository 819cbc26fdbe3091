package lease

import (
	"context"
	"time"
)

// Repository defines the persistence operations on leases
type Repository interface {
	// Create inserts a new lease
	Create(ctx context.Context, lease *Lease) error

	// Get retrieves a lease by ID
	Get(ctx context.Context, id string) (*Lease, error)

	// ListByParentID returns the leases renewed from the given lease
	ListByParentID(ctx context.Context, parentLeaseID string) ([]*Lease, error)

	// MarkExpired moves an ACTIVE lease to EXPIRED; fails with an invalid
	// operation error when the lease is no longer ACTIVE
	MarkExpired(ctx context.Context, id string, at time.Time) error

	// RecordTerminationNotice stores the termination intent fields of an ACTIVE
	// lease that has no notice yet
	RecordTerminationNotice(ctx context.Context, lease *Lease) error
}

// UnitRepository defines the persistence operations on units
type UnitRepository interface {
	// Create inserts a new unit
	Create(ctx context.Context, unit *Unit) error

	// Get retrieves a unit by ID
	Get(ctx context.Context, id string) (*Unit, error)
}
