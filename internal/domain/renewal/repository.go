package renewal

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// Repository defines the persistence operations on renewal requests
type Repository interface {
	// Create inserts a request; a second open request for the same lease fails
	// with an already exists error
	Create(ctx context.Context, req *RenewalRequest) error

	// Get retrieves a request by ID
	Get(ctx context.Context, id string) (*RenewalRequest, error)

	// ListByLeaseID returns every request of a lease in creation order
	ListByLeaseID(ctx context.Context, leaseID string) ([]*RenewalRequest, error)

	// GetOpenByLeaseID returns the open request of a lease, or nil if the slot is free
	GetOpenByLeaseID(ctx context.Context, leaseID string) (*RenewalRequest, error)

	// Transition moves a request to the given status only if it is currently in
	// one of from. It fails with an invalid operation error when the
	// precondition no longer holds. An empty decidedBy leaves the decision
	// fields untouched.
	Transition(ctx context.Context, id string, from []types.RenewalStatus, to types.RenewalStatus, decidedBy string, at time.Time) error

	// CancelOpenForLease cancels every open request of the lease except exceptID
	CancelOpenForLease(ctx context.Context, leaseID, exceptID, decidedBy string, at time.Time) (int64, error)

	// ExpireStale moves every open request whose expiry passed to EXPIRED
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
