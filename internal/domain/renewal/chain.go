package renewal

import (
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/samber/lo"
)

// ValidateChain walks the counter chain backwards from headID through the given
// requests of one lease and fails if it loops or leaves the lease
func ValidateChain(requests []*RenewalRequest, headID string) error {
	byID := lo.KeyBy(requests, func(r *RenewalRequest) string { return r.ID })

	head, ok := byID[headID]
	if !ok {
		return ierr.NewErrorf("renewal request %s not found in chain", headID).
			WithHint("Renewal request not found").
			Mark(ierr.ErrNotFound)
	}

	seen := map[string]struct{}{}
	for current := head; current != nil; {
		if _, loop := seen[current.ID]; loop {
			return ierr.NewErrorf("renewal request %s appears twice in its counter chain", current.ID).
				WithHint("Renewal negotiation history is inconsistent").
				WithReportableDetails(map[string]interface{}{
					"head_id": headID,
					"loop_at": current.ID,
				}).
				Mark(ierr.ErrInternal)
		}
		seen[current.ID] = struct{}{}

		if current.LeaseID != head.LeaseID {
			return ierr.NewErrorf("renewal request %s belongs to lease %s, chain head to %s", current.ID, current.LeaseID, head.LeaseID).
				WithHint("Renewal negotiation history is inconsistent").
				Mark(ierr.ErrInternal)
		}

		if current.CounterOfID == nil {
			return nil
		}
		// a predecessor outside the loaded set ends the walk
		current = byID[*current.CounterOfID]
	}
	return nil
}

// Chain returns the requests from headID back to the root, newest first.
// The chain must have passed ValidateChain.
func Chain(requests []*RenewalRequest, headID string) []*RenewalRequest {
	byID := lo.KeyBy(requests, func(r *RenewalRequest) string { return r.ID })

	var chain []*RenewalRequest
	for current := byID[headID]; current != nil && len(chain) < len(requests); {
		chain = append(chain, current)
		if current.CounterOfID == nil {
			break
		}
		current = byID[*current.CounterOfID]
	}
	return chain
}
