package policy

import (
	"context"
)

// Repository reads the termination policy overrides of organizations and properties
type Repository interface {
	// GetOverrides never fails for missing rows; absent levels stay nil
	GetOverrides(ctx context.Context, organizationID, propertyID string) (*Overrides, error)
}
