package notification

import (
	"context"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// Notification tells one user about a lifecycle event on a lease
type Notification struct {
	ID           string                 `json:"id"`
	TargetUserID string                 `json:"target_user_id"`
	Kind         types.NotificationKind `json:"kind"`
	LeaseID      string                 `json:"lease_id"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Dispatcher delivers notifications. Callers treat failures as best effort.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) error
}

// NoopDispatcher drops every notification
type NoopDispatcher struct{}

func (NoopDispatcher) Notify(context.Context, Notification) error { return nil }
