package service

import (
	"context"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/notification"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// notify delivers a notification after the calling operation committed.
// Delivery failures never reach the caller.
func (p ServiceParams) notify(ctx context.Context, targetUserID string, kind types.NotificationKind, leaseID string, payload map[string]interface{}) {
	if targetUserID == "" {
		p.Logger.WithContext(ctx).Warnw("no counterpart to notify", "kind", kind, "lease_id", leaseID)
		return
	}

	n := notification.Notification{
		TargetUserID: targetUserID,
		Kind:         kind,
		LeaseID:      leaseID,
		Payload:      payload,
		CreatedAt:    p.Clock.Now(),
	}
	p.SideEffects.Go(ctx, "notify:"+kind.String(), func(ctx context.Context) error {
		return p.Notifier.Notify(ctx, n)
	})
}
