package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/cenkalti/backoff/v4"
)

type publisherDispatcher struct {
	pubSub   pubsub.PubSub
	topic    string
	retries  uint64
	interval time.Duration
	log      *logger.Logger
}

// NewPublisherDispatcher publishes notifications as JSON messages on the configured topic
func NewPublisherDispatcher(cfg *config.Configuration, pubSub pubsub.PubSub, log *logger.Logger) Dispatcher {
	return &publisherDispatcher{
		pubSub:   pubSub,
		topic:    cfg.Notification.Topic,
		retries:  cfg.Notification.PublishRetries,
		interval: cfg.Notification.RetryInterval,
		log:      log,
	}
}

func (d *publisherDispatcher) Notify(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.TargetUserID == "" {
		d.log.WithContext(ctx).Warnw("notification has no recipient, dropping",
			"notification_id", n.ID,
			"kind", n.Kind,
			"lease_id", n.LeaseID,
		)
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode notification").
			Mark(ierr.ErrInternal)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(d.interval), d.retries),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		msg := message.NewMessage(n.ID, payload)
		msg.Metadata.Set("kind", string(n.Kind))
		msg.Metadata.Set("lease_id", n.LeaseID)
		msg.Metadata.Set("target_user_id", n.TargetUserID)
		msg.Metadata.Set(pubsub.PartitionKeyMetadata, n.LeaseID)

		if err := d.pubSub.Publish(ctx, d.topic, msg); err != nil {
			d.log.WithContext(ctx).Warnw("notification publish failed",
				"notification_id", n.ID,
				"kind", n.Kind,
				"attempt", attempt,
				"error", err,
			)
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish notification").
			WithReportableDetails(map[string]interface{}{
				"notification_id": n.ID,
				"kind":            n.Kind,
				"attempts":        attempt,
			}).
			Mark(ierr.ErrSystem)
	}

	d.log.WithContext(ctx).Debugw("notification published",
		"notification_id", n.ID,
		"kind", n.Kind,
		"lease_id", n.LeaseID,
		"topic", d.topic,
	)
	return nil
}
