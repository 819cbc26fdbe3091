package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub/memory"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPubSub struct {
	failures int
	calls    int
}

func (f *flakyPubSub) Publish(context.Context, string, *message.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	return nil
}

func (f *flakyPubSub) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return nil, errors.New("not supported")
}

func (f *flakyPubSub) Close() error { return nil }

func testConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Notification.RetryInterval = time.Millisecond
	cfg.Notification.PublishRetries = 2
	return cfg
}

func TestPublisherDispatcherDeliversJSON(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logger.NewNopLogger()
	cfg := testConfig()
	ps := memory.NewPubSub(log)
	defer ps.Close()

	messages, err := ps.Subscribe(ctx, cfg.Notification.Topic)
	require.NoError(t, err)

	dispatcher := NewPublisherDispatcher(cfg, ps, log)
	require.NoError(t, dispatcher.Notify(ctx, Notification{
		TargetUserID: "tenant",
		Kind:         types.NotificationKindRenewalRequested,
		LeaseID:      "lease_1",
		Payload:      map[string]interface{}{"renewal_request_id": "rnw_1"},
	}))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "lease_1", msg.Metadata.Get(pubsub.PartitionKeyMetadata))
		assert.Equal(t, string(types.NotificationKindRenewalRequested), msg.Metadata.Get("kind"))

		var got Notification
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "tenant", got.TargetUserID)
		assert.Equal(t, "rnw_1", got.Payload["renewal_request_id"])
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	case <-ctx.Done():
		t.Fatal("notification was not delivered")
	}
}

func TestPublisherDispatcherRetries(t *testing.T) {
	log := logger.NewNopLogger()

	recovering := &flakyPubSub{failures: 2}
	err := NewPublisherDispatcher(testConfig(), recovering, log).Notify(context.Background(), Notification{
		TargetUserID: "owner",
		Kind:         types.NotificationKindRenewalDeclined,
		LeaseID:      "lease_1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, recovering.calls)

	broken := &flakyPubSub{failures: 100}
	err = NewPublisherDispatcher(testConfig(), broken, log).Notify(context.Background(), Notification{
		TargetUserID: "owner",
		Kind:         types.NotificationKindRenewalDeclined,
		LeaseID:      "lease_1",
	})
	require.Error(t, err)
	assert.Equal(t, ierr.ErrCodeSystemError, ierr.Code(err))
	assert.Equal(t, 3, broken.calls)
}

func TestPublisherDispatcherDropsNotificationsWithoutRecipient(t *testing.T) {
	ps := &flakyPubSub{}
	err := NewPublisherDispatcher(testConfig(), ps, logger.NewNopLogger()).Notify(context.Background(), Notification{
		Kind:    types.NotificationKindTerminationNoticeCreated,
		LeaseID: "lease_1",
	})
	assert.NoError(t, err)
	assert.Zero(t, ps.calls)
}
