package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PartitionKeyMetadata is the metadata key brokers use to keep related messages ordered
const PartitionKeyMetadata = "partition_key"

// PubSub is the message broker abstraction notifications are published through
type PubSub interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}
