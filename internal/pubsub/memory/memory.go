package memory

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub"
)

type memoryPubSub struct {
	channel *gochannel.GoChannel
}

// NewPubSub creates an in-process broker. Messages published without subscribers are dropped.
func NewPubSub(log *logger.Logger) pubsub.PubSub {
	return &memoryPubSub{
		channel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, log.GetWatermillLogger()),
	}
}

func (p *memoryPubSub) Publish(_ context.Context, topic string, msg *message.Message) error {
	return p.channel.Publish(topic, msg)
}

func (p *memoryPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.channel.Subscribe(ctx, topic)
}

func (p *memoryPubSub) Close() error {
	return p.channel.Close()
}
