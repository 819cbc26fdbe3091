package kafka

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wkafka "github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/kafka"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/pubsub"
)

type kafkaPubSub struct {
	cfg        *config.Configuration
	clientID   string
	log        watermill.LoggerAdapter
	publisher  message.Publisher
	mu         sync.Mutex
	subscriber message.Subscriber
}

// NewPubSubFromConfig creates a Kafka backed broker. The subscriber is created
// on first Subscribe so producers never join a consumer group.
func NewPubSubFromConfig(cfg *config.Configuration, log *logger.Logger, clientID string) (pubsub.PubSub, error) {
	wlog := log.GetWatermillLogger()

	publisher, err := wkafka.NewPublisher(wkafka.PublisherConfig{
		Brokers: cfg.Kafka.Brokers,
		Marshaler: wkafka.NewWithPartitioningMarshaler(func(_ string, msg *message.Message) (string, error) {
			return msg.Metadata.Get(pubsub.PartitionKeyMetadata), nil
		}),
		OverwriteSaramaConfig: kafka.GetSaramaConfig(cfg, clientID),
	}, wlog)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create Kafka publisher").
			WithReportableDetails(map[string]interface{}{"brokers": cfg.Kafka.Brokers}).
			Mark(ierr.ErrSystem)
	}

	return &kafkaPubSub{
		cfg:       cfg,
		clientID:  clientID,
		log:       wlog,
		publisher: publisher,
	}, nil
}

func (p *kafkaPubSub) Publish(_ context.Context, topic string, msg *message.Message) error {
	return p.publisher.Publish(topic, msg)
}

func (p *kafkaPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subscriber == nil {
		subscriber, err := wkafka.NewSubscriber(wkafka.SubscriberConfig{
			Brokers:               p.cfg.Kafka.Brokers,
			Unmarshaler:           wkafka.DefaultMarshaler{},
			OverwriteSaramaConfig: kafka.GetSaramaConfig(p.cfg, p.clientID),
			ConsumerGroup:         p.clientID,
		}, p.log)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to create Kafka subscriber").
				Mark(ierr.ErrSystem)
		}
		p.subscriber = subscriber
	}
	return p.subscriber.Subscribe(ctx, topic)
}

func (p *kafkaPubSub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subscriber != nil {
		if err := p.subscriber.Close(); err != nil {
			return err
		}
	}
	return p.publisher.Close()
}
