package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	PublisherKafka   = "kafka"
	PublisherChannel = "channel"
	PublisherMock    = "mock"
)

// EventConfig holds configuration for the counter event transport
type EventConfig struct {
	Enabled       bool
	Publisher     string // kafka, channel or mock
	KafkaBrokers  string
	CounterTopic  string
	ConsumerGroup string
}

func loadEventConfig() EventConfig {
	return EventConfig{
		Enabled:       getEnvBool("EVENTS_ENABLED", true),
		Publisher:     strings.ToLower(getEnv("EVENTS_PUBLISHER", PublisherKafka)),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		CounterTopic:  getEnv("COUNTER_EVENTS_TOPIC", "course-counter-events"),
		ConsumerGroup: getEnv("COUNTER_CONSUMER_GROUP", "progress-counter-projector"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// Transport is a matched publisher and subscriber for the counter topic.
// For the channel transport both sides share one in-process pub/sub.
type Transport struct {
	Publisher  events.EventPublisher
	Subscriber message.Subscriber
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	transport, err := c.CreateTransport(logger, false)
	if err != nil {
		return nil, err
	}
	return transport.Publisher, nil
}

// CreateTransport builds the publisher and, when withSubscriber is set, the subscriber.
func (c *EventConfig) CreateTransport(logger *slog.Logger, withSubscriber bool) (*Transport, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return &Transport{Publisher: events.NewMockEventPublisher(logger)}, nil
	}

	switch c.Publisher {
	case PublisherKafka:
		logger.Info("Creating Kafka event transport",
			"brokers", c.KafkaBrokers,
			"topic", c.CounterTopic)

		publisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.CounterTopic,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		transport := &Transport{Publisher: publisher}
		if withSubscriber {
			subscriber, err := events.NewKafkaSubscriber(events.SubscriberConfig{
				KafkaBrokers:  c.GetKafkaBrokers(),
				ConsumerGroup: c.ConsumerGroup,
				Logger:        logger,
			})
			if err != nil {
				_ = publisher.Close()
				return nil, fmt.Errorf("counter subscriber: %w", err)
			}
			transport.Subscriber = subscriber
		}
		return transport, nil
	case PublisherChannel:
		logger.Info("Using in-process channel event transport", "topic", c.CounterTopic)
		pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NewSlogLogger(logger))
		return &Transport{
			Publisher:  events.NewWatermillEventPublisher(pubSub, c.CounterTopic, logger),
			Subscriber: pubSub,
		}, nil
	case PublisherMock:
		logger.Info("Using mock event publisher")
		return &Transport{Publisher: events.NewMockEventPublisher(logger)}, nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return &Transport{Publisher: events.NewMockEventPublisher(logger)}, nil
	}
}
