// Package eventbus wraps the in-process watermill pub/sub the engine and the
// presentation layer communicate over. The engine runs on its own goroutines;
// the only shared surface is asynchronous messages.
package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus is the engine's message transport.
type EventBus interface {
	Publish(topic string, msgs ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Publisher() message.Publisher
	Subscriber() message.Subscriber
	Close() error
}

type eventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates an EventBus backed by an in-process go-channel pub/sub.
func New(logger *slog.Logger) EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{pubsub: pubsub, logger: logger}
}

func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	return eb.pubsub.Publish(topic, msgs...)
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return eb.pubsub.Subscribe(ctx, topic)
}

func (eb *eventBus) Publisher() message.Publisher { return eb.pubsub }

func (eb *eventBus) Subscriber() message.Subscriber { return eb.pubsub }

func (eb *eventBus) Close() error {
	return eb.pubsub.Close()
}
