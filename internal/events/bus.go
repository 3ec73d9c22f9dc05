// Package events provides an in-process publish/subscribe message bus with
// named topics.
package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/logfields"
)

const loggerName = "bus"

const DefSubscriberChannelBufferSize = 512

// Handler processes a single message delivered on a topic.
type Handler func(ctx context.Context, msg any)

// Observer is notified about every publish on the bus.
// It exists to make deliveries observable from the outside, e.g. for
// recording them in tests. Production code registers no observers.
type Observer interface {
	Published(topic string, msg any)
}

type subscription struct {
	name    string
	topic   string
	handler Handler
	ch      chan any
}

// Bus delivers published messages to all subscribers of a topic.
// Every subscriber has its own buffered channel and processing goroutine, a
// slow or failing subscriber does not affect delivery to others.
// Handler panics are caught and logged, they never propagate to the
// publisher.
type Bus struct {
	logger  *zap.Logger
	deferFn func()

	lock        sync.RWMutex
	subscribers map[string][]*subscription
	observers   []Observer

	wg      sync.WaitGroup
	stopped bool
}

type Option func(*Bus)

// WithHandlerDeferFunc sets a function that is deferred in every subscriber
// goroutine. It can be used to install a process-wide panic handler.
func WithHandlerDeferFunc(fn func()) Option {
	return func(b *Bus) {
		b.deferFn = fn
	}
}

// WithObserver registers an observer that is notified on every publish.
func WithObserver(o Observer) Option {
	return func(b *Bus) {
		b.observers = append(b.observers, o)
	}
}

func NewBus(opts ...Option) *Bus {
	b := Bus{
		subscribers: map[string][]*subscription{},
	}

	for _, opt := range opts {
		opt(&b)
	}

	if b.logger == nil {
		b.logger = zap.L().Named(loggerName)
	}

	return &b
}

// Subscribe registers handler for all future publishes on topic.
// The name identifies the subscriber in log messages.
// Subscribe must not be called after Stop().
func (b *Bus) Subscribe(topic, name string, handler Handler) {
	sub := subscription{
		name:    name,
		topic:   topic,
		handler: handler,
		ch:      make(chan any, DefSubscriberChannelBufferSize),
	}

	b.lock.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], &sub)
	b.lock.Unlock()

	b.wg.Add(1)
	go func() {
		if b.deferFn != nil {
			defer b.deferFn()
		}
		defer b.wg.Done()

		b.deliverLoop(&sub)
	}()

	b.logger.Debug(
		"subscriber registered",
		logfields.Topic(topic),
		zap.String("subscriber", name),
		logfields.Event("bus_subscriber_registered"),
	)
}

func (b *Bus) deliverLoop(sub *subscription) {
	for msg := range sub.ch {
		b.deliver(sub, msg)
	}
}

func (b *Bus) deliver(sub *subscription, msg any) {
	defer func() {
		if r := recover(); r != nil {
			metrics.handlerPanic(sub.topic, sub.name)
			b.logger.Error(
				"panic in subscriber caught",
				logfields.Topic(sub.topic),
				zap.String("subscriber", sub.name),
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.StackSkip("stacktrace", 2),
				logfields.Event("bus_subscriber_panicked"),
			)
		}
	}()

	sub.handler(context.Background(), msg)
}

// Publish delivers msg to all current subscribers of topic.
// Delivery is asynchronous, Publish never blocks on a subscriber. If a
// subscriber channel is full the message is dropped for that subscriber and
// a warning is logged.
func (b *Bus) Publish(topic string, msg any) {
	// The read lock is held across the sends. Stop() closes the subscriber
	// channels under the write lock, releasing the read lock earlier would
	// allow a send on a closed channel.
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.stopped {
		b.logger.Debug(
			"publish after bus was stopped, message discarded",
			logfields.Topic(topic),
		)
		return
	}

	metrics.published(topic)
	b.logger.Debug("event published", logfields.Topic(topic), logfields.Event("bus_event_published"))

	for _, o := range b.observers {
		o.Published(topic, msg)
	}

	for _, sub := range b.subscribers[topic] {
		select {
		case sub.ch <- msg:
		default:
			metrics.dropped(topic, sub.name)
			b.logger.Warn(
				"message lost, subscriber channel is full",
				logfields.Topic(topic),
				zap.String("subscriber", sub.name),
				logfields.Event("bus_message_lost"),
			)
		}
	}
}

// Stop closes all subscriber channels and waits until queued messages were
// processed.
func (b *Bus) Stop() {
	b.logger.Debug("bus terminating", logfields.Event("bus_terminating"))

	b.lock.Lock()
	if b.stopped {
		b.lock.Unlock()
		return
	}
	b.stopped = true
	for _, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	b.lock.Unlock()

	b.wg.Wait()
	b.logger.Info("bus terminated", logfields.Event("bus_terminated"))
}
