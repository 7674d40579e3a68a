package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the initial capacity of each event queue. A
// backlog warning is logged every time a queue grows by this many events.
const DefaultEventBufferSize = 100

// ErrEventBusClosed is returned when publishing to or subscribing on a closed bus.
var ErrEventBusClosed = errors.New("event bus closed")

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

type eventTopic struct {
	mu       sync.Mutex
	pending  []domain.Event
	wake     chan struct{}
	handlers []func(context.Context, domain.Event)
}

// push queues event and reports the backlog length.
func (t *eventTopic) push(event domain.Event) int {
	t.mu.Lock()
	t.pending = append(t.pending, event)
	n := len(t.pending)
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
	return n
}

func (t *eventTopic) drain() []domain.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.pending
	t.pending = nil
	return events
}

// ChannelEventBus provides a channel-based event bus for async event handling.
// Each subscribed event type gets its own queue and dispatcher goroutine, so
// events of one type are delivered in publish order. Publishing never blocks
// and never drops an event.
type ChannelEventBus struct {
	bufferSize int
	topics     map[reflect.Type]*eventTopic

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ChannelEventBus{
		bufferSize: bufferSize,
		topics:     make(map[reflect.Type]*eventTopic),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Subscribe registers a handler for events of eventType.
func (b *ChannelEventBus) Subscribe(eventType reflect.Type, handler func(context.Context, domain.Event)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	topic, ok := b.topics[eventType]
	if !ok {
		topic = &eventTopic{
			pending: make([]domain.Event, 0, b.bufferSize),
			wake:    make(chan struct{}, 1),
		}
		b.topics[eventType] = topic
		b.wg.Add(1)
		go b.dispatch(eventType, topic)
	}
	topic.handlers = append(topic.handlers, handler)

	return nil
}

// Publish queues an event for its subscribers.
func (b *ChannelEventBus) Publish(event domain.Event) error {
	eventType := reflect.TypeOf(event)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType.Name())
		return ErrEventBusClosed
	}

	topic, ok := b.topics[eventType]
	if !ok {
		slog.Debug("no subscribers for event", "type", eventType.Name())
		return nil
	}

	if n := topic.push(event); n%b.bufferSize == 0 {
		slog.Warn("event backlog growing", "type", eventType.Name(), "pending", n)
	}
	slog.Debug("published event", "type", eventType.Name())
	return nil
}

func (b *ChannelEventBus) dispatch(eventType reflect.Type, topic *eventTopic) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-topic.wake:
		}

		for _, event := range topic.drain() {
			if b.ctx.Err() != nil {
				return
			}
			b.mu.RLock()
			handlers := topic.handlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				b.invoke(eventType, handler, event)
			}
		}
	}
}

func (b *ChannelEventBus) invoke(eventType reflect.Type, handler func(context.Context, domain.Event), event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "type", eventType.Name(), "panic", r)
		}
	}()
	handler(b.ctx, event)
}

// Close stops the dispatchers. Events still queued are discarded.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	// Cancel context to stop dispatchers
	b.cancel()
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
