package bot

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

type collectorKey struct {
	channelID string
	userID    string
}

// CollectorHub routes follow-up messages to interactive commands waiting on
// a reply from a user in a channel.
type CollectorHub struct {
	mu         sync.Mutex
	collectors map[collectorKey]*Collector
}

// NewCollectorHub creates an empty hub.
func NewCollectorHub() *CollectorHub {
	return &CollectorHub{collectors: make(map[collectorKey]*Collector)}
}

// Start begins collecting messages of userID in channelID. An existing
// collector for the same pair is stopped. Every received message resets
// the idle timeout.
func (h *CollectorHub) Start(channelID, userID string, idle time.Duration) *Collector {
	key := collectorKey{channelID: channelID, userID: userID}
	c := &Collector{
		hub:      h,
		key:      key,
		idle:     idle,
		messages: make(chan *discordgo.Message, 1),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	previous := h.collectors[key]
	h.collectors[key] = c
	h.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}
	return c
}

// Offer hands m to the collector waiting on its author and channel. It
// reports whether a collector took the message.
func (h *CollectorHub) Offer(m *discordgo.Message) bool {
	if m.Author == nil {
		return false
	}
	h.mu.Lock()
	c := h.collectors[collectorKey{channelID: m.ChannelID, userID: m.Author.ID}]
	h.mu.Unlock()
	if c == nil {
		return false
	}
	return c.offer(m)
}

// Cancel stops the collector of userID in channelID, if any.
func (h *CollectorHub) Cancel(channelID, userID string) {
	h.mu.Lock()
	c := h.collectors[collectorKey{channelID: channelID, userID: userID}]
	h.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}

// Len returns the number of active collectors.
func (h *CollectorHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.collectors)
}

func (h *CollectorHub) remove(c *Collector) {
	h.mu.Lock()
	if h.collectors[c.key] == c {
		delete(h.collectors, c.key)
	}
	h.mu.Unlock()
}

// Collector receives follow-up messages for one interactive command.
type Collector struct {
	hub      *CollectorHub
	key      collectorKey
	idle     time.Duration
	messages chan *discordgo.Message
	done     chan struct{}
	once     sync.Once
}

// Next waits for the next message. It returns ErrCollectorTimeout when no
// message arrives within the idle timeout and ErrCollectorStopped once the
// collector is stopped.
func (c *Collector) Next(ctx context.Context) (*discordgo.Message, error) {
	timer := time.NewTimer(c.idle)
	defer timer.Stop()

	select {
	case m := <-c.messages:
		return m, nil
	case <-c.done:
		return nil, ErrCollectorStopped
	case <-timer.C:
		c.Stop()
		return nil, ErrCollectorTimeout
	case <-ctx.Done():
		c.Stop()
		return nil, ctx.Err()
	}
}

// Stop ends the collector. It is safe to call more than once.
func (c *Collector) Stop() {
	c.once.Do(func() {
		close(c.done)
		c.hub.remove(c)
	})
}

// Done is closed once the collector stops.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) offer(m *discordgo.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.messages <- m:
		return true
	default:
		return false
	}
}
