package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

// Event types published by the draft service
const (
	EventSessionCreated = "draft:session"
	EventDraftSelect    = "draft:select"
	EventDraftPick      = "draft:pick"
	EventDraftAdvance   = "draft:advance"
	EventPlayersAdd     = "players:add"
	EventStatsSynced    = "stats:sync"
)

// Event represents a pubsub event
type Event struct {
	Type    string                 `json:"type"`
	Session string                 `json:"session,omitempty"`
	TS      int64                  `json:"ts"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType, session string, payload map[string]interface{}) Event {
	return Event{Type: eventType, Session: session, TS: time.Now().UnixMilli(), Payload: payload}
}

// Publisher is the write side used by the session manager and handlers
type Publisher interface {
	Publish(Event)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// fanout delivers events to buffered subscriber channels, dropping for slow readers
type fanout struct {
	mu          sync.RWMutex
	subscribers []chan Event
	buffer      int
}

func (f *fanout) subscribe() chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, f.buffer)
	f.subscribers = append(f.subscribers, ch)
	return ch
}

func (f *fanout) unsubscribe(ch chan Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			close(ch)
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// broadcast returns the number of subscribers that missed the event
func (f *fanout) broadcast(event Event) int {
	// sends never block, so holding the read lock keeps channels from closing mid-send
	f.mu.RLock()
	defer f.mu.RUnlock()

	dropped := 0
	for _, ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	return dropped
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subscribers {
		close(sub)
	}
	f.subscribers = nil
}

func (f *fanout) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// DefaultHistorySize is how many delivered events a PubSub keeps for replay
const DefaultHistorySize = 50

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	fanout
	upstream Upstream // Optional upstream publisher (e.g., NATS)

	histMu  sync.Mutex
	history []Event
	histCap int
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{
		fanout:  fanout{subscribers: []chan Event{}, buffer: 10},
		histCap: DefaultHistorySize,
	}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher (e.g., NATS)
// When Publish is called, events are sent to the upstream, which broadcasts to all instances.
// Events from the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := New()
	ps.upstream = upstream

	ch := upstream.Subscribe()
	go func() {
		for event := range ch {
			logger.Debug("PubSub: Received event from upstream", "type", event.Type)
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ch := ps.subscribe()
	logger.Debug("PubSub: New subscriber added", "totalSubscribers", ps.count())
	return ch
}

// Unsubscribe removes a subscriber. Channels not owned by ps are left open.
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.unsubscribe(ch)
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	return ps.count()
}

// Publish sends an event to all subscribers
// If an upstream is configured, the event is published to the upstream,
// which will broadcast it back to all instances (including this one)
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		logger.Debug("PubSub: Forwarding to upstream", "type", event.Type)
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

// Recent returns up to the last DefaultHistorySize delivered events, oldest first
func (ps *PubSub) Recent() []Event {
	ps.histMu.Lock()
	defer ps.histMu.Unlock()

	out := make([]Event, len(ps.history))
	copy(out, ps.history)
	return out
}

// publishLocal sends an event to local subscribers only
func (ps *PubSub) publishLocal(event Event) {
	ps.histMu.Lock()
	ps.history = append(ps.history, event)
	if len(ps.history) > ps.histCap {
		ps.history = ps.history[len(ps.history)-ps.histCap:]
	}
	ps.histMu.Unlock()

	if dropped := ps.broadcast(event); dropped > 0 {
		logger.Warn("PubSub: Skipped slow subscribers", "type", event.Type, "dropped", dropped)
	}
}
