package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

// DefaultStreamName is the JetStream stream holding draft events
const DefaultStreamName = "DRAFT_EVENTS"

// jetStream relays events between a JetStream subject and local subscribers.
// Both the external and embedded NATS pub/subs are built on it.
type jetStream struct {
	fanout
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
}

// draftStream describes the stream that stores draft events on subject
func draftStream(name, subject string, storage nats.StorageType, retention time.Duration) *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:        name,
		Description: "Turkey Bowl draft events",
		Subjects:    []string{subject},
		Storage:     storage,
		MaxAge:      retention,
	}
}

func newJetStream(nc *nats.Conn, subject string, stream *nats.StreamConfig) (*jetStream, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Create the stream unless it already exists
	if _, err := js.StreamInfo(stream.Name); err != nil {
		if _, err := js.AddStream(stream); err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", stream.Name, err)
		}
		logger.Info("JetStream stream created", "stream", stream.Name, "subject", subject)
	}

	p := &jetStream{
		fanout:  fanout{subscribers: make([]chan Event, 0), buffer: 100},
		nc:      nc,
		js:      js,
		subject: subject,
	}

	// Only new events are relayed; replay is served by PubSub history
	p.sub, err = js.Subscribe(subject, p.handle, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return p, nil
}

func (p *jetStream) handle(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		msg.Term()
		return
	}

	if dropped := p.broadcast(event); dropped > 0 {
		logger.Warn("NATS: Skipping slow subscribers", "event_type", event.Type, "dropped", dropped)
	}
	msg.Ack()
}

// Publish publishes an event to JetStream; local delivery happens when it comes back
func (p *jetStream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := p.js.Publish(p.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", p.subject, "event_type", event.Type)
		return
	}

	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", p.subject)
}

// Subscribe creates a subscription channel for events
func (p *jetStream) Subscribe() chan Event {
	return p.subscribe()
}

// Unsubscribe removes a subscription channel
func (p *jetStream) Unsubscribe(ch chan Event) {
	p.unsubscribe(ch)
}

// GetSubscriberCount returns the number of active local subscribers
func (p *jetStream) GetSubscriberCount() int {
	return p.count()
}

func (p *jetStream) close() {
	if p.sub != nil {
		if err := p.sub.Unsubscribe(); err != nil {
			logger.Debug("JetStream unsubscribe failed", "error", err)
		}
	}
	p.closeAll()
	if p.nc != nil {
		p.nc.Close()
	}
}

// NATSPubSub implements pub/sub using an external NATS JetStream server
type NATSPubSub struct {
	*jetStream
}

// NewNATSPubSub connects to natsURL and relays events on subject
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("turkey-bowl-draft"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := newJetStream(nc, subject, draftStream(DefaultStreamName, subject, nats.FileStorage, 7*24*time.Hour))
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &NATSPubSub{jetStream: js}, nil
}

// Connected reports whether the NATS connection is currently up
func (p *NATSPubSub) Connected() bool {
	return p.nc.IsConnected()
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	p.close()
}
