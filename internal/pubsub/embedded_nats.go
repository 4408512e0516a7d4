package pubsub

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
)

const (
	defaultSubject = "draft.events"
	startTimeout   = 10 * time.Second
)

// EmbeddedNATSPubSub runs a NATS server inside the process so a single
// development instance behaves like a production one talking to NATS.
type EmbeddedNATSPubSub struct {
	*jetStream
	server *server.Server
}

// EmbeddedNATSOptions configures the embedded NATS server
type EmbeddedNATSOptions struct {
	Port       int    // 0 or -1 picks a free port
	Subject    string // draft event subject
	StreamName string
	StoreDir   string        // empty keeps the stream in memory
	Retention  time.Duration // how long draft events stay in the stream
}

// DefaultEmbeddedNATSOptions keeps an hour of draft events in memory on a random port
func DefaultEmbeddedNATSOptions() EmbeddedNATSOptions {
	return EmbeddedNATSOptions{
		Port:       -1,
		Subject:    defaultSubject,
		StreamName: DefaultStreamName,
		Retention:  time.Hour,
	}
}

func (o EmbeddedNATSOptions) withDefaults() EmbeddedNATSOptions {
	if o.Port == 0 {
		// 0 means 4222 to nats-server
		o.Port = -1
	}
	if o.Subject == "" {
		o.Subject = defaultSubject
	}
	if o.StreamName == "" {
		o.StreamName = DefaultStreamName
	}
	if o.Retention <= 0 {
		o.Retention = time.Hour
	}
	return o
}

// NewEmbeddedNATSPubSub starts the server, connects to it and creates the draft event stream
func NewEmbeddedNATSPubSub(opts EmbeddedNATSOptions) (*EmbeddedNATSPubSub, error) {
	opts = opts.withDefaults()

	ns, err := startServer(opts)
	if err != nil {
		return nil, err
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.Name("turkey-bowl-draft-embedded"))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	storage := nats.MemoryStorage
	if opts.StoreDir != "" {
		storage = nats.FileStorage
	}

	js, err := newJetStream(nc, opts.Subject, draftStream(opts.StreamName, opts.Subject, storage, opts.Retention))
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, err
	}

	logger.Info("Embedded NATS ready", "url", ns.ClientURL(), "stream", opts.StreamName, "retention", opts.Retention.String())
	return &EmbeddedNATSPubSub{jetStream: js, server: ns}, nil
}

func startServer(opts EmbeddedNATSOptions) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "turkey-bowl-draft",
		Port:       opts.Port,
		JetStream:  true,
		NoSigs:     true,
		StoreDir:   opts.StoreDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(newServerLogger(), false, false)

	go ns.Start()
	if !ns.ReadyForConnections(startTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server not ready after %s", startTimeout)
	}
	return ns, nil
}

// Close stops relaying and shuts the server down
func (p *EmbeddedNATSPubSub) Close() {
	p.close()
	if p.server != nil {
		p.server.Shutdown()
		p.server.WaitForShutdown()
	}
	logger.Info("Embedded NATS stopped")
}

// GetServerURL returns the URL other instances can connect to
func (p *EmbeddedNATSPubSub) GetServerURL() string {
	return p.server.ClientURL()
}

// serverLogger routes nats-server output into the service log under component=nats
type serverLogger struct {
	log *slog.Logger
}

func newServerLogger() *serverLogger {
	return &serverLogger{log: logger.Logger.With("component", "nats")}
}

func (l *serverLogger) Noticef(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *serverLogger) Warnf(format string, v ...interface{}) { l.log.Warn(fmt.Sprintf(format, v...)) }

func (l *serverLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l *serverLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l *serverLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *serverLogger) Tracef(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "trace", true)
}
