package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/auth"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/clickhouse"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/config"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	grpcserver "github.com/Billy-Davies-2/turkey-bowl-draft/internal/grpc"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/handlers"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/mcpserver"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/metrics"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/notify"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/roster"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/scheduler"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// upstream is a NATS-backed event bus, embedded or external
type upstream interface {
	pubsub.Upstream
	Close()
}

func main() {
	if err := run(); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	logger.Info("Starting Turkey Bowl draft service", "version", version, "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Database.PlayersFile != "" {
		n, err := dal.LoadPlayersFromFile(store, cfg.Database.PlayersFile)
		if err != nil {
			return fmt.Errorf("failed to import players: %w", err)
		}
		logger.Info("Imported players", "file", cfg.Database.PlayersFile, "count", n)
	}

	bus, natsCheck, err := openUpstream(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()
	ps := pubsub.NewWithUpstream(bus)

	rec := metrics.NewRecorder()
	sessions := session.NewManager(store, ps, rec, cfg.Draft.Teams)
	rs := roster.NewService(store, ps)

	if cfg.TelegramEnabled() {
		announcer, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
		sessions.OnPick(announcer.AnnouncePick)
		go announcer.Run(ctx)
		logger.Info("Telegram pick announcements enabled", "chatID", cfg.Telegram.ChatID)
	}

	health := handlers.NewHealth(store)
	if natsCheck != nil {
		health.AddCheck("nats", natsCheck)
	}

	var source clickhouse.StatsSource
	if cfg.IsDevelopment() {
		logger.Info("Using generated stats for local development (no ClickHouse server required)")
		source = clickhouse.NewDevSource(time.Now().UnixNano())
	} else {
		client, err := clickhouse.NewClient(cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.User, cfg.ClickHouse.Password)
		if err != nil {
			return err
		}
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouse.Addr, "database", cfg.ClickHouse.Database)
		health.AddCheck("clickhouse", client.Ping)
		source = client
	}
	defer source.Close()

	sched, err := scheduler.NewScheduler(source, rs, ps, rec, cfg.ClickHouse.SyncInterval)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	var authProvider auth.Provider
	if cfg.IsDevelopment() {
		logger.Info("Using mock authentication for local development (no OIDC provider required)")
		authProvider = auth.NewMockAuth()
	} else {
		authProvider = auth.NewOIDCAuth(auth.OIDCConfig{
			BaseURL:      cfg.OIDC.BaseURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
		})
		logger.Info("Using OIDC authentication", "url", cfg.OIDC.BaseURL)
	}

	api := handlers.NewAPIHandlers(store, sessions, rs, ps)
	mux := handlers.Routes(api, health, authProvider, rec)
	mux.Handle("/metrics", rec.Handler())
	mux.Handle("/mcp", mcpserver.Handler(mcpserver.New(sessions, version)))

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	grpcserver.Register(grpcServer, grpcserver.NewServer(store, sessions, ps))

	lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.GRPCPort, err)
	}

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server starting", "address", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown did not complete", "error", err)
	}
	grpcServer.GracefulStop()
	return nil
}

func openStore(cfg *config.Config) (dal.LeagueDAL, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		store, err := dal.NewSQLiteDAL(cfg.Database.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.Database.SQLiteFile)
		return store, nil
	case "postgres":
		store, err := dal.NewPostgresDAL(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		logger.Info("Connected to Postgres database")
		return store, nil
	default:
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL(), nil
	}
}

// openUpstream starts embedded NATS in development and connects to NATS otherwise.
// The returned check is nil when there is nothing external to probe.
func openUpstream(cfg *config.Config) (upstream, handlers.Check, error) {
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATS.Subject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize embedded NATS: %w", err)
		}
		return embedded, nil, nil
	}

	nc, err := pubsub.NewNATSPubSub(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize NATS: %w", err)
	}
	logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	return nc, func(context.Context) error {
		if !nc.Connected() {
			return errors.New("not connected")
		}
		return nil
	}, nil
}
