package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Every field is read from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	GRPCPort    string `envconfig:"GRPC_PORT" default:"50051"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Database   Database
	NATS       NATS
	ClickHouse ClickHouse
	OIDC       OIDC
	Draft      Draft
	Telegram   Telegram
}

type Database struct {
	Driver     string `envconfig:"DB_DRIVER" default:"memory"`
	SQLiteFile string `envconfig:"SQLITE_FILE" default:"dev.sqlite"`
	URL        string `envconfig:"DATABASE_URL"`
	// PlayersFile is an optional JSON roster imported at startup
	PlayersFile string `envconfig:"PLAYERS_FILE"`
}

type NATS struct {
	URL     string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	Subject string `envconfig:"NATS_SUBJECT" default:"draft.events"`
}

type ClickHouse struct {
	Addr         string        `envconfig:"CLICKHOUSE_ADDR" default:"localhost:9000"`
	Database     string        `envconfig:"CLICKHOUSE_DB" default:"default"`
	User         string        `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password     string        `envconfig:"CLICKHOUSE_PASSWORD"`
	SyncInterval time.Duration `envconfig:"STATS_SYNC_INTERVAL" default:"5m"`
}

type OIDC struct {
	BaseURL      string `envconfig:"OIDC_BASE_URL"`
	ClientID     string `envconfig:"OIDC_CLIENT_ID"`
	ClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"OIDC_REDIRECT_URL" default:"http://localhost:3000/auth/callback"`
}

type Draft struct {
	Teams []string `envconfig:"DRAFT_TEAMS" default:"Team A,Team B,Team C,Team D"`
}

type Telegram struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return New()
}

// New builds a Config from the process environment only
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsDevelopment reports whether local stand-ins (embedded NATS, mock auth,
// static stats) should be used instead of external services.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// TelegramEnabled reports whether pick announcements should be sent
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", c.Database.Driver)
	}

	teams := c.Draft.Teams[:0]
	for _, t := range c.Draft.Teams {
		if t = strings.TrimSpace(t); t != "" {
			teams = append(teams, t)
		}
	}
	if len(teams) == 0 {
		return fmt.Errorf("DRAFT_TEAMS must name at least one team")
	}
	c.Draft.Teams = teams

	if c.ClickHouse.SyncInterval <= 0 {
		return fmt.Errorf("STATS_SYNC_INTERVAL must be positive, got %s", c.ClickHouse.SyncInterval)
	}

	if !c.IsDevelopment() && (c.OIDC.BaseURL == "" || c.OIDC.ClientID == "" || c.OIDC.ClientSecret == "") {
		return fmt.Errorf("OIDC_BASE_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET are required outside development")
	}
	return nil
}
