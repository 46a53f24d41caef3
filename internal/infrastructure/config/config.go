package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=3000"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=168h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// CORSOrigins is a comma-separated allow-list; "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
	// BodyLimit caps request bodies, using echo's size notation (e.g. "1M").
	BodyLimit string `env:"BODY_LIMIT, default=1M"`

	// AuditWorkers is the number of review audit dispatcher workers.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Seed     SeedConfig
}

type PostgresConfig struct {
	DSN             string        `env:"DATABASE_URL, required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
}

// RedisConfig is optional: an empty Addr disables login throttling and
// submission idempotency.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,          default=0"`
	LoginLimit     int           `env:"LOGIN_RATE_LIMIT,  default=10"`
	LoginWindow    time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,   default=24h"`
}

// MongoConfig is optional: an empty URI disables the review audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=microtasks"`
}

// SeedConfig describes the admin account created at startup when absent.
type SeedConfig struct {
	AdminName     string `env:"ADMIN_NAME, default=Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return &cfg, nil
}
