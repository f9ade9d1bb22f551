package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"quill/app/schema"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env             string        `mapstructure:"QUILL_ENV"`
	HTTPAddr        string        `mapstructure:"QUILL_HTTP_ADDR"`
	ShutdownTimeout time.Duration `mapstructure:"QUILL_SHUTDOWN_TIMEOUT"`

	Store StoreConfig `mapstructure:",squash"`
	Blog  BlogConfig  `mapstructure:",squash"`
	HTTP  HTTPConfig  `mapstructure:",squash"`
}

type HTTPConfig struct {
	// CORSOrigins is a comma separated list; empty disables CORS.
	CORSOrigins  string `mapstructure:"QUILL_CORS_ORIGINS"`
	RateLimitRPM int    `mapstructure:"QUILL_RATE_LIMIT_RPM"`
}

// Origins splits CORSOrigins.
func (h HTTPConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(h.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

type StoreConfig struct {
	Driver     string `mapstructure:"QUILL_STORE_DRIVER"` // "badger", "sqlite", "memory"
	BadgerPath string `mapstructure:"QUILL_BADGER_PATH"`
	SQLiteDSN  string `mapstructure:"QUILL_SQLITE_DSN"`
	BackupDir  string `mapstructure:"QUILL_BACKUP_DIR"`
}

type BlogConfig struct {
	// CommentsOnPostDelete is the dependent policy for comments of a
	// deleted post: restrict, destroy or nullify.
	CommentsOnPostDelete string `mapstructure:"QUILL_COMMENTS_ON_POST_DELETE"`
	DefaultPageSize      int    `mapstructure:"QUILL_DEFAULT_PAGE_SIZE"`
	MaxPageSize          int    `mapstructure:"QUILL_MAX_PAGE_SIZE"`
}

// Drivers accepted by QUILL_STORE_DRIVER.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = gotenv.Load(".env") // variables already set take precedence
	}
}

// Load reads the configuration from the environment and an optional .env
// file in the working directory.
func Load() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("QUILL_ENV", "dev")
	v.SetDefault("QUILL_HTTP_ADDR", ":8080")
	v.SetDefault("QUILL_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("QUILL_STORE_DRIVER", DriverBadger)
	v.SetDefault("QUILL_BADGER_PATH", "data/badger")
	v.SetDefault("QUILL_SQLITE_DSN", "")
	v.SetDefault("QUILL_BACKUP_DIR", "data/backups")
	v.SetDefault("QUILL_COMMENTS_ON_POST_DELETE", string(schema.DependentRestrict))
	v.SetDefault("QUILL_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("QUILL_MAX_PAGE_SIZE", 100)
	v.SetDefault("QUILL_CORS_ORIGINS", "")
	v.SetDefault("QUILL_RATE_LIMIT_RPM", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverBadger:
		if c.Store.BadgerPath == "" {
			return fmt.Errorf("QUILL_BADGER_PATH is required for the badger driver")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported QUILL_STORE_DRIVER %q", c.Store.Driver)
	}
	if _, err := c.Dependent(); err != nil {
		return err
	}
	if c.Blog.DefaultPageSize < 1 {
		return fmt.Errorf("QUILL_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.Blog.MaxPageSize < c.Blog.DefaultPageSize {
		return fmt.Errorf("QUILL_MAX_PAGE_SIZE must be at least QUILL_DEFAULT_PAGE_SIZE")
	}
	if c.HTTP.RateLimitRPM < 0 {
		return fmt.Errorf("QUILL_RATE_LIMIT_RPM must not be negative")
	}
	return nil
}

// Dependent returns the configured policy for comments of deleted posts.
func (c *Config) Dependent() (schema.Dependent, error) {
	return schema.ParseDependent(c.Blog.CommentsOnPostDelete)
}

// IsProd reports whether the service runs in production mode.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}
