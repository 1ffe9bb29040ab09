package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Lock drivers.
const (
	LockDriverMemory = "memory"
	LockDriverRedis  = "redis"
)

// Config represents the server configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Lock      LockConfig        `yaml:"lock"`
	Scheduler SchedulerConfig   `yaml:"scheduler"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := c.Lock.Validate(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`

	// Timezone is the IANA name of the studio's calendar. Month and year
	// reports are aligned to it.
	Timezone string     `yaml:"timezone"`
	HTTP     HTTPConfig `yaml:"http"`
}

func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Timezone, validation.Required, validation.By(func(any) error {
			_, err := time.LoadLocation(c.Timezone)
			return err
		})),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// Location resolves Timezone. Call after Validate.
func (c *ApplicationConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LockConfig selects how booking writes are serialized.
//
// Driver controls the scope of the lock:
//   - "memory" (default): in-process, correct for a single server instance.
//   - "redis": shared by every instance pointing at the same Redis.
type LockConfig struct {
	Driver string        `yaml:"driver"`
	TTL    time.Duration `yaml:"ttl"`
	Retry  time.Duration `yaml:"retry"`
	Prefix string        `yaml:"prefix"`
	Redis  RedisConfig   `yaml:"redis"`
}

func (c *LockConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = LockDriverMemory
	}
	c.Driver = strings.ToLower(c.Driver)
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(LockDriverMemory, LockDriverRedis)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Retry, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Driver == LockDriverRedis {
		return c.Redis.Validate()
	}
	return nil
}

// RedisConfig holds the Redis connection used by the redis lock driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// SchedulerConfig controls the background contract alert sweep.
type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

func (c *SchedulerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Interval, validation.When(c.Enabled, validation.Required, validation.Min(time.Second))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Timezone: "UTC",
			HTTP: HTTPConfig{
				Port:           8080,
				AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			},
		},
		SQLite: SQLiteConfig{
			Path: "./studio.db",
		},
		Lock: LockConfig{
			Driver: LockDriverMemory,
			TTL:    10 * time.Second,
			Retry:  25 * time.Millisecond,
			Prefix: "studio:lock",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Interval: time.Hour,
		},
	}
}
