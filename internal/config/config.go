package config

import (
	"fmt"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultStoragePath = "~/.local/share/finlens/finlens.db"
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "finlens:"
	DefaultServerAddr  = "127.0.0.1:8080"
)

// Config holds the runtime configuration for finlens.
type Config struct {
	Logging LoggingConfig
	Storage StorageConfig
	Server  ServerConfig
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// StorageConfig selects and configures the state store backend.
type StorageConfig struct {
	Driver      string
	Path        string
	RedisAddr   string
	RedisPrefix string
}

// ServerConfig configures the local JSON API.
type ServerConfig struct {
	Addr string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("storage.redis.addr", DefaultRedisAddr)
	v.SetDefault("storage.redis.prefix", DefaultRedisPrefix)
	v.SetDefault("server.addr", DefaultServerAddr)
}

// Load reads the configuration from v, applying defaults and validating the result.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("storage.driver"),
			Path:        ExpandPath(v.GetString("storage.path")),
			RedisAddr:   v.GetString("storage.redis.addr"),
			RedisPrefix: v.GetString("storage.redis.prefix"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("%w: storage.redis.addr", common.ErrMissingConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", common.ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr", common.ErrMissingConfig)
	}
	return nil
}
