package cosatka

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

// Environment variables that override secrets from the config file.
const (
	EnvBotToken   = "COSATKA_BOT_TOKEN"
	EnvDBPassword = "COSATKA_DB_PASSWORD"
	EnvDBDSN      = "COSATKA_DB_DSN"
	EnvRedisURL   = "COSATKA_REDIS_URL"
)

// LoadConfig decodes the TOML file at path, then applies environment
// overrides. A .env file next to the process is loaded first if present.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyEnv(os.LookupEnv)

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo, Format: "color"},
		DB: DBConfig{
			Driver:   DriverMemory,
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Economy: EconomyConfig{
			CacheSize:   1024,
			MaxAttempts: 5,
			TopLimit:    10,
		},
	}
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Bot     BotConfig     `toml:"bot"`
	DB      DBConfig      `toml:"db"`
	HTTP    HTTPConfig    `toml:"http"`
	Economy EconomyConfig `toml:"economy"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
	// DSN overrides the host fields for postgres and names the file for sqlite.
	DSN      string `toml:"dsn"`
	RedisURL string `toml:"redis_url"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

type EconomyConfig struct {
	CatalogFile string `toml:"catalog_file"`
	// CacheSize of 0 disables the record cache.
	CacheSize   int `toml:"cache_size"`
	MaxAttempts int `toml:"max_attempts"`
	TopLimit    int `toml:"top_limit"`
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBotToken); ok && v != "" {
		c.Bot.Token = v
	}
	if v, ok := lookup(EnvDBPassword); ok && v != "" {
		c.DB.Password = v
	}
	if v, ok := lookup(EnvDBDSN); ok && v != "" {
		c.DB.DSN = v
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.DB.RedisURL = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	case DriverSQLite:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("db.dsn is required for sqlite"))
		}
	case DriverRedis:
		if c.DB.RedisURL == "" {
			errs = append(errs, errors.New("db.redis_url is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db.driver %q", c.DB.Driver))
	}
	if c.Economy.CacheSize < 0 {
		errs = append(errs, errors.New("economy.cache_size must not be negative"))
	}
	if c.Economy.MaxAttempts <= 0 {
		errs = append(errs, errors.New("economy.max_attempts must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
