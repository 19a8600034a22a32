package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const envPrefix = "MEDREMINDER"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func (c ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
}

type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoConfig struct {
	URI          string `mapstructure:"uri"`
	Name         string `mapstructure:"name"`
	Transactions bool   `mapstructure:"transactions"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type SecurityConfig struct {
	BcryptCost     int      `mapstructure:"bcrypt_cost"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Window        time.Duration `mapstructure:"window"`
	Requests      int           `mapstructure:"requests"`
	AuthRequests  int           `mapstructure:"auth_requests"`
	CleanupPeriod time.Duration `mapstructure:"cleanup_period"`
}

type RedisConfig struct {
	URL        string `mapstructure:"url"`
	Channel    string `mapstructure:"channel"`
	MaxRetries int    `mapstructure:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size"`
}

type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
	Timezone string `mapstructure:"timezone"`
	Workers  int    `mapstructure:"workers"`
}

// Location resolves Timezone; Validate has already rejected unknown names.
func (c ReminderConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5002)
	v.SetDefault("server.timeout_seconds", 30)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.postgres.dsn", "")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.name", "medreminder")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 25)
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.name", "medreminder")
	v.SetDefault("database.mongo.transactions", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "medreminder-api")
	v.SetDefault("jwt.expiry_hours", 1)

	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("security.allowed_origins", []string{"*"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.auth_requests", 5)
	v.SetDefault("rate_limit.cleanup_period", 30*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel", "medication-reminders")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.schedule", "0 9 * * *")
	v.SetDefault("reminder.timezone", "UTC")
	v.SetDefault("reminder.workers", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads .env, then config.yaml from . or ./config if present, then
// MEDREMINDER_* environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("config: jwt.expiry_hours must be positive")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	if _, err := cron.ParseStandard(c.Reminder.Schedule); err != nil {
		return fmt.Errorf("config: invalid reminder.schedule: %w", err)
	}
	if _, err := time.LoadLocation(c.Reminder.Timezone); err != nil {
		return fmt.Errorf("config: invalid reminder.timezone: %w", err)
	}
	if c.Reminder.Workers < 1 {
		return errors.New("config: reminder.workers must be at least 1")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.AuthRequests < 1 || c.RateLimit.Window <= 0) {
		return errors.New("config: rate_limit needs positive requests and window")
	}
	return nil
}
