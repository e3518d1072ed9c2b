package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"crm/internal/pkg/validator"
)

const (
	defaultAppEnv          = "dev"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultDBHost          = "localhost"
	defaultDBPort          = "5432"
	defaultDBUser          = "postgres"
	defaultDBName          = "crm_db"
	defaultDBSSLMode       = "disable"
	defaultMaxOpenConns    = "10"
	defaultMaxIdleConns    = "5"
	defaultConnMaxLifetime = "30m"
	defaultCacheTTL        = "5m"
	defaultKafkaTopic      = "crm_events"
	defaultShutdownTimeout = "10s"
	defaultAllowedOrigins  = "*"
)

// Config is the full runtime configuration of the API and the seed command.
type Config struct {
	AppEnv          string        `validate:"required"`
	Port            string        `validate:"required,numeric"`
	LogLevel        string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat       string        `validate:"oneof=text json"`
	AllowedOrigins  []string      `validate:"min=1,dive,required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	SentryDSN       string

	DB    DBConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

// DBConfig describes the relational store. URL wins over the discrete fields.
type DBConfig struct {
	URL             string
	Host            string `validate:"required_without=URL"`
	Port            string `validate:"required_without=URL"`
	User            string `validate:"required_without=URL"`
	Password        string
	Name            string `validate:"required_without=URL"`
	SSLMode         string
	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

// RedisConfig enables the lead cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int           `validate:"gte=0"`
	TTL      time.Duration `validate:"gt=0"`
}

// KafkaConfig enables domain event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string `validate:"required"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to read .env file")
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins))
	cfg.SentryDSN = strings.TrimSpace(os.Getenv("SENTRY_DSN"))

	var err error
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	cfg.DB = DBConfig{
		URL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Host:     strings.TrimSpace(getEnv("DB_HOST", defaultDBHost)),
		Port:     strings.TrimSpace(getEnv("DB_PORT", defaultDBPort)),
		User:     strings.TrimSpace(getEnv("DB_USER", defaultDBUser)),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     strings.TrimSpace(getEnv("DB_NAME", defaultDBName)),
		SSLMode:  strings.TrimSpace(getEnv("DB_SSLMODE", defaultDBSSLMode)),
	}
	if cfg.DB.MaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.DB.MaxIdleConns, err = parseIntEnv("DB_MAX_IDLE_CONNS", defaultMaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.DB.ConnMaxLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", defaultConnMaxLifetime); err != nil {
		return nil, err
	}

	cfg.Redis = RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if cfg.Redis.DB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.Redis.TTL, err = parseDurationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}

	cfg.Kafka = KafkaConfig{
		Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
		Topic:   strings.TrimSpace(getEnv("KAFKA_TOPIC", defaultKafkaTopic)),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether APP_ENV names a production-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL built from DB_*.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

func validateConfig(cfg *Config) error {
	if errs := validator.Validate(cfg); errs != nil {
		fields := make([]string, 0, len(errs))
		for field, tag := range errs {
			fields = append(fields, fmt.Sprintf("%s (%s)", field, tag))
		}
		sort.Strings(fields)
		return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
	}
	if cfg.DB.MaxIdleConns > cfg.DB.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be <= DB_MAX_OPEN_CONNS")
	}
	if isProdLike(cfg.AppEnv) && cfg.DB.URL == "" && cfg.DB.Password == "" {
		return fmt.Errorf("in prod/release DB_PASSWORD or DATABASE_URL must be set")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
