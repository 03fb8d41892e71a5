package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file - ignore error if file doesn't exist
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found or could not be loaded: %v\n", err)
	}
}

type Config struct {
	Primary       PrimaryConfig
	Database      DatabaseConfig
	Server        ServerConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Auth          AuthConfig
	Pontos        PontosConfig
	Isbn          IsbnConfig
	Observability *ObservabilityConfig
}

type PrimaryConfig struct {
	Env string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	IdleTimeout        int
	CORSAllowedOrigins []string
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
	KeyPrefix    string
}

type KafkaConfig struct {
	Brokers []string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// PontosConfig is the single server-side source of the loyalty policy.
// ValorPonto is the currency value of one point in centimos; DescontoMaximo
// caps the discount as a percentage of the offer value; RacioGanho is the
// points earned per euro of a concluded sale.
type PontosConfig struct {
	ValorPonto     int64
	DescontoMaximo int64
	RacioGanho     int64
}

type IsbnConfig struct {
	BaseURL string
	Enabled bool
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	Logging      LoggingConfig
	NewRelic     NewRelicConfig
	HealthChecks HealthChecksConfig
}

type LoggingConfig struct {
	Level              string
	Format             string
	SlowQueryThreshold time.Duration
}

type NewRelicConfig struct {
	LicenseKey                string
	AppLogForwardingEnabled   bool
	DistributedTracingEnabled bool
	DebugLogging              bool
}

type HealthChecksConfig struct {
	Enabled  bool
	Interval time.Duration
	Timeout  time.Duration
	Checks   []string
}

// Helper functions for parsing env vars
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}

func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level == "" {
		switch c.Environment {
		case "production":
			return "info"
		case "development":
			return "debug"
		default:
			return "info"
		}
	}
	return c.Logging.Level
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Primary: PrimaryConfig{
			Env: getEnv("BOOKFLAZ_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("BOOKFLAZ_DB_HOST", "localhost"),
			Port:            getEnvInt("BOOKFLAZ_DB_PORT", 5432),
			User:            getEnv("BOOKFLAZ_DB_USER", "bookflaz"),
			Password:        getEnv("BOOKFLAZ_DB_PASSWORD", ""),
			Name:            getEnv("BOOKFLAZ_DB_NAME", "bookflaz"),
			SSLMode:         getEnv("BOOKFLAZ_DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("BOOKFLAZ_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("BOOKFLAZ_DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvInt("BOOKFLAZ_DB_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("BOOKFLAZ_DB_CONN_MAX_IDLE_TIME", 60),
		},
		Server: ServerConfig{
			Port:               getEnv("BOOKFLAZ_SERVER_PORT", "8080"),
			ReadTimeout:        getEnvInt("BOOKFLAZ_SERVER_READ_TIMEOUT", 30),
			WriteTimeout:       getEnvInt("BOOKFLAZ_SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:        getEnvInt("BOOKFLAZ_SERVER_IDLE_TIMEOUT", 60),
			CORSAllowedOrigins: getEnvSlice("BOOKFLAZ_SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Redis: RedisConfig{
			Address:      getEnv("BOOKFLAZ_REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnv("BOOKFLAZ_REDIS_PASSWORD", ""),
			DB:           getEnvInt("BOOKFLAZ_REDIS_DB", 0),
			PoolSize:     getEnvInt("BOOKFLAZ_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("BOOKFLAZ_REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvDuration("BOOKFLAZ_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("BOOKFLAZ_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("BOOKFLAZ_REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      getEnvDuration("BOOKFLAZ_REDIS_LOCK_TTL", 30*time.Second),
			KeyPrefix:    getEnv("BOOKFLAZ_REDIS_KEY_PREFIX", "bookflaz:"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("BOOKFLAZ_KAFKA_BROKERS", []string{"localhost:9092"}),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("BOOKFLAZ_JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("BOOKFLAZ_JWT_TTL", 24*time.Hour),
		},
		Pontos: PontosConfig{
			ValorPonto:     getEnvInt64("BOOKFLAZ_PONTOS_VALOR_PONTO", 5),
			DescontoMaximo: getEnvInt64("BOOKFLAZ_PONTOS_DESCONTO_MAXIMO", 50),
			RacioGanho:     getEnvInt64("BOOKFLAZ_PONTOS_RACIO_GANHO", 1),
		},
		Isbn: IsbnConfig{
			BaseURL: getEnv("BOOKFLAZ_ISBN_BASE_URL", "https://openlibrary.org"),
			Enabled: getEnvBool("BOOKFLAZ_ISBN_ENABLED", true),
		},
		Observability: &ObservabilityConfig{
			ServiceName: "BookFlaz",
			Environment: getEnv("BOOKFLAZ_ENV", "development"),
			Logging: LoggingConfig{
				Level:              getEnv("BOOKFLAZ_LOG_LEVEL", "debug"),
				Format:             getEnv("BOOKFLAZ_LOG_FORMAT", "console"),
				SlowQueryThreshold: getEnvDuration("BOOKFLAZ_LOG_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			},
			NewRelic: NewRelicConfig{
				LicenseKey:                getEnv("BOOKFLAZ_NEWRELIC_LICENSE_KEY", ""),
				AppLogForwardingEnabled:   getEnvBool("BOOKFLAZ_NEWRELIC_LOG_FORWARDING", true),
				DistributedTracingEnabled: getEnvBool("BOOKFLAZ_NEWRELIC_DISTRIBUTED_TRACING", true),
				DebugLogging:              getEnvBool("BOOKFLAZ_NEWRELIC_DEBUG", false),
			},
			HealthChecks: HealthChecksConfig{
				Enabled:  getEnvBool("BOOKFLAZ_HEALTHCHECK_ENABLED", true),
				Interval: getEnvDuration("BOOKFLAZ_HEALTHCHECK_INTERVAL", 30*time.Second),
				Timeout:  getEnvDuration("BOOKFLAZ_HEALTHCHECK_TIMEOUT", 5*time.Second),
				Checks:   getEnvSlice("BOOKFLAZ_HEALTHCHECK_CHECKS", []string{"database", "redis"}),
			},
		},
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("BOOKFLAZ_DB_HOST is required")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("BOOKFLAZ_DB_NAME is required")
	}
	if cfg.Pontos.ValorPonto <= 0 {
		return nil, fmt.Errorf("BOOKFLAZ_PONTOS_VALOR_PONTO must be positive")
	}
	if cfg.Pontos.DescontoMaximo < 0 || cfg.Pontos.DescontoMaximo > 100 {
		return nil, fmt.Errorf("BOOKFLAZ_PONTOS_DESCONTO_MAXIMO must be between 0 and 100")
	}

	return cfg, nil
}
