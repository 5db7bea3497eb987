package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Reservation ReservationConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	RateLimit   RateLimitConfig
	Telemetry   TelemetryConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConns       int32
	LockTimeout    time.Duration
	AutoMigrate    bool
	MigrationsPath string
}

// DSN returns a postgres:// URL, the form golang-migrate expects.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type ReservationConfig struct {
	MaxSeatsPerBooking int
	CodeMaxAttempts    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL             string
	Exchange        string
	ConsumerEnabled bool
	ConsumerQueue   string
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

type TelemetryConfig struct {
	CollectorURL string
	ServiceName  string
	Environment  string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinema-reservation")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_LOCK_TIMEOUT", "5s")
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("DB_MIGRATIONS_PATH", "file://migrations")

	viper.SetDefault("JWT_EXPIRY_HOURS", 24)

	viper.SetDefault("MAX_SEATS_PER_BOOKING", 10)
	viper.SetDefault("CONFIRMATION_CODE_MAX_ATTEMPTS", 10)

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AVAILABILITY_CACHE_TTL", "30s")

	viper.SetDefault("RABBITMQ_EXCHANGE", "reservations")
	viper.SetDefault("RABBITMQ_CONSUMER_ENABLED", false)
	viper.SetDefault("RABBITMQ_CONSUMER_QUEUE", "reservation.notifications")

	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_CAPACITY", 5)
	viper.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	viper.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "2s")
	viper.SetDefault("RATE_LIMIT_TTL", "10m")
	viper.SetDefault("RATE_LIMIT_PREFIX", "rl")

	viper.SetDefault("OTEL_SERVICE_NAME", "cinema-reservation")
	viper.SetDefault("APP_ENV", "development")

	// .env is optional, plain environment variables are enough in containers
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASS"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			MaxConns:       viper.GetInt32("DB_MAX_CONNS"),
			LockTimeout:    viper.GetDuration("DB_LOCK_TIMEOUT"),
			AutoMigrate:    viper.GetBool("DB_AUTO_MIGRATE"),
			MigrationsPath: viper.GetString("DB_MIGRATIONS_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Reservation: ReservationConfig{
			MaxSeatsPerBooking: viper.GetInt("MAX_SEATS_PER_BOOKING"),
			CodeMaxAttempts:    viper.GetInt("CONFIRMATION_CODE_MAX_ATTEMPTS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			CacheTTL: viper.GetDuration("AVAILABILITY_CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:             viper.GetString("RABBITMQ_URL"),
			Exchange:        viper.GetString("RABBITMQ_EXCHANGE"),
			ConsumerEnabled: viper.GetBool("RABBITMQ_CONSUMER_ENABLED"),
			ConsumerQueue:   viper.GetString("RABBITMQ_CONSUMER_QUEUE"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        viper.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       viper.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   viper.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: viper.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			TTL:            viper.GetDuration("RATE_LIMIT_TTL"),
			Prefix:         viper.GetString("RATE_LIMIT_PREFIX"),
		},
		Telemetry: TelemetryConfig{
			CollectorURL: viper.GetString("OTEL_COLLECTOR_URL"),
			ServiceName:  viper.GetString("OTEL_SERVICE_NAME"),
			Environment:  viper.GetString("APP_ENV"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.Reservation.MaxSeatsPerBooking < 1 {
		return nil, fmt.Errorf("MAX_SEATS_PER_BOOKING must be positive, got %d", config.Reservation.MaxSeatsPerBooking)
	}
	if config.Reservation.CodeMaxAttempts < 1 {
		return nil, fmt.Errorf("CONFIRMATION_CODE_MAX_ATTEMPTS must be positive, got %d", config.Reservation.CodeMaxAttempts)
	}

	return config, nil
}
