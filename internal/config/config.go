package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AdminToken string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Mail MailConfig
	OTP  OTPConfig
}

// MailConfig configures the notification delivery subsystem.
type MailConfig struct {
	Provider    string
	APIKey      string
	From        string
	MaxRetries  int
	RetryDelays []time.Duration
}

// OTPConfig configures one-time password issuance.
type OTPConfig struct {
	ExpiryMinutes  int
	RequestsPerMin float64
	RequestBurst   int
}

const (
	ProviderResend = "resend"
	ProviderNoop   = "noop"

	defaultFrom = "ForgeHack <no-reply@forgehack.dev>"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "forgehack"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		AdminToken: strings.TrimSpace(getenv("ADMIN_TOKEN", "")),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "forgehack"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Mail: MailConfig{
			Provider:    normalizeProvider(getenv("MAIL_PROVIDER", ProviderNoop)),
			APIKey:      strings.TrimSpace(getenv("MAIL_API_KEY", "")),
			From:        getenv("MAIL_FROM", defaultFrom),
			MaxRetries:  getenvInt("MAIL_MAX_RETRIES", 2),
			RetryDelays: getenvDurations("MAIL_RETRY_DELAYS", []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}),
		},
		OTP: OTPConfig{
			ExpiryMinutes:  getenvInt("OTP_EXPIRY_MINUTES", 10),
			RequestsPerMin: getenvFloat("OTP_REQUESTS_PER_MINUTE", 3),
			RequestBurst:   getenvInt("OTP_REQUEST_BURST", 3),
		},
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderResend:
		return ProviderResend
	default:
		return ProviderNoop
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDurations parses a comma-separated duration list, e.g. "500ms,1500ms".
// A malformed entry invalidates the whole list and the default is used instead.
func getenvDurations(key string, def []time.Duration) []time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parts := strings.Split(value, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.ParseDuration(p)
		if err != nil || d < 0 {
			return def
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
