package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	CORS     CORSConfig
	Mail     MailConfig
	Jobs     JobsConfig
}

// AppConfig holds server configuration
type AppConfig struct {
	Name      string
	Port      string
	URL       string
	Env       string
	Timezone  string
	LogLevel  string
	ClientURL string
	BodyLimit int64
}

// Location resolves the configured timezone, falling back to UTC
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the app runs in production mode
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds cache configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// JWTConfig holds bearer token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// SessionConfig holds the session cache policy
type SessionConfig struct {
	// InvalidateOnMutation drops the cached snapshot whenever the user record changes.
	InvalidateOnMutation bool
}

// CORSConfig holds cross-origin policy
type CORSConfig struct {
	AllowedHosts     []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// MailConfig holds outbound mail configuration
type MailConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	// VerifyTokenSweepInterval of zero disables the sweeper.
	VerifyTokenSweepInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		App: AppConfig{
			Name:      getEnv("APP_NAME", "Account API"),
			Port:      getEnv("APP_PORT", "3000"),
			URL:       getEnv("APP_URL", "http://localhost:3000"),
			Env:       getEnv("APP_ENV", "development"),
			Timezone:  getEnv("APP_TIMEZONE", "UTC"),
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
			BodyLimit: int64(getEnvAsInt("BODY_LIMIT", 1<<20)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "account_api"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("REDIS_TTL", 3600)) * time.Second,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "supersecret"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Session: SessionConfig{
			InvalidateOnMutation: getEnvAsBool("SESSION_INVALIDATE_ON_MUTATION", true),
		},
		CORS: CORSConfig{
			AllowedHosts:     getEnvAsSlice("ALLOWED_HOST", []string{"http://localhost:3000", "https://example.com"}),
			AllowedMethods:   getEnvAsSlice("ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE"}),
			AllowedHeaders:   getEnvAsSlice("ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"}),
			ExposedHeaders:   getEnvAsSlice("EXPOSED_HEADERS", []string{"Content-Length", "X-Request-ID"}),
			AllowCredentials: getEnvAsBool("ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("MAX_AGE", 86400),
		},
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", ""),
			Port:     getEnvAsInt("MAIL_PORT", 587),
			Secure:   getEnvAsBool("MAIL_SECURE", false),
			Username: getEnv("MAIL_USERNAME", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@localhost"),
			FromName: getEnv("MAIL_FROM_NAME", "No Reply"),
			Timeout:  getEnvAsDuration("MAIL_TIMEOUT", 30*time.Second),
		},
		Jobs: JobsConfig{
			VerifyTokenSweepInterval: getEnvAsDuration("VERIFY_TOKEN_SWEEP_INTERVAL", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
