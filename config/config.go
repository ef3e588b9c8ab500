package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// developmentTokenSecret signs tokens when ACCESS_TOKEN_SECRET is unset outside production.
const developmentTokenSecret = "pet-house-development-secret-do-not-use"

const minProductionSecretLength = 32

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Auth          AuthConfig
	Policy        PolicyConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TLS             struct {
		Enabled  bool
		CertFile string
		KeyFile  string
	}
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres DatabaseConfig
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	TokenSecret string
	Issuer      string
}

// PolicyConfig holds access policy switches
type PolicyConfig struct {
	// RequireAuthOnCreate guards POST on pets, campaigns and adoptions with Authenticate.
	// When false, creation accepts anonymous callers.
	RequireAuthOnCreate bool
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TLS: struct {
				Enabled  bool
				CertFile string
				KeyFile  string
			}{
				Enabled:  getEnvAsBool("TLS_ENABLED", false),
				CertFile: getEnv("TLS_CERT_FILE", "certs/cert.pem"),
				KeyFile:  getEnv("TLS_KEY_FILE", "certs/key.pem"),
			},
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
			Mongo: MongoConfig{
				URI:            loadMongoURI(),
				Database:       getEnv("MONGODB_DATABASE", "pet-house"),
				ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			},
			Postgres: loadDatabaseConfig(),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
			Issuer:      getEnv("TOKEN_ISSUER", ""),
		},
		Policy: PolicyConfig{
			RequireAuthOnCreate: getEnvAsBool("REQUIRE_AUTH_ON_CREATE", false),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Auth.TokenSecret == "" && !cfg.IsProduction() {
		cfg.Auth.TokenSecret = developmentTokenSecret
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("mongo URI is required: set MONGODB_URI or DB_USER/DB_PASS/DB_CLUSTER")
		}
		if c.Store.Mongo.Database == "" {
			return fmt.Errorf("mongo database name is required")
		}
	case StoreDriverPostgres:
		if c.Store.Postgres.ConnectionString == "" && c.Store.Postgres.Host == "" {
			return fmt.Errorf("database configuration required: set DATABASE_URL or PG_HOST")
		}
		if c.Store.Postgres.ConnectionString == "" {
			if c.Store.Postgres.User == "" {
				return fmt.Errorf("database user is required")
			}
			if c.Store.Postgres.Database == "" {
				return fmt.Errorf("database name is required")
			}
		}
	case StoreDriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("memory store is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("access token secret is required: set ACCESS_TOKEN_SECRET")
	}
	if c.IsProduction() && len(c.Auth.TokenSecret) < minProductionSecretLength {
		return fmt.Errorf("access token secret must be at least %d bytes in production", minProductionSecretLength)
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// LogString returns the mongo URI with credentials removed.
func (c *MongoConfig) LogString() string {
	u, err := url.Parse(c.URI)
	if err != nil {
		return "<invalid mongo uri>"
	}
	return fmt.Sprintf("%s://%s/%s", u.Scheme, u.Host, c.Database)
}

// loadMongoURI reads MONGODB_URI, falling back to an Atlas SRV URI built from
// DB_USER, DB_PASS and DB_CLUSTER, then to a local server.
func loadMongoURI() string {
	if uri := getEnv("MONGODB_URI", ""); uri != "" {
		return uri
	}
	user, pass, cluster := getEnv("DB_USER", ""), getEnv("DB_PASS", ""), getEnv("DB_CLUSTER", "")
	if user != "" && cluster != "" {
		return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(user), url.QueryEscape(pass), cluster)
	}
	return "mongodb://localhost:27017"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig loads the Postgres store config from DATABASE_URL or PG_* env vars
func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("PG_HOST", "localhost"),
		Port:            getEnvAsInt("PG_PORT", 5432),
		User:            getEnv("PG_USER", "dev"),
		Password:        getEnv("PG_PASSWORD", ""),
		Database:        getEnv("PG_DATABASE", "pet_house"),
		SSLMode:         getEnv("PG_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 5000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 5000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
