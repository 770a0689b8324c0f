package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"pokesearch/internal/pokeapi"
	"pokesearch/internal/storage"
	"pokesearch/internal/validation"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Remote API
	GraphQLEndpoint string
	GraphQLTimeout  time.Duration // 0 = no timeout; a hung lookup stays in Loading
	RenderWait      time.Duration // how long a page request waits for a lookup before rendering Loading
	CacheTTL        time.Duration // expiry for shared cached payloads, 0 = never

	// Storage
	StorageDriver string // memory, redis, postgres
	RedisURL      string
	DatabaseURL   string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Limits and jobs
	RateLimit           int           // requests per minute per IP, 0 disables
	HealthCheckInterval time.Duration // upstream probe interval, 0 disables
	PurgeInterval       time.Duration // expired entry cleanup interval, 0 disables

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Pokemon Search"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER

	// Loaded from CONFIG_FILE, may be nil
	YAML *YAMLConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		GraphQLEndpoint: getEnv("GRAPHQL_ENDPOINT", pokeapi.DefaultEndpoint),
		GraphQLTimeout:  getDuration("GRAPHQL_TIMEOUT", 0),
		RenderWait:      getDuration("RENDER_WAIT", 2*time.Second),
		CacheTTL:        getDuration("CACHE_TTL", 0),

		StorageDriver: getEnv("STORAGE_DRIVER", storage.DriverMemory),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/pokesearch?sslmode=disable"),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		RateLimit:           getInt("RATE_LIMIT", 100),
		HealthCheckInterval: getDuration("HEALTH_CHECK_INTERVAL", 5*time.Minute),
		PurgeInterval:       getDuration("PURGE_INTERVAL", time.Hour),

		SiteTitle:   getEnv("SITE_TITLE", "Pokemon Search"),
		SiteTagline: getEnv("SITE_TAGLINE", "Search by name. URL and result stay in sync."),
		SiteFooter:  getEnv("SITE_FOOTER", "Data from the public Pokemon GraphQL API"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %v", key, value, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, value, fallback)
		return fallback
	}
	return n
}

// Validate reports configuration that would keep the server from working.
func (c *Config) Validate() error {
	var errs []error

	if valid, msg := validation.ValidateURL(c.GraphQLEndpoint); !valid {
		errs = append(errs, fmt.Errorf("GRAPHQL_ENDPOINT: %s", msg))
	}

	switch c.StorageDriver {
	case storage.DriverMemory, storage.DriverRedis, storage.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unsupported driver %q", c.StorageDriver))
	}

	if c.RenderWait < 0 {
		errs = append(errs, errors.New("RENDER_WAIT must not be negative"))
	}

	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS_ENABLED is set"))
	}

	return errors.Join(errs...)
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}
