package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by KV_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Client id schemes accepted by CLIENT_ID_SCHEME.
const (
	ClientIDSchemePreRegistered = "pre-registered"
	ClientIDSchemeX509SanDNS    = "x509_san_dns"
	ClientIDSchemeX509SanURI    = "x509_san_uri"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	CORSOrigins []string

	Verifier Verifier
	Store    Store
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig

	CleanupInterval time.Duration
}

// Verifier holds the identity and protocol defaults of this verifier.
type Verifier struct {
	PublicURL                  string
	ClientID                   string
	ClientIDScheme             string
	SigningKeyJWK              string
	ResponseMode               string
	JARMode                    string
	PresentationDefinitionMode string
	RequestObjectMaxAge        time.Duration
}

// Validate rejects a client id scheme the verifier cannot honour.
func (v Verifier) Validate() error {
	switch v.ClientIDScheme {
	case ClientIDSchemePreRegistered:
		return nil
	case ClientIDSchemeX509SanDNS, ClientIDSchemeX509SanURI:
		if v.SigningKeyJWK == "" {
			return fmt.Errorf("CLIENT_ID_SCHEME %s requires JAR_SIGNING_PRIVATE_JWK with an x5c certificate chain", v.ClientIDScheme)
		}
		return nil
	default:
		return fmt.Errorf("unsupported CLIENT_ID_SCHEME %q", v.ClientIDScheme)
	}
}

// RequiresCertificateChain reports whether the scheme binds the client id to
// the signing key's certificate.
func (v Verifier) RequiresCertificateChain() bool {
	return v.ClientIDScheme == ClientIDSchemeX509SanDNS || v.ClientIDScheme == ClientIDSchemeX509SanURI
}

// Store selects and tunes the presentation store.
type Store struct {
	Backend string
	TTL     time.Duration
}

// RedisConfig configures the Redis client behind the redis backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the PostgreSQL pool behind the postgres backend.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig enables presentation events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := getEnv("VERIFIER_ADDR", ":8080")
	publicURL := getEnv("PUBLIC_URL", "http://localhost"+addr)

	return Server{
		Addr:        addr,
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGIN", "*")),
		Verifier: Verifier{
			PublicURL:                  publicURL,
			ClientID:                   getEnv("CLIENT_ID", "verifier"),
			ClientIDScheme:             strings.ToLower(getEnv("CLIENT_ID_SCHEME", ClientIDSchemePreRegistered)),
			SigningKeyJWK:              os.Getenv("JAR_SIGNING_PRIVATE_JWK"),
			ResponseMode:               getEnv("RESPONSE_MODE", "direct_post.jwt"),
			JARMode:                    getEnv("JAR_MODE", "by_reference"),
			PresentationDefinitionMode: getEnv("PRESENTATION_DEFINITION_MODE", "by_value"),
			RequestObjectMaxAge:        getDuration("REQUEST_OBJECT_MAX_AGE", 5*time.Minute),
		},
		Store: Store{
			Backend: strings.ToLower(getEnv("KV_BACKEND", BackendMemory)),
			TTL:     getDuration("PRESENTATION_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_PRESENTATION_TOPIC", "verifier.presentations"),
		},
		CleanupInterval: getDuration("CLEANUP_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration falls back on unparsable or non-positive values.
func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
