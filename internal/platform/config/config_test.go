package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"VERIFIER_ADDR", "PUBLIC_URL", "KV_BACKEND", "PRESENTATION_TTL", "KAFKA_BROKERS", "CORS_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.Verifier.PublicURL)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, "direct_post.jwt", cfg.Verifier.ResponseMode)
	assert.Equal(t, "by_reference", cfg.Verifier.JARMode)
	assert.Equal(t, "by_value", cfg.Verifier.PresentationDefinitionMode)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KV_BACKEND", "Redis")
	t.Setenv("PRESENTATION_TTL", "1h")
	t.Setenv("REQUEST_OBJECT_MAX_AGE", "not-a-duration")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REDIS_POOL_SIZE", "-3")

	cfg := FromEnv()
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Verifier.RequestObjectMaxAge, "unparsable values fall back")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestVerifierValidateClientIDScheme(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Verifier
		wantErr string
	}{
		{name: "pre-registered", cfg: Verifier{ClientIDScheme: ClientIDSchemePreRegistered}},
		{name: "x509 with key", cfg: Verifier{ClientIDScheme: ClientIDSchemeX509SanDNS, SigningKeyJWK: `{"kty":"EC"}`}},
		{name: "x509 without key", cfg: Verifier{ClientIDScheme: ClientIDSchemeX509SanURI}, wantErr: "x5c certificate chain"},
		{name: "unknown scheme", cfg: Verifier{ClientIDScheme: "did"}, wantErr: `unsupported CLIENT_ID_SCHEME "did"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.True(t, Verifier{ClientIDScheme: ClientIDSchemeX509SanDNS}.RequiresCertificateChain())
	assert.False(t, Verifier{ClientIDScheme: ClientIDSchemePreRegistered}.RequiresCertificateChain())
}

func TestFromEnvClientIDScheme(t *testing.T) {
	t.Setenv("CLIENT_ID_SCHEME", "X509_SAN_DNS")
	assert.Equal(t, ClientIDSchemeX509SanDNS, FromEnv().Verifier.ClientIDScheme)
}
