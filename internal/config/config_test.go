package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("BASE_URL", "https://portal.example.org/")

	cfg := Load()

	assert.Equal(t, "school", cfg.MongoDatabase)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "school_session", cfg.SessionCookie)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://portal.example.org", cfg.BaseURL)
	assert.True(t, cfg.SecureCookies())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.SecureCookies())
}

func TestLoad_MissingRequiredPanics(t *testing.T) {
	// Setenv first so the variables are restored after the test.
	t.Setenv("MONGO_URI", "unused")
	t.Setenv("SECRET_KEY", "unused")
	require.NoError(t, os.Unsetenv("MONGO_URI"))
	require.NoError(t, os.Unsetenv("SECRET_KEY"))
	assert.Panics(t, func() { Load() })
}

func TestLoadRelayConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg := LoadRelayConfig()

	assert.Equal(t, "audit_events", cfg.AuditQueueName)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.Equal(t, "8090", cfg.HealthPort)
}

func TestCircuitBreaker_NotFoundDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(BreakerMongo)

	for range breakerTripThreshold + 1 {
		_, err := cb.Execute(func() (any, error) { return nil, domain.ErrNotFound })
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	for range breakerTripThreshold {
		_, _ = cb.Execute(func() (any, error) { return nil, errors.New("connection refused") })
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
