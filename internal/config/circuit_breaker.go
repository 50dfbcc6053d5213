package config

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

// Breaker names shared by the adapters.
const (
	BreakerMongo         = "MongoDB"
	BreakerRedis         = "Redis-Auth"
	BreakerRabbitMQ      = "RabbitMQ-Publisher"
	BreakerRelayMongo    = "Relay-MongoDB"
	breakerTripThreshold = 3
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Align with the 5s health check timeout for the session store.
	switch name {
	case BreakerRedis:
		timeout = 5 * time.Second
	case BreakerMongo, BreakerRelayMongo:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripThreshold
		},
		// A lookup that matches nothing is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.LogWarn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
