package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/metrics"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

const (
	// Event processing timeouts
	batchProcessTimeout = 60 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// Relay polls the audit log for entries that have not been published yet,
// publishes them to the broker and stamps them as published.
type Relay struct {
	outbox    ports.AuditRepository
	publisher ports.AuditEventPublisher
	dbCB      *gobreaker.CircuitBreaker
	interval  time.Duration
	now       func() time.Time

	mu            sync.RWMutex
	lastProcessed time.Time
	isHealthy     bool
}

// NewRelay creates a relay. dbCB is the breaker guarding outbox reads and is
// only consulted for readiness; it may be nil.
func NewRelay(outbox ports.AuditRepository, publisher ports.AuditEventPublisher, dbCB *gobreaker.CircuitBreaker, interval time.Duration) *Relay {
	return &Relay{
		outbox:        outbox,
		publisher:     publisher,
		dbCB:          dbCB,
		interval:      interval,
		now:           time.Now,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the relay loop is alive (liveness).
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isHealthy
}

// IsReady reports whether the relay can make progress (readiness).
func (r *Relay) IsReady() bool {
	if r.dbCB != nil && r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

// Start drains the backlog, then polls every interval until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	logger.LogInfo("outbox relay: polling audit log", "interval", r.interval.String())

	if _, err := r.ProcessBatch(ctx); err != nil {
		logger.LogError("outbox relay: error processing startup backlog", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.LogInfo("outbox relay: shutting down")
			return ctx.Err()
		case <-ticker.C:
			// Keep draining while full batches come back.
			for {
				n, err := r.ProcessBatch(ctx)
				if err != nil {
					logger.LogError("outbox relay: error in periodic processing", err)
					break
				}
				if n < maxEventsPerBatch {
					break
				}
			}
		}
	}
}

// ProcessBatch publishes up to one batch of unpublished entries and returns
// how many were marked published. An entry that fails to publish stays
// unpublished with its attempt counter raised, so it is retried after
// entries that have failed fewer times.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	entries, err := r.outbox.Unpublished(ctx, maxEventsPerBatch)
	if err != nil {
		r.setHealthy(false)
		return 0, err
	}

	published := 0
	for _, entry := range entries {
		if err := r.publisher.PublishAuditEvent(ctx, ports.NewAuditEvent(entry)); err != nil {
			metrics.RelayFailed()
			logger.LogError("outbox relay: failed to publish audit entry", err, "id", entry.ID, "attempts", entry.PublishAttempts+1)
			if err := r.outbox.MarkFailed(ctx, entry.ID); err != nil {
				logger.LogError("outbox relay: failed to record publish attempt", err, "id", entry.ID)
			}
			continue
		}
		if err := r.outbox.MarkPublished(ctx, entry.ID, r.now()); err != nil {
			r.setHealthy(false)
			return published, err
		}
		metrics.RelayPublished()
		published++
		logger.LogDebug("outbox relay: published audit entry", "id", entry.ID)
	}

	r.mu.Lock()
	r.lastProcessed = time.Now()
	r.isHealthy = true
	r.mu.Unlock()
	return published, nil
}

func (r *Relay) setHealthy(ok bool) {
	r.mu.Lock()
	r.isHealthy = ok
	r.mu.Unlock()
}
