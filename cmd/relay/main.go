package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/messaging"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/outbox"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/repository"
	"github.com/AchilleasB/school-portal/portal-service/internal/config"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

func main() {
	cfg := config.LoadRelayConfig()
	logger.Init(cfg.Log.Level, cfg.Log.Dir)
	logger.LogInfo("starting audit relay service")

	client, db, err := repository.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.LogError("relay: failed to connect to mongodb", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.AuditQueueName)
	if err != nil {
		logger.LogError("relay: failed to connect to rabbitmq", err)
		os.Exit(1)
	}
	defer broker.Close()
	logger.LogInfo("relay: connected to rabbitmq", "queue", cfg.AuditQueueName)

	auditLog := repository.NewAuditRepository(db, config.BreakerRelayMongo)
	worker := outbox.NewRelay(auditLog, broker, auditLog.Breaker(), cfg.PollInterval)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", probe("outbox-relay", worker.IsHealthy))
	healthMux.HandleFunc("/health/live", probe("outbox-relay", worker.IsHealthy))
	healthMux.HandleFunc("/health/ready", probe("outbox-relay", worker.IsReady))

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.LogInfo("relay: starting health check server", "port", cfg.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("relay: health server error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.LogInfo("relay: received signal, initiating shutdown", "signal", sig.String())
	case err := <-errChan:
		logger.LogError("relay: fatal error, shutting down", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.LogError("relay: error shutting down health server", err)
	}
	logger.LogInfo("relay: shutdown complete")
}

func probe(component string, ok func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !ok() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": component,
		})
	}
}
