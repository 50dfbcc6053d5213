package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

// invalidRole labels login attempts whose role is not one of domain.Roles.
const invalidRole = "invalid"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_login_attempts_total",
		Help: "Login attempts by selected role and outcome.",
	}, []string{"role", "outcome"})

	guardDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_role_guard_denials_total",
		Help: "Requests rejected by the role guard, by required role.",
	}, []string{"required_role"})

	relayPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_audit_relay_published_total",
		Help: "Audit entries published to the message broker.",
	})

	relayFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_audit_relay_failed_total",
		Help: "Audit entries the relay failed to publish.",
	})
)

func Handler() http.Handler { return promhttp.Handler() }

// LoginAttempt counts a login. The role comes from the client, so anything
// outside the known roles shares one label value.
func LoginAttempt(role domain.Role, success bool) {
	label := invalidRole
	if role.Valid() {
		label = string(role)
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	loginAttempts.WithLabelValues(label, outcome).Inc()
}

func GuardDenied(role string) { guardDenials.WithLabelValues(role).Inc() }

func RelayPublished() { relayPublished.Inc() }

func RelayFailed() { relayFailed.Inc() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency. Routes are labelled by the
// matched ServeMux pattern to keep label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
