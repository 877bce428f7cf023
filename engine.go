package goGate

import (
	"time"

	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/jwt"
	"github.com/MrEthical07/goGate/route"
)

// Engine is the built gate. It is immutable after [Builder.Build] and
// safe for concurrent use. The limiter is nil when no Redis client was
// provided; every other field is always set.
type Engine struct {
	config   Config
	matcher  *route.Matcher
	tokens   *jwt.Manager
	limiter  *rate.Limiter
	provider PrincipalProvider
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher. Idempotent.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were shed because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine's counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// SignInPath returns the configured redirect target for unauthenticated
// requests.
func (e *Engine) SignInPath() string {
	if e == nil {
		return ""
	}
	return e.config.Routes.SignInPath
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}
