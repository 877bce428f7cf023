package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID names one engine counter. IDs are dense and index directly
// into the counter array.
type MetricID uint16

const (
	// MetricSignInSuccess counts issued sessions.
	MetricSignInSuccess MetricID = iota
	// MetricSignInRejected counts collapsed credential rejections.
	MetricSignInRejected
	// MetricSignInRateLimited counts throttled sign-in attempts.
	MetricSignInRateLimited
	// MetricLookupFailure counts principal store faults.
	MetricLookupFailure
	// MetricGateAllow counts requests passed through with a valid session.
	MetricGateAllow
	// MetricGateRedirect counts requests bounced to the sign-in path.
	MetricGateRedirect
	// MetricGateExempt counts requests matched by an exemption rule.
	MetricGateExempt
	// MetricTokenInvalid counts session tokens that failed verification.
	MetricTokenInvalid
	// MetricGateLatency is the gate decision latency histogram.
	MetricGateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps each counter on its own cache line so hot
// increments from different cores do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed-size atomic counter set. All methods are safe for
// concurrent use and nil-safe.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to a counter. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records one gate decision latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricGateLatency {
		return
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram. The copy is not
// atomic across counters; individual reads are.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricGateLatency].buckets[i])
		}
		s.Histograms[MetricGateLatency] = buckets
	}

	return s
}

// bucketIndex maps a latency to one of eight fixed buckets. Gate
// decisions are in-memory, so the scale is microseconds-to-milliseconds
// rather than the usual request scale.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 5:
		return 0
	case us <= 10:
		return 1
	case us <= 25:
		return 2
	case us <= 100:
		return 3
	case us <= 500:
		return 4
	case us <= 2_000:
		return 5
	case us <= 10_000:
		return 6
	default:
		return 7
	}
}
