package internaldefs

import (
	goGate "github.com/MrEthical07/goGate"
)

// CounterDef binds an engine counter to its exported name.
type CounterDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// HistogramDef binds an engine histogram to its exported name.
type HistogramDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goGate.MetricSignInSuccess, Name: "gogate_signin_success_total", Help: "Successful sign-ins."},
	{ID: goGate.MetricSignInRejected, Name: "gogate_signin_rejected_total", Help: "Rejected credential submissions."},
	{ID: goGate.MetricSignInRateLimited, Name: "gogate_signin_rate_limited_total", Help: "Throttled sign-in attempts."},
	{ID: goGate.MetricLookupFailure, Name: "gogate_lookup_failure_total", Help: "Principal store faults."},
	{ID: goGate.MetricGateAllow, Name: "gogate_gate_allow_total", Help: "Requests allowed with a valid session."},
	{ID: goGate.MetricGateRedirect, Name: "gogate_gate_redirect_total", Help: "Requests redirected to the sign-in path."},
	{ID: goGate.MetricGateExempt, Name: "gogate_gate_exempt_total", Help: "Requests matched by an exemption rule."},
	{ID: goGate.MetricTokenInvalid, Name: "gogate_token_invalid_total", Help: "Session tokens that failed verification."},
}

var HistogramDefs = []HistogramDef{
	{ID: goGate.MetricGateLatency, Name: "gogate_gate_latency_seconds", Help: "Gate decision latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// engine's microsecond-scale buckets.
var HistogramBounds = []string{
	"0.000005",
	"0.00001",
	"0.000025",
	"0.0001",
	"0.0005",
	"0.002",
	"0.01",
	"+Inf",
}

// HistogramBoundSuffix are instrument-name-safe forms of HistogramBounds.
var HistogramBoundSuffix = []string{
	"5us",
	"10us",
	"25us",
	"100us",
	"500us",
	"2ms",
	"10ms",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// eight-bucket shape.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
