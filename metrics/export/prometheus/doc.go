// Package prometheus renders goGate metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goGate.Engine] and exposes an
// [http.Handler]. Counter names are prefixed gogate_*_total; the single
// histogram is gogate_gate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount
//     the Handler.
//   - Mutate engine state.
package prometheus
