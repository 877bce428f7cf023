// Package internaldefs holds the metric name and bucket definitions
// shared by the exporter implementations, so the Prometheus and OTel
// exporters can never disagree on a metric name or boundary.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
