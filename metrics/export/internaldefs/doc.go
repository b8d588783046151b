// Package internaldefs exposes stable metric name and bucket definitions
// shared by exporter implementations.
//
// Counter and histogram definitions live here so that the Prometheus and
// OTel exporters emit identical metric names and bucket boundaries. A change
// in this package affects all exporters simultaneously.
//
// # What this package must NOT do
//
//   - Import authcore exporter packages.
//   - Perform I/O.
package internaldefs
