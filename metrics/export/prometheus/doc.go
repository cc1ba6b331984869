// Package prometheus renders goRoles client metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] takes a [goRoles.Client] and exposes an
// [http.Handler]. Counters are named goroles_*_total; the request latency
// histogram is goroles_request_latency_seconds and only appears when
// latency histograms are enabled.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry. Callers mount the Handler.
//   - Mutate client state.
package prometheus
