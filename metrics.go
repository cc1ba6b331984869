package goRoles

import (
	internalmetrics "github.com/MrEthical07/goRoles/internal/metrics"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts rejected or failed logins.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricLogout counts local logout sequences.
	MetricLogout = internalmetrics.MetricLogout
	// MetricRevokeFailure counts failed background revocations.
	MetricRevokeFailure = internalmetrics.MetricRevokeFailure
	// MetricRefreshSuccess counts refresh exchanges that produced a new identity.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure counts failed refresh exchanges.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricRefreshScheduled counts timer arms.
	MetricRefreshScheduled = internalmetrics.MetricRefreshScheduled
	// MetricRefreshFired counts timer-triggered refreshes.
	MetricRefreshFired = internalmetrics.MetricRefreshFired
	// MetricRefreshCoalesced counts RefreshToken calls that joined an in-flight exchange.
	MetricRefreshCoalesced = internalmetrics.MetricRefreshCoalesced
	// MetricAccountRequest counts register, verification and reset calls.
	MetricAccountRequest = internalmetrics.MetricAccountRequest
	// MetricAccountFailure counts failed account calls.
	MetricAccountFailure = internalmetrics.MetricAccountFailure
	// MetricDirectoryRequest counts directory CRUD calls.
	MetricDirectoryRequest = internalmetrics.MetricDirectoryRequest
	// MetricDirectoryFailure counts failed directory CRUD calls.
	MetricDirectoryFailure = internalmetrics.MetricDirectoryFailure
	// MetricCurrentRoleMerged counts updates merged into the session identity.
	MetricCurrentRoleMerged = internalmetrics.MetricCurrentRoleMerged
	// MetricCurrentRoleDeleted counts deletions of the signed-in identity.
	MetricCurrentRoleDeleted = internalmetrics.MetricCurrentRoleDeleted
	// MetricUnauthorizedLogout counts logouts forced by 401/403 responses.
	MetricUnauthorizedLogout = internalmetrics.MetricUnauthorizedLogout
	// MetricSessionRestored counts sessions restored from the persister.
	MetricSessionRestored = internalmetrics.MetricSessionRestored
	// MetricSessionPersistFailure counts persister errors.
	MetricSessionPersistFailure = internalmetrics.MetricSessionPersistFailure
	// MetricRequestLatency is the HTTP request latency histogram.
	MetricRequestLatency = internalmetrics.MetricRequestLatency
)

// Metrics holds atomic counters and the optional latency histogram.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by cfg. When Enabled
// is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
