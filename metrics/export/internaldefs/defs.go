package internaldefs

import (
	goRoles "github.com/MrEthical07/goRoles"
)

// CounterDef names one client counter for exporters.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goRoles.MetricID
	Name string
	Help string
}

// HistogramDef names one client histogram for exporters.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goRoles.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in snapshot order.
var CounterDefs = []CounterDef{
	{ID: goRoles.MetricLoginSuccess, Name: "goroles_login_success_total", Help: "Successful logins."},
	{ID: goRoles.MetricLoginFailure, Name: "goroles_login_failure_total", Help: "Failed or rejected logins."},
	{ID: goRoles.MetricLogout, Name: "goroles_logout_total", Help: "Local logout sequences."},
	{ID: goRoles.MetricRevokeFailure, Name: "goroles_revoke_failure_total", Help: "Background token revocations that failed."},
	{ID: goRoles.MetricRefreshSuccess, Name: "goroles_refresh_success_total", Help: "Refresh exchanges that produced a new identity."},
	{ID: goRoles.MetricRefreshFailure, Name: "goroles_refresh_failure_total", Help: "Failed refresh exchanges."},
	{ID: goRoles.MetricRefreshScheduled, Name: "goroles_refresh_scheduled_total", Help: "Refresh timer arms."},
	{ID: goRoles.MetricRefreshFired, Name: "goroles_refresh_fired_total", Help: "Timer-triggered refreshes."},
	{ID: goRoles.MetricRefreshCoalesced, Name: "goroles_refresh_coalesced_total", Help: "Refresh calls that joined an in-flight exchange."},
	{ID: goRoles.MetricAccountRequest, Name: "goroles_account_request_total", Help: "Register, verification and password reset calls."},
	{ID: goRoles.MetricAccountFailure, Name: "goroles_account_failure_total", Help: "Failed account calls."},
	{ID: goRoles.MetricDirectoryRequest, Name: "goroles_directory_request_total", Help: "Directory CRUD calls."},
	{ID: goRoles.MetricDirectoryFailure, Name: "goroles_directory_failure_total", Help: "Failed directory CRUD calls."},
	{ID: goRoles.MetricCurrentRoleMerged, Name: "goroles_current_role_merged_total", Help: "Updates merged into the session identity."},
	{ID: goRoles.MetricCurrentRoleDeleted, Name: "goroles_current_role_deleted_total", Help: "Deletions of the signed-in identity."},
	{ID: goRoles.MetricUnauthorizedLogout, Name: "goroles_unauthorized_logout_total", Help: "Logouts forced by 401 or 403 responses."},
	{ID: goRoles.MetricSessionRestored, Name: "goroles_session_restored_total", Help: "Sessions restored from the persister."},
	{ID: goRoles.MetricSessionPersistFailure, Name: "goroles_session_persist_failure_total", Help: "Session persister errors."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goRoles.MetricRequestLatency, Name: "goroles_request_latency_seconds", Help: "Role API request latency."},
}

// AuditDroppedName is the counter reporting audit backpressure drops.
const AuditDroppedName = "goroles_audit_dropped_total"

// HistogramBounds are the upper bounds of the latency buckets, in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds spelled for use in metric names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, padding with zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
