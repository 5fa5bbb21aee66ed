// Package metrics exposes Prometheus instrumentation for the access server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gatelog"

// Registry is the Prometheus registry for all server metrics.
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// ScansTotal counts ingested scan events by direction and authorization
// decision.
var ScansTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of ingested scan events",
	},
	[]string{"direction", "decision"}, // decision: authorized|unauthorized
)

// ScanPersistFailures counts scans whose decision was computed but whose
// audit row failed to persist.
var ScanPersistFailures = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_persist_failures_total",
		Help:      "Total number of scan events that failed to persist",
	},
)

// DeviceTimeParseFailures counts device timestamps that did not match the
// expected format and were stored as null.
var DeviceTimeParseFailures = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_time_parse_failures_total",
		Help:      "Total number of device timestamps that failed to parse",
	},
)

// UnauthorizedAlertsEnqueued counts alert jobs enqueued for unauthorized
// scans.
var UnauthorizedAlertsEnqueued = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthorized_alerts_enqueued_total",
		Help:      "Total number of unauthorized-scan alert jobs enqueued",
	},
)

// Init registers runtime collectors and sets build information.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
