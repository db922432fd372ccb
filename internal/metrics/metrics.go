package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all platform metrics
const namespace = "virtual_events"

// Registry is the Prometheus registry every collector below is registered with.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// AppInfo exposes build information as labels; the value is always 1.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// RegistryOperations counts session and event registry operations by outcome
// (ok, unauthenticated, not_found, full, invalid, forbidden, conflict, error).
var RegistryOperations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registry_operations_total",
		Help:      "Total number of session and event registry operations",
	},
	[]string{"operation", "outcome"},
)

// StoreFailures counts persistence errors swallowed by the store adapter.
var StoreFailures = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Total number of persistence failures swallowed by the store adapter",
	},
	[]string{"backend", "op"},
)

// ConferenceParticipants tracks the participants currently in each room.
var ConferenceParticipants = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "conference_participants",
		Help:      "Current number of participants in a simulated conference room",
	},
	[]string{"event"},
)

// ActivityPublishFailures counts activities that could not be delivered.
var ActivityPublishFailures = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_publish_failures_total",
		Help:      "Total number of activity messages dropped after a publish error",
	},
)

// Init records build information.
func Init(version, commit, buildDate string) {
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
