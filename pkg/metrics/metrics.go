package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	query2excel = "query2excel"

	// Poll metrics
	pollAttemptsTotal = "poll_attempts_total"

	// Report metrics
	reportRows = "report_rows"

	// Run metrics
	stageDurationSeconds = "stage_duration_seconds"
	lastRunSuccess       = "last_run_success"
	lastRunTimestamp     = "last_run_timestamp_seconds"

	// Labels
	pollOutcomeLabel = "outcome"
	stageLabel       = "stage"
)

// Poll attempt outcomes
const (
	PollOutcomeInProgress = "in_progress"
	PollOutcomeCompleted  = "completed"
	PollOutcomeFailed     = "failed"
)

// Registry holds every collector of this package. It is kept apart from the
// default registry so a textfile only carries batch job metrics.
var Registry = prometheus.NewRegistry()

/**
* Metrics definition
**/
var pollAttemptsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: query2excel,
		Name:      pollAttemptsTotal,
		Help:      "number of status requests sent for the submitted query",
	},
	[]string{pollOutcomeLabel},
)

var reportRowsMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: query2excel,
		Name:      reportRows,
		Help:      "number of rows written to the report table",
	},
)

var stageDurationMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: query2excel,
		Name:      stageDurationSeconds,
		Help:      "duration of each stage of the last run",
	},
	[]string{stageLabel},
)

var lastRunSuccessMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: query2excel,
		Name:      lastRunSuccess,
		Help:      "1 if the last run wrote its report, 0 otherwise",
	},
)

var lastRunTimestampMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: query2excel,
		Name:      lastRunTimestamp,
		Help:      "unix time the last run finished",
	},
)

func IncreasePollAttemptsMetric(outcome string) {
	pollAttemptsTotalMetric.With(prometheus.Labels{pollOutcomeLabel: outcome}).Inc()
}

func UpdateReportRowsMetric(count int) {
	reportRowsMetric.Set(float64(count))
}

func ObserveStageDuration(stage string, d time.Duration) {
	stageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Set(d.Seconds())
}

func RecordRunOutcome(success bool, finished time.Time) {
	if success {
		lastRunSuccessMetric.Set(1)
	} else {
		lastRunSuccessMetric.Set(0)
	}
	lastRunTimestampMetric.Set(float64(finished.Unix()))
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	Registry.MustRegister(pollAttemptsTotalMetric)
	Registry.MustRegister(reportRowsMetric)
	Registry.MustRegister(stageDurationMetric)
	Registry.MustRegister(lastRunSuccessMetric)
	Registry.MustRegister(lastRunTimestampMetric)
}
