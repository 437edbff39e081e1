package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	verdict = "verdict"

	jobsCreatedTotal = "jobs_created_total"
	statusReadsTotal = "status_reads_total"
	uploadsTotal     = "uploads_total"

	// Labels
	jobKindLabel = "kind"
)

var jobsCreatedLabels = []string{
	jobKindLabel,
}

var jobsCreatedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: verdict,
		Name:      jobsCreatedTotal,
		Help:      "number of analysis jobs accepted, partitioned by kind",
	},
	jobsCreatedLabels,
)

var statusReadsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: verdict,
		Name:      statusReadsTotal,
		Help:      "number of job status probes served",
	},
)

var uploadsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: verdict,
		Name:      uploadsTotal,
		Help:      "number of document uploads received",
	},
)

func IncreaseJobsCreatedMetric(kind string) {
	labels := prometheus.Labels{
		jobKindLabel: kind,
	}
	jobsCreatedTotalMetric.With(labels).Inc()
}

func IncreaseStatusReadsMetric() {
	statusReadsTotalMetric.Inc()
}

func IncreaseUploadsMetric() {
	uploadsTotalMetric.Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(statusReadsTotalMetric)
	prometheus.MustRegister(uploadsTotalMetric)
}
