// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeAuthError    = "auth_error"
	OutcomeFetchError   = "fetch_error"
	OutcomeEmptyCatalog = "empty_catalog"
	OutcomeWriteError   = "write_error"
	OutcomeConfigError  = "config_error"
)

var (
	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rlaxx_sync_runs_total",
		Help: "Sync runs by outcome",
	}, []string{"outcome"}) // outcome=success|auth_error|fetch_error|empty_catalog|write_error|config_error

	syncDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rlaxx_sync_duration_seconds",
		Help:    "Wall time of a full sync run",
		Buckets: prometheus.DefBuckets,
	})

	lastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rlaxx_sync_last_run_timestamp_seconds",
		Help: "Unix time the last sync run finished",
	})

	lastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rlaxx_sync_last_success_timestamp_seconds",
		Help: "Unix time the last successful sync run finished",
	})

	channelsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rlaxx_channels_total",
		Help: "Channels in the catalog (last run)",
	})

	epgRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rlaxx_epg_requests_total",
		Help: "EPG batch requests by status",
	}, []string{"status"}) // status=success|error

	epgBatchesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rlaxx_epg_batches_skipped_total",
		Help: "EPG batches dropped under the skip failure policy",
	})

	epgProgrammesCollected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rlaxx_epg_programmes_collected",
		Help: "Programmes collected in the last run",
	})

	epgCollectionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rlaxx_epg_collection_duration_seconds",
		Help:    "Time spent collecting EPG data for all batches",
		Buckets: prometheus.DefBuckets,
	})

	outputWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rlaxx_output_write_errors_total",
		Help: "Output file write failures",
	}, []string{"file"}) // file=playlist|xmltv
)

func RecordChannels(n int) { channelsTotal.Set(float64(n)) }

func IncEPGRequest(status string) { epgRequestsTotal.WithLabelValues(status).Inc() }

func IncEPGBatchSkipped() { epgBatchesSkipped.Inc() }

func RecordEPGCollection(programmes int, d time.Duration) {
	epgProgrammesCollected.Set(float64(programmes))
	epgCollectionDurationSeconds.Observe(d.Seconds())
}

func IncWriteError(file string) { outputWriteErrors.WithLabelValues(file).Inc() }

// RecordRun records the outcome of a finished run.
func RecordRun(outcome string, d time.Duration, finished time.Time) {
	syncRunsTotal.WithLabelValues(outcome).Inc()
	syncDurationSeconds.Observe(d.Seconds())
	lastRunTimestamp.Set(float64(finished.Unix()))
	if outcome == OutcomeSuccess {
		lastSuccessTimestamp.Set(float64(finished.Unix()))
	}
}
