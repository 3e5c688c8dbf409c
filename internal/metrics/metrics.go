// Package metrics collects per-job counters and writes them in the
// Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Commit results used as the "result" label.
const (
	CommitOK     = "ok"
	CommitFailed = "failed"
)

// Job holds the metrics of a single indexing run. A nil *Job is valid and
// records nothing.
type Job struct {
	registry *prometheus.Registry

	DocumentsIndexed prometheus.Counter
	LinesSkipped     *prometheus.CounterVec
	Commits          *prometheus.CounterVec
	FilesProcessed   prometheus.Counter
	JobDuration      prometheus.Gauge
	BlocklistDomains prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// NewJob registers the job metrics on a fresh registry.
func NewJob() *Job {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Job{
		registry: reg,
		DocumentsIndexed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_documents_indexed_total",
			Help: "Documents added to the index.",
		}),
		LinesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_lines_skipped_total",
			Help: "Input lines skipped, by reason code.",
		}, []string{"reason"}),
		Commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_commits_total",
			Help: "Index commits, by result.",
		}, []string{"result"}),
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pulse_files_processed_total",
			Help: "Input files streamed to the end.",
		}),
		JobDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_job_duration_seconds",
			Help: "Wall time of the last indexing run.",
		}),
		BlocklistDomains: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_blocklist_domains",
			Help: "Entries in the loaded domain blocklist.",
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_last_success_timestamp_seconds",
			Help: "Unix time the last successful run finished.",
		}),
	}
}

// Registry returns the registry holding the job metrics.
func (j *Job) Registry() *prometheus.Registry {
	if j == nil {
		return nil
	}
	return j.registry
}

// DocumentAdded counts one indexed document.
func (j *Job) DocumentAdded() {
	if j == nil {
		return
	}
	j.DocumentsIndexed.Inc()
}

// LineSkipped counts one skipped line.
func (j *Job) LineSkipped(reason string) {
	if j == nil {
		return
	}
	j.LinesSkipped.WithLabelValues(reason).Inc()
}

// Committed counts a commit attempt.
func (j *Job) Committed(err error) {
	if j == nil {
		return
	}
	result := CommitOK
	if err != nil {
		result = CommitFailed
	}
	j.Commits.WithLabelValues(result).Inc()
}

// FileDone counts one fully streamed file.
func (j *Job) FileDone() {
	if j == nil {
		return
	}
	j.FilesProcessed.Inc()
}

// SetBlocklistSize records the blocklist entry count.
func (j *Job) SetBlocklistSize(n int) {
	if j == nil {
		return
	}
	j.BlocklistDomains.Set(float64(n))
}

// Finish records the run duration, and the completion time when ok.
func (j *Job) Finish(d time.Duration, ok bool, now time.Time) {
	if j == nil {
		return
	}
	j.JobDuration.Set(d.Seconds())
	if ok {
		j.LastSuccess.Set(float64(now.Unix()))
	}
}

// WriteTextfile writes the metrics atomically to path.
func (j *Job) WriteTextfile(path string) error {
	if j == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, j.registry)
}
