// Package metrics defines the small metrics surface used by the profiling
// pipeline. Backends live in subpackages; Nop is the default.
package metrics

import (
	"sort"
	"strings"
	"time"
)

// Metric names emitted by the pipeline.
const (
	RunsTotal        = "leapprofile_runs_total"
	RunDuration      = "leapprofile_run_duration_seconds"
	StageDuration    = "leapprofile_stage_duration_seconds"
	RowsProfiled     = "leapprofile_rows_profiled"
	ReportBytes      = "leapprofile_report_bytes"
	DownloadsTotal   = "leapprofile_downloads_total"
	HTTPRequestTotal = "leapprofile_http_requests_total"
)

// Labels are metric dimensions.
type Labels map[string]string

// Key returns the labels as a stable "k:v,k:v" string.
func (l Labels) Key() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + l[k]
	}
	return strings.Join(parts, ",")
}

// Tags returns the labels as sorted "k:v" tags.
func (l Labels) Tags() []string {
	if len(l) == 0 {
		return nil
	}
	return strings.Split(l.Key(), ",")
}

// Backend receives pipeline metrics. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
	Close() error
}

// Nop discards every metric.
type Nop struct{}

// IncCounter implements Backend.
func (Nop) IncCounter(string, float64, Labels) {}

// ObserveHistogram implements Backend.
func (Nop) ObserveHistogram(string, float64, Labels) {}

// Flush implements Backend.
func (Nop) Flush() error { return nil }

// Close implements Backend.
func (Nop) Close() error { return nil }

// ObserveDuration records d in seconds.
func ObserveDuration(b Backend, name string, d time.Duration, labels Labels) {
	b.ObserveHistogram(name, d.Seconds(), labels)
}

var _ Backend = Nop{}
