// Package datadog implements a Datadog backend for the metrics package.
//
// Metrics are buffered in memory and submitted on a ticker (default once a
// minute) and one final time on Close, so long-running dashboards get a
// time series and short CLI runs still deliver their numbers.
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
)

// Options controls Datadog backend configuration.
type Options struct {
	// Service becomes tag "service:<name>" on every metric.
	// Defaults to "leapprofile".
	Service string

	// Tags are extra Datadog tags, e.g. "env:prod".
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// Defaults to 60 seconds.
	FlushEvery time.Duration

	// test seams
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// series identifies one buffered metric by name and label set.
type series struct {
	name string
	key  string
	tags []string
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
	closeOnce  sync.Once

	baseTags  []string
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string][]float64
	meta       map[string]series
}

// NewBackend constructs a Datadog backend using the official client.
// Credentials come from DD_API_KEY and DD_SITE as read by the client.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	service := opts.Service
	if service == "" {
		service = "leapprofile"
	}
	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "service:"+service)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		submitter = datadogV2.NewMetricsApi(dd.NewAPIClient(dd.NewConfiguration()))
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		baseTags:   baseTags,
		now:        nowFn,
		newTicker:  newTicker,
		counters:   make(map[string]float64),
		histograms: make(map[string][]float64),
		meta:       make(map[string]series),
	}
	go b.loop()
	return b, nil
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

func (b *Backend) loop() {
	defer close(b.doneCh)
	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the flush loop and performs one final Flush.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() { close(b.stopCh) })
	<-b.doneCh
	return b.Flush()
}

// track registers name+labels and returns the buffer key. Caller holds mu.
func (b *Backend) track(name string, labels metrics.Labels) string {
	k := name + "|" + labels.Key()
	if _, ok := b.meta[k]; !ok {
		b.meta[k] = series{name: name, key: k, tags: withTags(b.baseTags, labels.Tags()...)}
	}
	return k
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counters[b.track(name, labels)] += delta
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	k := b.track(name, labels)
	b.histograms[k] = append(b.histograms[k], value)
}

type snapshot struct {
	counters   map[string]float64
	histograms map[string][]float64
	meta       map[string]series
}

func (s snapshot) isEmpty() bool {
	return len(s.counters) == 0 && len(s.histograms) == 0
}

func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{counters: b.counters, histograms: b.histograms, meta: b.meta}
	b.counters = make(map[string]float64)
	b.histograms = make(map[string][]float64)
	b.meta = make(map[string]series)
	return s
}

// Flush submits buffered metrics and resets local buffers. Buffers are
// reset even when submission fails.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	payload := datadogV2.MetricPayload{Series: b.buildSeries(snap, b.now().Unix())}
	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries converts a snapshot into Datadog series. Metric names use
// dots, e.g. leapprofile_runs_total becomes leapprofile.runs.total.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	keys := make([]string, 0, len(s.meta))
	for k := range s.meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]datadogV2.MetricSeries, 0, len(s.counters)+6*len(s.histograms))
	for _, k := range keys {
		m := s.meta[k]
		name := metricName(m.name)
		if v, ok := s.counters[k]; ok && v != 0 {
			out = append(out, point(name, datadogV2.METRICINTAKETYPE_COUNT, v, m.tags, nowUnix))
		}
		samples := s.histograms[k]
		if len(samples) == 0 {
			continue
		}
		cp := append([]float64(nil), samples...)
		sort.Float64s(cp)
		for _, p := range []struct {
			suffix string
			q      float64
		}{{".p50", 0.50}, {".p90", 0.90}, {".p95", 0.95}, {".p99", 0.99}} {
			out = append(out, point(name+p.suffix, datadogV2.METRICINTAKETYPE_GAUGE, percentileNearestRank(cp, p.q), m.tags, nowUnix))
		}
		out = append(out, point(name+".max", datadogV2.METRICINTAKETYPE_GAUGE, cp[len(cp)-1], m.tags, nowUnix))
		out = append(out, point(name+".samples", datadogV2.METRICINTAKETYPE_GAUGE, float64(len(cp)), m.tags, nowUnix))
	}
	return out
}

func point(metric string, typ datadogV2.MetricIntakeType, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   typ.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func metricName(name string) string {
	if rest, ok := strings.CutPrefix(name, "leapprofile_"); ok {
		return "leapprofile." + strings.ReplaceAll(rest, "_", ".")
	}
	return strings.ReplaceAll(name, "_", ".")
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(s []float64, p float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s[0]
	}
	if p >= 1 {
		return s[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	return s[min(max(idx, 0), n-1)]
}

// ParseTagsCSV parses comma-separated tags like "env:prod,team:data".
func ParseTagsCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ metrics.Backend = (*Backend)(nil)
