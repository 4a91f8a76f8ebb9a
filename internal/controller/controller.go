// Package controller runs the profiling pipeline for one table:
// validate the name, fetch the rows, profile them and export the report.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapprofile/internal/frame"
	"github.com/leapstack-labs/leapprofile/internal/history"
	"github.com/leapstack-labs/leapprofile/internal/metrics"
	"github.com/leapstack-labs/leapprofile/internal/profile"
	"github.com/leapstack-labs/leapprofile/internal/report"
	"github.com/leapstack-labs/leapprofile/pkg/core"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayRowLimit is the row count from which the fetched table is no
// longer shown inline.
const DisplayRowLimit = 10000

// User-facing warnings.
const (
	WarnEmptyIdentifier = "Please enter a valid table name."
	WarnCancelled       = "Profiling cancelled."
)

var printer = message.NewPrinter(language.English)

// TableSkippedWarning is shown instead of tables with DisplayRowLimit rows
// or more.
func TableSkippedWarning() string {
	return printer.Sprintf("DataFrame has more than %d rows. Skipping display of the table.", DisplayRowLimit)
}

// Querier executes a read query. Every adapter satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string) (*core.Rows, error)
}

// Recorder stores run metadata.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Download is the exported report handed to the user.
type Download struct {
	Name string
	MIME string
	Data []byte
}

// Result is the outcome of one Run. Exactly one of Warning-only,
// Error or Report describes the end state; a size warning may accompany
// a report.
type Result struct {
	Table        string
	Warning      string
	Error        string
	Cancelled    bool
	Data         *frame.Frame
	RowCount     int
	ColumnCount  int
	TableSkipped bool
	Report       *profile.Report
	Download     *Download
	Duration     time.Duration
}

// OK reports whether a report was produced.
func (r *Result) OK() bool {
	return r.Report != nil && r.Download != nil && r.Error == ""
}

// Controller runs the pipeline against one Querier. It holds no per-run
// state and is safe for concurrent use.
type Controller struct {
	querier  Querier
	profile  profile.Config
	format   report.Format
	tempDir  string
	target   string
	logger   *slog.Logger
	metrics  metrics.Backend
	recorder Recorder
}

// Option configures a Controller.
type Option func(*Controller)

// WithProfileConfig sets the profiler configuration.
func WithProfileConfig(cfg profile.Config) Option {
	return func(c *Controller) { c.profile = cfg }
}

// WithFormat sets the download format. Defaults to HTML.
func WithFormat(f report.Format) Option {
	return func(c *Controller) { c.format = f }
}

// WithTempDir sets where report files are staged.
func WithTempDir(dir string) Option {
	return func(c *Controller) { c.tempDir = dir }
}

// WithTarget names the data source in run history.
func WithTarget(name string) Option {
	return func(c *Controller) { c.target = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics backend.
func WithMetrics(b metrics.Backend) Option {
	return func(c *Controller) {
		if b != nil {
			c.metrics = b
		}
	}
}

// WithRecorder enables run history.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// New creates a controller reading from q.
func New(q Querier, opts ...Option) *Controller {
	c := &Controller{
		querier: q,
		profile: profile.DefaultConfig(),
		format:  report.FormatHTML,
		logger:  slog.New(slog.DiscardHandler),
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the download format.
func (c *Controller) Format() report.Format { return c.format }

// Run executes the pipeline for identifier. Validation problems produce a
// warning and a nil error. Query, profiling and export failures return the
// wrapped error with Result.Error set to the display text. Cancellation
// returns the context error with Result.Warning set to WarnCancelled.
func (c *Controller) Run(ctx context.Context, identifier string, obs Observer) (*Result, error) {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	start := time.Now()
	res := &Result{Table: strings.TrimSpace(identifier)}

	obs.OnStage(StageValidating)
	id, err := ValidateIdentifier(identifier)
	if err != nil {
		res.Warning = WarnEmptyIdentifier
		if res.Table != "" {
			res.Warning = fmt.Sprintf("%s %q is not a valid identifier.", WarnEmptyIdentifier, res.Table)
		}
		c.logger.Debug("rejected table name", slog.String("input", identifier))
		obs.OnStage(StageIdle)
		return res, nil
	}
	res.Table = id
	log := c.logger.With(slog.String("table", id))

	obs.OnStage(StageQuerying)
	stageStart := time.Now()
	f, err := c.fetch(ctx, id)
	c.observeStage(StageQuerying, stageStart)
	if err != nil {
		return c.fail(ctx, res, start, obs, err)
	}

	res.RowCount, res.ColumnCount = f.NumRows(), f.NumCols()
	if res.RowCount < DisplayRowLimit {
		res.Data = f
	} else {
		res.TableSkipped = true
		res.Warning = TableSkippedWarning()
	}
	log.Info("fetched table", slog.Int("rows", res.RowCount), slog.Int("columns", res.ColumnCount))
	c.metrics.ObserveHistogram(metrics.RowsProfiled, float64(res.RowCount), nil)

	obs.OnStage(StageProfiling)
	stageStart = time.Now()
	cfg := c.profile
	cfg.Logger = log
	cfg.Progress = obs.OnColumn
	rep, err := profile.New(cfg).Profile(ctx, f)
	c.observeStage(StageProfiling, stageStart)
	if err != nil {
		return c.fail(ctx, res, start, obs, fmt.Errorf("failed to profile %s: %w", id, err))
	}
	rep.Table = id
	res.Report = rep

	obs.OnStage(StageExporting)
	stageStart = time.Now()
	data, err := report.Export(ctx, rep, c.format, c.tempDir)
	c.observeStage(StageExporting, stageStart)
	if err != nil {
		res.Report = nil
		return c.fail(ctx, res, start, obs, err)
	}
	res.Download = &Download{Name: c.format.FileName(), MIME: c.format.MIME(), Data: data}
	res.Duration = time.Since(start)
	c.metrics.ObserveHistogram(metrics.ReportBytes, float64(len(data)), metrics.Labels{"format": string(c.format)})

	log.Info("profiling report ready",
		slog.Int("alerts", len(rep.Alerts)),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", res.Duration))
	c.finish(ctx, res, history.StatusSuccess, start)
	obs.OnStage(StageReady)
	return res, nil
}

func (c *Controller) fetch(ctx context.Context, id string) (*frame.Frame, error) {
	rows, err := c.querier.Query(ctx, SelectAll(id))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	f, err := frame.FromRows(ctx, rows.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return f, nil
}

func (c *Controller) fail(ctx context.Context, res *Result, start time.Time, obs Observer, err error) (*Result, error) {
	res.Duration = time.Since(start)
	res.Download = nil

	if errors.Is(err, context.Canceled) || errors.Is(err, profile.ErrCancelled) {
		res.Cancelled = true
		res.Warning = WarnCancelled
		res.Report = nil
		c.logger.Info("profiling cancelled", slog.String("table", res.Table))
		c.finish(context.WithoutCancel(ctx), res, history.StatusCancelled, start)
		obs.OnStage(StageCancelled)
		return res, err
	}

	res.Error = FormatError(err)
	c.logger.Error("profiling failed", slog.String("table", res.Table), slog.String("error", MaskSecrets(err.Error())))
	c.finish(context.WithoutCancel(ctx), res, history.StatusFailed, start)
	obs.OnStage(StageError)
	return res, err
}

func (c *Controller) observeStage(stage Stage, start time.Time) {
	metrics.ObserveDuration(c.metrics, metrics.StageDuration, time.Since(start), metrics.Labels{"stage": string(stage)})
}

// finish records metrics and history for a completed run.
func (c *Controller) finish(ctx context.Context, res *Result, status history.Status, start time.Time) {
	labels := metrics.Labels{"status": string(status)}
	c.metrics.IncCounter(metrics.RunsTotal, 1, labels)
	metrics.ObserveDuration(c.metrics, metrics.RunDuration, time.Since(start), labels)

	if c.recorder == nil {
		return
	}
	run := &history.Run{
		Table:     res.Table,
		Target:    c.target,
		Format:    string(c.format),
		Status:    status,
		Rows:      res.RowCount,
		Columns:   res.ColumnCount,
		StartedAt: start,
		Duration:  time.Since(start),
		Error:     strings.TrimPrefix(res.Error, ErrorPrefix),
	}
	if res.Report != nil {
		run.Alerts = len(res.Report.Alerts)
	}
	if err := c.recorder.Record(ctx, run); err != nil {
		c.logger.Warn("failed to record run", slog.String("error", err.Error()))
	}
}
