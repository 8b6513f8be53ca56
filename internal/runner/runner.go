package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/logzilla/query2excel/internal/query"
	"github.com/logzilla/query2excel/internal/report"
	"github.com/logzilla/query2excel/internal/report/types"
	"github.com/logzilla/query2excel/pkg/metrics"
	"go.uber.org/zap"
)

const (
	StageLoad    = "load"
	StageSubmit  = "submit"
	StagePoll    = "poll"
	StageBuild   = "build"
	StageRender  = "render"
	StagePublish = "publish"
)

// Uploader publishes the written report somewhere beyond the local disk.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

type Options struct {
	// QueryFile is the path of the query definition.
	QueryFile string
	// OutputFile is where the report is written.
	OutputFile string
	// MetricsFile, when set, receives the run metrics in textfile format.
	MetricsFile string
}

type Option func(r *Runner)

func WithUploader(uploader Uploader) Option {
	return func(r *Runner) {
		r.uploader = uploader
	}
}

func WithPollerOptions(opts ...query.PollerOption) Option {
	return func(r *Runner) {
		r.pollerOpts = append(r.pollerOpts, opts...)
	}
}

// Runner executes one query from submission to report. Stages run in
// order and the first failure ends the run.
type Runner struct {
	transport  query.Transport
	renderer   types.ReportRenderer
	uploader   Uploader
	pollerOpts []query.PollerOption
	opts       Options
}

func New(transport query.Transport, renderer types.ReportRenderer, opts Options, options ...Option) *Runner {
	r := &Runner{
		transport: transport,
		renderer:  renderer,
		opts:      opts,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context) (err error) {
	logger := zap.S().Named("runner")

	defer func() {
		metrics.RecordRunOutcome(err == nil, time.Now())
		if r.opts.MetricsFile == "" {
			return
		}
		if werr := metrics.WriteTextfile(r.opts.MetricsFile); werr != nil {
			logger.Warnf("failed to write metrics to %s: %v", r.opts.MetricsFile, werr)
		}
	}()

	logger.Info("Starting query...")

	var definition query.Definition
	if err := timed(StageLoad, func() (err error) {
		definition, err = query.LoadDefinition(r.opts.QueryFile)
		return err
	}); err != nil {
		return err
	}

	var id query.JobID
	if err := timed(StageSubmit, func() (err error) {
		id, err = query.NewSubmitter(r.transport).Submit(ctx, definition)
		return err
	}); err != nil {
		return err
	}

	var completed *query.Completed
	if err := timed(StagePoll, func() (err error) {
		completed, err = query.NewPoller(r.transport, r.pollerOpts...).Poll(ctx, id)
		return err
	}); err != nil {
		return err
	}

	var table *types.Table
	if err := timed(StageBuild, func() (err error) {
		table, err = report.BuildTable(completed.Results)
		return err
	}); err != nil {
		return err
	}
	metrics.UpdateReportRowsMetric(table.Len())

	logger.Infof("Creating %s report with chart...", r.renderer.SupportedFormat())
	if err := timed(StageRender, func() error {
		return r.renderer.Render(table, r.opts.OutputFile)
	}); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	logger.Infof("Report written to %s (%d rows, %s events)", r.opts.OutputFile, table.Len(), report.FormatCount(total(table)))

	if r.uploader == nil {
		return nil
	}
	if err := timed(StagePublish, func() error {
		return r.uploader.Upload(ctx, r.opts.OutputFile)
	}); err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}
	return nil
}

func total(table *types.Table) int64 {
	var sum int64
	for _, row := range table.Rows {
		sum += row.Count
	}
	return sum
}

func timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveStageDuration(stage, time.Since(start))
	return err
}
