package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/logzilla/query2excel/internal/client"
	"github.com/logzilla/query2excel/internal/config"
	"github.com/logzilla/query2excel/internal/publish"
	"github.com/logzilla/query2excel/internal/query"
	"github.com/logzilla/query2excel/internal/report/types"
	"github.com/logzilla/query2excel/internal/report/xlsx"
	"github.com/logzilla/query2excel/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

const (
	DefaultOutputFile = "report.xlsx"
)

var (
	legalOutputExtensions = []string{"." + string(types.ReportFormatXLSX)}
)

type RunOptions struct {
	GlobalOptions

	QueryFile   string
	OutputFile  string
	MetricsFile string

	// pollerOpts is only set by tests.
	pollerOpts []query.PollerOption
}

func DefaultRunOptions() *RunOptions {
	return &RunOptions{
		GlobalOptions: DefaultGlobalOptions(),
		QueryFile:     query.DefaultDefinitionFile,
		OutputFile:    DefaultOutputFile,
	}
}

// NewCmdRun returns the command submitting the query and writing the report.
func NewCmdRun() *cobra.Command {
	return newCmdRun(DefaultRunOptions())
}

func newCmdRun(o *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query2excel [flags]",
		Short: "Query LogZilla and generate an Excel report.",
		Long: `Submits the query definition to LogZilla, waits for the results and writes
them as a Date/Count table with a line chart.

The server and credential are read from LOGZILLA_INSTANCE and API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			restore := o.InitLogger(cmd.ErrOrStderr())
			defer restore()

			err := o.Complete(cmd, args)
			if err == nil {
				err = o.Validate(args)
			}
			if err == nil {
				err = o.Run(cmd.Context(), args)
			}
			if err != nil {
				zap.S().Error(err)
			}
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *RunOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.QueryFile, "query", "q", o.QueryFile, "Path of the query definition (JSON or YAML).")
	fs.StringVarP(&o.OutputFile, "output", "o", o.OutputFile, "Path of the report, replaced if it exists.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write run metrics in Prometheus textfile format to this path.")
}

func (o *RunOptions) Complete(cmd *cobra.Command, args []string) error {
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *RunOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if len(o.QueryFile) == 0 {
		return fmt.Errorf("a query definition file is required")
	}
	if !funk.ContainsString(legalOutputExtensions, strings.ToLower(filepath.Ext(o.OutputFile))) {
		return fmt.Errorf("output file must have one of the extensions: %s", strings.Join(legalOutputExtensions, ", "))
	}
	return nil
}

func (o *RunOptions) Run(ctx context.Context, args []string) error {
	cfg, err := config.New(o.EnvFile)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	zap.S().Named("cli").Debugf("run id: %s", runID)

	transport := client.NewClient(cfg.LogZilla.Instance, cfg.LogZilla.APIKey, client.WithRequestID(runID))

	options := []runner.Option{runner.WithPollerOptions(o.pollerOpts...)}
	if cfg.Storage.Enabled() {
		uploader, err := publish.NewMinioUploader(
			publish.WithEndpoint(cfg.Storage.Endpoint),
			publish.WithBucket(cfg.Storage.Bucket),
			publish.WithAccessKey(cfg.Storage.AccessKey),
			publish.WithSecretKey(cfg.Storage.SecretKey),
			publish.WithSSL(cfg.Storage.UseSSL),
			publish.WithObjectName(cfg.Storage.Object),
		)
		if err != nil {
			return fmt.Errorf("creating report uploader: %w", err)
		}
		zap.S().Named("cli").Infof("Reports will be published to %s bucket %s", uploader.Type(), cfg.Storage.Bucket)
		options = append(options, runner.WithUploader(uploader))
	}

	return runner.New(transport, xlsx.NewRenderer(), runner.Options{
		QueryFile:   o.QueryFile,
		OutputFile:  o.OutputFile,
		MetricsFile: o.MetricsFile,
	}, options...).Run(ctx)
}
