package cli

import (
	"io"

	"github.com/logzilla/query2excel/internal/config"
	"github.com/logzilla/query2excel/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type GlobalOptions struct {
	Verbose bool
	Debug   bool
	EnvFile string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		EnvFile: config.DefaultEnvFile,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "Increase output verbosity.")
	fs.BoolVarP(&o.Debug, "debug", "d", o.Debug, "Show debug information, including requests and responses.")
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Dotenv file loaded before reading the environment. Ignored when missing.")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// InitLogger installs the global logger for the chosen verbosity, writing
// to out, and returns a function restoring the previous one. Without -v or
// -d the logger is silent, failures included.
func (o *GlobalOptions) InitLogger(out io.Writer) func() {
	logger := log.InitLog(log.LevelFromFlags(o.Verbose, o.Debug), out)
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}
}
