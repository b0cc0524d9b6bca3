package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xrpbootstrap/internal/config"
	"xrpbootstrap/internal/executor"
	"xrpbootstrap/internal/executor/railway"
	"xrpbootstrap/internal/notify"
	"xrpbootstrap/internal/store"
	"xrpbootstrap/internal/topology"
)

// Options lets tests replace the process boundaries of the CLI.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// NewExecutor defaults to the Railway CLI executor.
	NewExecutor func(cfg config.Config, log logrus.FieldLogger) executor.Executor
	// OpenRecorder defaults to the PostgreSQL store.
	OpenRecorder func(ctx context.Context, dsn string) (Recorder, error)
	Topology     *topology.Topology
}

// Recorder persists run history.
type Recorder interface {
	CreateRun(ctx context.Context, r store.Run) (string, error)
	FinishRun(ctx context.Context, runID string, status string, c store.Counts, resultJSON []byte) error
	Close()
}

type app struct {
	opts  Options
	viper *viper.Viper
	topo  topology.Topology
}

func Execute() error {
	return NewRootCmd(Options{}).Execute()
}

// ExitCode maps the error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func NewRootCmd(opts Options) *cobra.Command {
	a := newApp(opts)

	rootCmd := &cobra.Command{
		Use:   "xrp-bootstrap",
		Short: "Provision the XRP analytics topology on Railway",
		Long: "Links a Railway project, creates the web and worker services, attaches the\n" +
			"Postgres and Redis plugins and prints what still has to be configured by hand.\n" +
			"Safe to re-run: resources that already exist are left as they are.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.config().NoColor {
				notify.SetColor(false)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd.Context())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetIn(a.opts.In)
	rootCmd.SetOut(a.opts.Out)
	rootCmd.SetErr(a.opts.Err)

	config.BindFlags(a.viper, rootCmd.PersistentFlags())

	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.dbCmd())
	rootCmd.AddCommand(a.runsCmd())

	return rootCmd
}

func newApp(opts Options) *app {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.NewExecutor == nil {
		opts.NewExecutor = func(cfg config.Config, log logrus.FieldLogger) executor.Executor {
			return railway.New(railway.Options{Binary: cfg.Executor, Logger: log})
		}
	}
	if opts.OpenRecorder == nil {
		opts.OpenRecorder = func(ctx context.Context, dsn string) (Recorder, error) {
			st, err := store.Open(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return st, nil
		}
	}
	topo := topology.Default()
	if opts.Topology != nil {
		topo = *opts.Topology
	}
	return &app{opts: opts, viper: config.New(), topo: topo}
}

func (a *app) config() config.Config {
	return config.Load(a.viper)
}

func (a *app) logger(cfg config.Config) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(a.opts.Err)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    cfg.NoColor,
	})
	l.SetLevel(logrus.WarnLevel)
	if cfg.Verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func (a *app) dsnOrErr() (string, error) {
	dsn := a.config().DSN
	if dsn == "" {
		return "", fmt.Errorf("missing --dsn (or set %s_DSN)", config.EnvPrefix)
	}
	return dsn, nil
}
