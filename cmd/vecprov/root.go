package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/config"
	logpkg "github.com/kailas-cloud/vecprov/internal/logger"
	"github.com/kailas-cloud/vecprov/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

// newLogger builds the process logger once config is known.
var newLogger = logpkg.NewLogger

// app is the state every command shares once the root has loaded config.
type app struct {
	env     string
	cfg     config.Config
	log     *zap.Logger
	out     io.Writer
	catalog string // --catalog override
}

// execute runs the CLI and maps the outcome to a process exit code. Panics
// escaping a command are logged and turned into a failure.
func execute(args []string, out, errOut io.Writer) (code int) {
	a := &app{out: out, log: zap.NewNop()}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("unexpected panic", zap.Any("panic", r), zap.Stack("stack"))
			fmt.Fprintf(errOut, "vecprov: unexpected error: %v\n", r)
			code = exitFailure
		}
		_ = a.log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		a.log.Error("vecprov failed", zap.Error(err))
		fmt.Fprintf(errOut, "vecprov: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func newRootCmd(a *app) *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:   "vecprov",
		Short: "Provision vector store collections",
		Long: `vecprov waits for the vector store to accept connections, creates every
collection of the catalog that does not exist yet together with its vector
indexes, and prints an inventory of the store. Existing collections are never
modified, so running it again is safe.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), env)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProvision(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&env, "config-env", "", "config environment, overrides ENV (local, redis-local, prod)")
	root.PersistentFlags().StringVar(&a.catalog, "catalog", "", "YAML catalog file, overrides catalog.path")

	root.AddCommand(newProvisionCmd(a), newInventoryCmd(a), newCatalogCmd(a))
	return root
}

// setup loads config and builds the logger.
func (a *app) setup(ctx context.Context, env string) error {
	if env == "" {
		env = config.GetEnv()
	}
	a.env = env

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.catalog != "" {
		cfg.Catalog.Path = a.catalog
	}
	a.cfg = cfg

	log, err := newLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.log = log

	a.log.Info("Starting vecprov",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("driver", cfg.Store.Driver),
		zap.String("address", cfg.Store.Address()),
	)
	return nil
}

// withLogger returns ctx carrying the app logger.
func (a *app) withLogger(ctx context.Context) context.Context {
	return logpkg.ContextWithLogger(ctx, a.log)
}
