// Command benchrunner drives the classic benchmarks.
//
// It verifies the workloads in process, samples their wall time across
// worker goroutines, and builds the standalone programs under several
// compiler profiles to score the trade-off between runtime, binary size
// and compile time.
//
// Usage:
//
//	benchrunner list
//	benchrunner verify [workload...]
//	benchrunner sample --workers 4 --trials 50 fibonacci
//	benchrunner build --csv results.csv --json report.json --features features.csv
//	benchrunner features matmul
//	benchrunner init-config bench.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/randomizedcoder/classic-benchmarks/internal/config"
	"github.com/randomizedcoder/classic-benchmarks/internal/logging"
)

// app holds the state the root command's hooks prepare for subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "benchrunner",
		Short:         "Run, sample and compile-profile the classic benchmarks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			// PersistentPostRun is skipped when RunE fails.
			atexit.Register(func() { _ = logger.Sync() })
			a.logger.Debug("config loaded",
				zap.String("path", a.configPath),
				zap.Int("workers", cfg.Sample.Workers),
				zap.Int("trials", cfg.Sample.Trials),
				zap.Int("profiles", len(cfg.Build.Profiles)))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "bench.yaml", "YAML configuration file (missing file = defaults)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.listCmd(),
		a.verifyCmd(),
		a.sampleCmd(),
		a.buildCmd(),
		a.featuresCmd(),
		a.initConfigCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	atexit.Register(stop)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "benchrunner:", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
