package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
	"github.com/randomizedcoder/classic-benchmarks/internal/config"
	"github.com/randomizedcoder/classic-benchmarks/internal/features"
	"github.com/randomizedcoder/classic-benchmarks/internal/queue"
	"github.com/randomizedcoder/classic-benchmarks/internal/report"
	"github.com/randomizedcoder/classic-benchmarks/internal/sampler"
	"github.com/randomizedcoder/classic-benchmarks/internal/score"
	"github.com/randomizedcoder/classic-benchmarks/internal/workload"
)

// =============================================================================
// LIST
// =============================================================================

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered workloads and their expected output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, w := range workload.All() {
				fmt.Fprintf(out, "%-12s %d\n", w.Name(), w.Want())
			}
			return nil
		},
	}
}

// =============================================================================
// VERIFY
// =============================================================================

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [workload...]",
		Short: "Run each workload once in process and check its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workload.SelectMany(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var errs []error
			for _, w := range ws {
				start := time.Now()
				err := workload.Verify(w)
				elapsed := time.Since(start)
				if err != nil {
					a.logger.Error("verify failed", zap.String("workload", w.Name()), zap.Error(err))
					fmt.Fprintf(out, "FAIL %-12s %v\n", w.Name(), err)
					errs = append(errs, err)
					continue
				}
				a.logger.Debug("verified", zap.String("workload", w.Name()), zap.Duration("elapsed", elapsed))
				fmt.Fprintf(out, "ok   %-12s %d (%s)\n", w.Name(), w.Want(), elapsed.Round(time.Microsecond))
			}
			return errors.Join(errs...)
		},
	}
}

// =============================================================================
// SAMPLE
// =============================================================================

func (a *app) sampleCmd() *cobra.Command {
	var (
		workers int
		trials  int
		budget  time.Duration
		kind    string
		jsonOut string
	)
	cmd := &cobra.Command{
		Use:   "sample [workload...]",
		Short: "Time repeated in-process runs across worker goroutines",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("workers") {
				a.cfg.Sample.Workers = workers
			}
			if flags.Changed("trials") {
				a.cfg.Sample.Trials = trials
			}
			if flags.Changed("budget") {
				a.cfg.Sample.Budget = budget
			}
			if flags.Changed("queue") {
				a.cfg.Sample.Queue = queue.Kind(kind)
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ws, err := workload.SelectMany(args)
			if err != nil {
				return err
			}

			s := sampler.New(a.cfg.Sample, a.logger)
			rep := report.New(time.Now())
			var runErr error
			for _, w := range ws {
				res, err := s.Run(cmd.Context(), w)
				if len(res.Samples) > 0 {
					rep.Samples = append(rep.Samples, res)
				}
				if err != nil {
					runErr = err
					break
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.SampleTable(rep.Samples))
			if jsonOut != "" {
				if err := writeFile(jsonOut, func(w *bytes.Buffer) error { return rep.WriteJSON(w) }); err != nil {
					return err
				}
				a.logger.Info("wrote report", zap.String("path", jsonOut))
			}
			return runErr
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "worker goroutines")
	cmd.Flags().IntVarP(&trials, "trials", "n", 10, "timed runs per workload")
	cmd.Flags().DurationVar(&budget, "budget", 0, "stop sampling a workload after this long (0 = no limit)")
	cmd.Flags().StringVar(&kind, "queue", string(queue.KindAuto), "sample queue: auto, channel, ring, sharded")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the samples as a JSON report")
	return cmd
}

// =============================================================================
// BUILD
// =============================================================================

func (a *app) buildCmd() *cobra.Command {
	var (
		csvOut   string
		jsonOut  string
		featOut  string
		runs     int
		parallel int
		cold     bool
	)
	cmd := &cobra.Command{
		Use:   "build [workload...]",
		Short: "Compile every program under every profile, run it and score the profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("csv") {
				a.cfg.Output.CSV = csvOut
			}
			if flags.Changed("json") {
				a.cfg.Output.JSON = jsonOut
			}
			if flags.Changed("features") {
				a.cfg.Output.Features = featOut
			}
			if flags.Changed("runs") {
				a.cfg.Build.Runs = runs
			}
			if flags.Changed("parallel") {
				a.cfg.Build.Parallel = parallel
			}
			if flags.Changed("cold") {
				a.cfg.Build.Cold = cold
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ws, err := workload.SelectMany(args)
			if err != nil {
				return err
			}

			rep := report.New(time.Now())
			runner := buildrun.NewRunner(a.cfg.Build, nil, a.logger)
			results, runErr := runner.Run(cmd.Context(), buildrun.ProgramsFor(ws))
			if results == nil {
				return runErr
			}

			scored := score.Balanced(results, a.cfg.Score)
			rep.SetRows(scored)

			if path := a.cfg.Output.Features; path != "" && runErr == nil {
				fs, err := features.NewCollector(a.cfg.Build, nil, a.logger).Collect(cmd.Context(), buildrun.ProgramsFor(ws))
				if err != nil {
					return err
				}
				rep.Features = fs
				if err := writeFile(path, func(w *bytes.Buffer) error { return report.WriteFeaturesCSV(w, fs) }); err != nil {
					return err
				}
				a.logger.Info("wrote features", zap.String("path", path), zap.Int("programs", len(fs)))
			}

			if path := a.cfg.Output.CSV; path != "" {
				if err := writeFile(path, func(w *bytes.Buffer) error { return report.WriteCSV(w, scored) }); err != nil {
					return err
				}
				a.logger.Info("wrote results", zap.String("path", path), zap.Int("rows", len(scored)))
			}
			if path := a.cfg.Output.JSON; path != "" {
				if err := writeFile(path, func(w *bytes.Buffer) error { return rep.WriteJSON(w) }); err != nil {
					return err
				}
				a.logger.Info("wrote report", zap.String("path", path), zap.String("run_id", rep.RunID))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table(scored))
			fmt.Fprintln(out, "Best flags per program:")
			for _, line := range report.BestLines(rep.Best) {
				fmt.Fprintln(out, "  "+line)
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&csvOut, "csv", "", "CSV results file (default from config)")
	cmd.Flags().StringVar(&jsonOut, "json", "", "JSON report file (default from config)")
	cmd.Flags().StringVar(&featOut, "features", "", "instruction counts CSV (default from config)")
	cmd.Flags().IntVar(&runs, "runs", 1, "runs per binary; runtime is their mean")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "programs built concurrently")
	cmd.Flags().BoolVar(&cold, "cold", true, "rebuild std and deps with each profile (--cold=false times cached builds)")
	return cmd
}

// =============================================================================
// FEATURES
// =============================================================================

func (a *app) featuresCmd() *cobra.Command {
	var csvOut string
	cmd := &cobra.Command{
		Use:   "features [workload...]",
		Short: "Count instruction classes in each program's compiled assembly",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workload.SelectMany(args)
			if err != nil {
				return err
			}
			fs, err := features.NewCollector(a.cfg.Build, nil, a.logger).Collect(cmd.Context(), buildrun.ProgramsFor(ws))
			if err != nil {
				return err
			}
			if csvOut != "" {
				if err := writeFile(csvOut, func(w *bytes.Buffer) error { return report.WriteFeaturesCSV(w, fs) }); err != nil {
					return err
				}
				a.logger.Info("wrote features", zap.String("path", csvOut))
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.FeatureTable(fs))
			return nil
		},
	}
	cmd.Flags().StringVar(&csvOut, "csv", "", "also write the counts as CSV")
	return cmd
}

// =============================================================================
// INIT-CONFIG
// =============================================================================

func (a *app) initConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// writeFile renders into memory first so a failed render leaves no
// partial file behind.
func writeFile(path string, render func(w *bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
