package features

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
	"github.com/randomizedcoder/classic-benchmarks/internal/logging"
)

// Collector compiles each program with -S and extracts its Features.
type Collector struct {
	cfg  buildrun.Config
	exec buildrun.Executor
	log  *zap.Logger
}

// NewCollector returns a Collector using the go tool, module directory,
// parallelism and compile timeout of cfg. A nil exec uses an
// ExecExecutor that merges stderr, where the listing is printed.
func NewCollector(cfg buildrun.Config, exec buildrun.Executor, log *zap.Logger) *Collector {
	if exec == nil {
		exec = buildrun.ExecExecutor{MergeStderr: true}
	}
	if cfg.Go == "" {
		cfg.Go = "go"
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	return &Collector{cfg: cfg, exec: exec, log: logging.OrNop(log)}
}

// ListingArgs returns the go command arguments that print the assembly
// of pkg and of the module packages it imports, discarding the binary.
func ListingArgs(pkg string) []string {
	return []string{"build", "-o", os.DevNull, "-gcflags=./...=-S", pkg}
}

// Collect returns one Features per program, in order. The first failure
// cancels the rest and is returned.
func (c *Collector) Collect(ctx context.Context, programs []buildrun.Program) ([]Features, error) {
	if len(programs) == 0 {
		return nil, buildrun.ErrNoPrograms
	}

	out := make([]Features, len(programs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallel)

	for i, prog := range programs {
		g.Go(func() error {
			runCtx := ctx
			if c.cfg.CompileTimeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, c.cfg.CompileTimeout)
				defer cancel()
			}

			listing, err := c.exec.Run(runCtx, c.cfg.ModuleDir, c.cfg.Go, ListingArgs(prog.Package)...)
			if err != nil {
				return fmt.Errorf("features: %s: %w", prog.Name, err)
			}
			f, err := Extract(bytes.NewReader(listing))
			if err != nil {
				return fmt.Errorf("features: %s: %w", prog.Name, err)
			}
			f.Program = prog.Name
			out[i] = f

			c.log.Debug("features",
				zap.String("program", prog.Name),
				zap.Int("instructions", f.Instructions),
				zap.Int("functions", f.Functions),
				zap.Int("loop_markers", f.LoopMarkers))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
