package buildrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/classic-benchmarks/internal/cancel"
	"github.com/randomizedcoder/classic-benchmarks/internal/logging"
)

var (
	// ErrProfile is returned for an unusable profile definition.
	ErrProfile = errors.New("buildrun: invalid profile")

	// ErrNoPrograms is returned when Run is given nothing to build.
	ErrNoPrograms = errors.New("buildrun: no programs")
)

// Status values recorded in Result.Status. Compile and runtime errors
// carry the first line of the command's error after the prefix.
const (
	StatusOK           = "ok"
	StatusCompileError = "compile_error"
	StatusRuntimeError = "runtime_error"
	StatusTimeout      = "timeout"
	StatusMismatch     = "mismatch"
	StatusCanceled     = "canceled"
)

// Result is the outcome of one (program, profile) pair. Zero durations
// and size mean the step was not reached.
type Result struct {
	Program     string        `json:"program"`
	Profile     string        `json:"profile"`
	CompileTime time.Duration `json:"compile_time"`
	Runtime     time.Duration `json:"runtime"`
	BinarySize  int64         `json:"binary_size"`
	Status      string        `json:"status"`
	Output      string        `json:"output,omitempty"`
}

// OK reports whether every step succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// Config controls a Runner.
type Config struct {
	ModuleDir      string        `yaml:"module_dir"`
	BinDir         string        `yaml:"bin_dir"` // empty = temporary, removed after Run
	Go             string        `yaml:"go"`
	Parallel       int           `yaml:"parallel"`
	CompileTimeout time.Duration `yaml:"compile_timeout"`
	RunTimeout     time.Duration `yaml:"run_timeout"`
	Runs           int           `yaml:"runs"`
	Cold           bool          `yaml:"cold"` // rebuild everything; CompileTime ignores the build cache
	Profiles       []Profile     `yaml:"profiles"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ModuleDir:      ".",
		Go:             "go",
		Parallel:       2,
		CompileTimeout: 2 * time.Minute,
		RunTimeout:     10 * time.Second,
		Runs:           1,
		Cold:           true,
		Profiles:       DefaultProfiles(),
	}
}

// Runner builds and runs programs across profiles.
type Runner struct {
	cfg  Config
	exec Executor
	log  *zap.Logger
}

// NewRunner returns a Runner. A nil exec uses ExecExecutor.
func NewRunner(cfg Config, exec Executor, log *zap.Logger) *Runner {
	if exec == nil {
		exec = ExecExecutor{}
	}
	if cfg.Go == "" {
		cfg.Go = "go"
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Runs < 1 {
		cfg.Runs = 1
	}
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = DefaultProfiles()
	}
	return &Runner{cfg: cfg, exec: exec, log: logging.OrNop(log)}
}

// Run builds every program under every profile and runs the binaries.
//
// Programs are processed in parallel up to Config.Parallel; the profiles
// of one program run one after another so timings do not compete. A
// failing pair is recorded in its Result and does not stop the others.
// Results are ordered program-major, profile-minor. If ctx is cancelled
// the remaining pairs are marked canceled and ctx.Err() is returned with
// the results.
func (r *Runner) Run(ctx context.Context, programs []Program) ([]Result, error) {
	if len(programs) == 0 {
		return nil, ErrNoPrograms
	}
	for _, p := range r.cfg.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	binDir := r.cfg.BinDir
	if binDir == "" {
		dir, err := os.MkdirTemp("", "benchrunner-*")
		if err != nil {
			return nil, fmt.Errorf("buildrun: bin dir: %w", err)
		}
		defer os.RemoveAll(dir)
		binDir = dir
	} else if err := os.MkdirAll(binDir, 0o755); err != nil {
		return nil, fmt.Errorf("buildrun: bin dir: %w", err)
	}
	binDir, err := filepath.Abs(binDir)
	if err != nil {
		return nil, fmt.Errorf("buildrun: bin dir: %w", err)
	}

	stop := cancel.NewContext(ctx)
	defer stop.Cancel()

	results := make([]Result, len(programs)*len(r.cfg.Profiles))
	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Parallel)

	for i, prog := range programs {
		g.Go(func() error {
			for j, prof := range r.cfg.Profiles {
				idx := i*len(r.cfg.Profiles) + j
				if stop.Done() {
					results[idx] = Result{Program: prog.Name, Profile: prof.Name, Status: StatusCanceled}
					continue
				}
				results[idx] = r.one(stop.Context(), binDir, prog, prof)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

// one builds and runs a single pair.
func (r *Runner) one(ctx context.Context, binDir string, prog Program, prof Profile) Result {
	res := Result{Program: prog.Name, Profile: prof.Name}
	log := r.log.With(zap.String("program", prog.Name), zap.String("profile", prof.Name))
	bin := filepath.Join(binDir, prof.BinaryName(prog.Name))

	buildCtx, cancelBuild := withTimeout(ctx, r.cfg.CompileTimeout)
	start := time.Now()
	_, err := r.exec.Run(buildCtx, r.cfg.ModuleDir, r.cfg.Go, prof.BuildArgs(bin, prog.Package, r.cfg.Cold)...)
	res.CompileTime = time.Since(start)
	timedOut := errors.Is(buildCtx.Err(), context.DeadlineExceeded)
	cancelBuild()
	if err != nil {
		res.CompileTime = 0
		res.Status = classify(ctx, timedOut, StatusCompileError, err)
		log.Warn("build failed", zap.String("status", res.Status))
		return res
	}

	if fi, err := os.Stat(bin); err == nil {
		res.BinarySize = fi.Size()
	}

	var total time.Duration
	for run := 0; run < r.cfg.Runs; run++ {
		runCtx, cancelRun := withTimeout(ctx, r.cfg.RunTimeout)
		start := time.Now()
		out, err := r.exec.Run(runCtx, r.cfg.ModuleDir, bin)
		elapsed := time.Since(start)
		timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
		cancelRun()
		if err != nil {
			res.Status = classify(ctx, timedOut, StatusRuntimeError, err)
			log.Warn("run failed", zap.String("status", res.Status))
			return res
		}

		res.Output = strings.TrimSpace(string(out))
		if res.Output != strconv.FormatInt(prog.Want, 10) {
			res.Status = StatusMismatch
			log.Warn("unexpected output", zap.String("got", res.Output), zap.Int64("want", prog.Want))
			return res
		}
		total += elapsed
	}

	res.Runtime = total / time.Duration(r.cfg.Runs)
	res.Status = StatusOK
	log.Debug("measured",
		zap.Duration("compile", res.CompileTime),
		zap.Duration("runtime", res.Runtime),
		zap.Int64("size", res.BinarySize))
	return res
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func classify(parent context.Context, timedOut bool, prefix string, err error) string {
	switch {
	case parent.Err() != nil:
		return StatusCanceled
	case timedOut:
		return StatusTimeout
	default:
		return prefix + ": " + firstLine(err.Error())
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
