// Package sampler times a workload in-process.
//
// Trials are spread over a pool of worker goroutines. Each worker claims
// the next trial index, runs the workload once, checks the result and
// pushes a Sample onto a lock-free queue. The calling goroutine drains
// the queue, logging progress on a heartbeat, until every worker has
// returned.
//
// A run ends early when the context is cancelled, when the time budget
// is spent, or on the first wrong result.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/randomizedcoder/classic-benchmarks/internal/cancel"
	"github.com/randomizedcoder/classic-benchmarks/internal/logging"
	"github.com/randomizedcoder/classic-benchmarks/internal/queue"
	"github.com/randomizedcoder/classic-benchmarks/internal/stats"
	"github.com/randomizedcoder/classic-benchmarks/internal/tick"
	"github.com/randomizedcoder/classic-benchmarks/internal/workload"
)

// maxQueue bounds the sample queue; workers spin when it is full.
const maxQueue = 4096

// errBudget is the stop cause when Config.Budget runs out. It is not
// returned; the Result is marked Truncated instead.
var errBudget = errors.New("sampler: budget spent")

// Config controls a sampling run.
type Config struct {
	Workers  int           `yaml:"workers"`
	Trials   int           `yaml:"trials"`
	Warmup   int           `yaml:"warmup"`
	Budget   time.Duration `yaml:"budget"`   // 0 = unlimited
	Queue    queue.Kind    `yaml:"queue"`    // auto, channel, ring, sharded
	Progress time.Duration `yaml:"progress"` // 0 = no progress logging
}

// DefaultConfig returns a single-worker, ten-trial configuration.
func DefaultConfig() Config {
	return Config{
		Workers:  1,
		Trials:   10,
		Warmup:   1,
		Queue:    queue.KindAuto,
		Progress: tick.DefaultInterval,
	}
}

// Sample is one timed trial.
type Sample struct {
	Worker  int
	Trial   int
	Elapsed time.Duration
}

// Result is the outcome of a sampling run.
type Result struct {
	Workload  string          `json:"workload"`
	Want      int64           `json:"want"`
	Workers   int             `json:"workers"`
	Samples   []time.Duration `json:"-"`
	Summary   stats.Summary   `json:"summary"`
	Truncated bool            `json:"truncated"`
	Wall      time.Duration   `json:"wall"`
}

// Sampler runs workloads under a Config.
type Sampler struct {
	cfg Config
	log *zap.Logger
}

// New returns a Sampler. Non-positive Workers or Trials are raised to 1.
func New(cfg Config, log *zap.Logger) *Sampler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Trials < 1 {
		cfg.Trials = 1
	}
	return &Sampler{cfg: cfg, log: logging.OrNop(log)}
}

// Config returns the effective configuration.
func (s *Sampler) Config() Config { return s.cfg }

// Run samples w. On cancellation the partial Result is returned together
// with the context error. A wrong result returns workload.ErrMismatch.
func (s *Sampler) Run(ctx context.Context, w workload.Workload) (Result, error) {
	log := s.log.With(zap.String("workload", w.Name()))
	res := Result{Workload: w.Name(), Want: w.Want(), Workers: s.cfg.Workers}

	for i := 0; i < s.cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			res.Truncated = true
			return res, err
		}
		if err := workload.Verify(w); err != nil {
			return res, fmt.Errorf("warmup: %w", err)
		}
	}

	q, err := queue.New[Sample](s.cfg.Queue, min(s.cfg.Trials, maxQueue), s.cfg.Workers)
	if err != nil {
		return res, err
	}

	log.Debug("sampling",
		zap.Int("trials", s.cfg.Trials),
		zap.Int("workers", s.cfg.Workers),
		zap.String("queue", fmt.Sprintf("%T", q)),
		zap.Duration("budget", s.cfg.Budget))

	var (
		stop = cancel.NewAtomic()
		next atomic.Int64
		wg   sync.WaitGroup
	)
	want := w.Want()
	workersDone := make(chan struct{})

	start := time.Now()
	for id := 0; id < s.cfg.Workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			push := queue.Producer(q, uint64(id))
			for !stop.Done() {
				trial := int(next.Add(1) - 1)
				if trial >= s.cfg.Trials {
					return
				}
				t0 := time.Now()
				got := w.Run()
				elapsed := time.Since(t0)
				if got != want {
					stop.CancelCause(fmt.Errorf("%s trial %d: got %d, want %d: %w",
						w.Name(), trial, got, want, workload.ErrMismatch))
					return
				}
				smp := Sample{Worker: id, Trial: trial, Elapsed: elapsed}
				for !push(smp) {
					if stop.Done() {
						return
					}
					runtime.Gosched()
				}
			}
		}(id)
	}
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		var budget <-chan time.Time
		if s.cfg.Budget > 0 {
			t := time.NewTimer(s.cfg.Budget)
			defer t.Stop()
			budget = t.C
		}
		select {
		case <-ctx.Done():
			stop.CancelCause(ctx.Err())
		case <-budget:
			log.Debug("budget spent", zap.Duration("budget", s.cfg.Budget))
			stop.CancelCause(errBudget)
		case <-workersDone:
		}
	}()

	res.Samples = s.collect(q, workersDone, log)
	<-supervisorDone
	res.Wall = time.Since(start)

	if err := stop.Cause(); errors.Is(err, workload.ErrMismatch) {
		return res, err
	}

	res.Truncated = len(res.Samples) < s.cfg.Trials
	if len(res.Samples) > 0 {
		res.Summary, _ = stats.Summarize(res.Samples)
	}
	log.Info("sampled",
		zap.Int("samples", len(res.Samples)),
		zap.Duration("median", res.Summary.Median),
		zap.Duration("wall", res.Wall),
		zap.Bool("truncated", res.Truncated))

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// collect drains q until the workers are done and the queue is empty.
func (s *Sampler) collect(q queue.Queue[Sample], workersDone <-chan struct{}, log *zap.Logger) []time.Duration {
	samples := make([]time.Duration, 0, s.cfg.Trials)
	heartbeat := tick.New(s.cfg.Progress)
	defer heartbeat.Stop()

	var idle backoff
	for {
		if smp, ok := q.Pop(); ok {
			idle.reset()
			samples = append(samples, smp.Elapsed)
			if heartbeat.Tick() {
				log.Info("progress",
					zap.Int("done", len(samples)),
					zap.Int("trials", s.cfg.Trials),
					zap.Int("worker", smp.Worker))
			}
			continue
		}

		select {
		case <-workersDone:
			// Every push happened before workersDone closed.
			n := queue.Drain(q, func(smp Sample) { samples = append(samples, smp.Elapsed) })
			log.Debug("drained", zap.Int("tail", n))
			return samples
		default:
			if d := idle.pause(); d > 0 {
				time.Sleep(d)
			} else {
				runtime.Gosched()
			}
		}
	}
}

// The collector yields for spinPolls empty polls, then sleeps idleSleep
// between polls so it does not hold a P while workers run. Samples
// carry their own elapsed time, so a late pop does not skew them.
const (
	spinPolls = 64
	idleSleep = 100 * time.Microsecond
)

// backoff counts consecutive empty polls of the sample queue.
type backoff struct {
	polls int
}

func (b *backoff) reset() { b.polls = 0 }

// pause returns how long to sleep before the next poll; zero means
// yield and poll again.
func (b *backoff) pause() time.Duration {
	b.polls++
	if b.polls <= spinPolls {
		return 0
	}
	return idleSleep
}
