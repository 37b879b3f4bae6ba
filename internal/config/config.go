// Package config loads the benchrunner configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
	"github.com/randomizedcoder/classic-benchmarks/internal/queue"
	"github.com/randomizedcoder/classic-benchmarks/internal/sampler"
	"github.com/randomizedcoder/classic-benchmarks/internal/score"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all benchrunner settings.
type Config struct {
	Logging LoggingConfig   `yaml:"logging"`
	Sample  sampler.Config  `yaml:"sample"`
	Build   buildrun.Config `yaml:"build"`
	Score   score.Weights   `yaml:"score"`
	Output  OutputConfig    `yaml:"output"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// OutputConfig names the files a build run writes. Empty disables.
type OutputConfig struct {
	CSV      string `yaml:"csv"`
	JSON     string `yaml:"json"`
	Features string `yaml:"features"` // instruction counts CSV; also adds them to JSON
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Sample:  sampler.DefaultConfig(),
		Build:   buildrun.DefaultConfig(),
		Score:   score.DefaultWeights(),
		Output:  OutputConfig{CSV: "results.csv"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Environment variables consulted by Load.
const (
	EnvLogLevel = "BENCH_LOG_LEVEL"
	EnvWorkers  = "BENCH_WORKERS"
	EnvTrials   = "BENCH_TRIALS"
	EnvBudget   = "BENCH_BUDGET"
	EnvGo       = "BENCH_GO"
)

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvGo); v != "" {
		c.Build.Go = v
	}
	for _, o := range []struct {
		name string
		dst  *int
	}{
		{EnvWorkers, &c.Sample.Workers},
		{EnvTrials, &c.Sample.Trials},
	} {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", o.name, v, err)
		}
		*o.dst = n
	}
	if v := os.Getenv(EnvBudget); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvBudget, v, err)
		}
		c.Sample.Budget = d
	}
	return nil
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.Sample.Workers < 1 {
		errs = append(errs, fmt.Errorf("sample.workers must be >= 1, got %d", c.Sample.Workers))
	}
	if c.Sample.Trials < 1 {
		errs = append(errs, fmt.Errorf("sample.trials must be >= 1, got %d", c.Sample.Trials))
	}
	if c.Sample.Warmup < 0 {
		errs = append(errs, fmt.Errorf("sample.warmup must be >= 0, got %d", c.Sample.Warmup))
	}
	switch c.Sample.Queue {
	case "", queue.KindAuto, queue.KindChannel, queue.KindSharded:
	case queue.KindRing:
		if c.Sample.Workers > 1 {
			errs = append(errs, fmt.Errorf("sample.queue ring needs workers = 1, got %d", c.Sample.Workers))
		}
	default:
		errs = append(errs, fmt.Errorf("sample.queue %q unknown", c.Sample.Queue))
	}
	if c.Build.Parallel < 1 {
		errs = append(errs, fmt.Errorf("build.parallel must be >= 1, got %d", c.Build.Parallel))
	}
	if c.Build.Runs < 1 {
		errs = append(errs, fmt.Errorf("build.runs must be >= 1, got %d", c.Build.Runs))
	}
	seen := make(map[string]bool)
	for _, p := range c.Build.Profiles {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("build.profiles: duplicate %q", p.Name))
		}
		seen[p.Name] = true
	}
	if err := c.Score.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
