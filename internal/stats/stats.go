// Package stats summarizes trial durations.
package stats

import (
	"errors"
	"math"
	"slices"
	"time"
)

// ErrEmpty is returned when there is nothing to summarize.
var ErrEmpty = errors.New("stats: no samples")

// Summary describes a set of trial durations.
type Summary struct {
	N      int           `json:"n"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	Median time.Duration `json:"median"`
	P95    time.Duration `json:"p95"`
	StdDev time.Duration `json:"stddev"`
}

// Summarize computes a Summary. The input slice is not modified.
// StdDev is the population standard deviation.
func Summarize(samples []time.Duration) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrEmpty
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, d := range sorted {
		sum += float64(d)
	}
	mean := sum / float64(len(sorted))

	var sq float64
	for _, d := range sorted {
		diff := float64(d) - mean
		sq += diff * diff
	}

	return Summary{
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   time.Duration(math.Round(mean)),
		Median: Percentile(sorted, 50),
		P95:    Percentile(sorted, 95),
		StdDev: time.Duration(math.Round(math.Sqrt(sq / float64(len(sorted))))),
	}, nil
}

// Percentile returns the p-th percentile of sorted using linear
// interpolation between closest ranks. sorted must be ascending and
// non-empty; p is clamped to [0, 100].
func Percentile(sorted []time.Duration, p float64) time.Duration {
	p = math.Max(0, math.Min(100, p))
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + time.Duration(math.Round(frac*float64(sorted[hi]-sorted[lo])))
}

// PerOp returns d divided by ops, for reporting ns/op.
func PerOp(d time.Duration, ops int) float64 {
	if ops <= 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / float64(ops)
}
