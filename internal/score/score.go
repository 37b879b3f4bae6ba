// Package score ranks build profiles with a weighted, min-max normalized
// blend of runtime, binary size and compile time. Lower is better.
package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
)

// ErrWeights is returned by Weights.Validate.
var ErrWeights = errors.New("score: invalid weights")

// Weights sets the share of each metric in the balanced score.
type Weights struct {
	Runtime float64 `yaml:"runtime" json:"runtime"`
	Size    float64 `yaml:"size" json:"size"`
	Compile float64 `yaml:"compile" json:"compile"`
}

// DefaultWeights favours runtime, then size, then compile time.
func DefaultWeights() Weights {
	return Weights{Runtime: 0.6, Size: 0.3, Compile: 0.1}
}

// Validate requires non-negative weights with a positive sum.
func (w Weights) Validate() error {
	if w.Runtime < 0 || w.Size < 0 || w.Compile < 0 || w.Runtime+w.Size+w.Compile <= 0 {
		return fmt.Errorf("%+v: %w", w, ErrWeights)
	}
	return nil
}

// Scored is a build result with its normalized metrics and score.
// Valid is false for results that did not complete; their Score is NaN.
type Scored struct {
	buildrun.Result
	RuntimeNorm float64 `json:"runtime_norm"`
	SizeNorm    float64 `json:"size_norm"`
	CompileNorm float64 `json:"compile_norm"`
	Score       float64 `json:"score"`
	Valid       bool    `json:"valid"`
}

// span is the observed range of one metric.
type span struct{ lo, hi float64 }

func (s *span) add(v float64) {
	s.lo = math.Min(s.lo, v)
	s.hi = math.Max(s.hi, v)
}

// norm maps v into [0, 1]. A constant column maps to 0.
func (s span) norm(v float64) float64 {
	if s.hi <= s.lo {
		return 0
	}
	return (v - s.lo) / (s.hi - s.lo)
}

// Balanced scores every result. Each metric is normalized over every
// result that measured it, across programs, so one program's slow
// profiles shift the scale for the others. A step that was not reached
// leaves its metric at zero and outside the range: a runtime failure
// still contributes its compile time and binary size.
func Balanced(results []buildrun.Result, w Weights) []Scored {
	rt := span{math.Inf(1), math.Inf(-1)}
	sz := rt
	ct := rt
	for _, r := range results {
		if r.OK() {
			rt.add(float64(r.Runtime))
		}
		if r.BinarySize > 0 {
			sz.add(float64(r.BinarySize))
		}
		if r.CompileTime > 0 {
			ct.add(float64(r.CompileTime))
		}
	}

	out := make([]Scored, len(results))
	for i, r := range results {
		s := Scored{Result: r, Score: math.NaN()}
		if r.OK() {
			s.RuntimeNorm = rt.norm(float64(r.Runtime))
			s.SizeNorm = sz.norm(float64(r.BinarySize))
			s.CompileNorm = ct.norm(float64(r.CompileTime))
			s.Score = w.Runtime*s.RuntimeNorm + w.Size*s.SizeNorm + w.Compile*s.CompileNorm
			s.Valid = true
		}
		out[i] = s
	}
	return out
}

// Best returns the lowest scoring valid entry per program. Ties keep the
// entry that appears first.
func Best(scored []Scored) map[string]Scored {
	best := make(map[string]Scored)
	for _, s := range scored {
		if !s.Valid {
			continue
		}
		if cur, ok := best[s.Program]; !ok || s.Score < cur.Score {
			best[s.Program] = s
		}
	}
	return best
}
