// Package report renders benchmark results as CSV, JSON and terminal
// tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/classic-benchmarks/internal/features"
	"github.com/randomizedcoder/classic-benchmarks/internal/sampler"
	"github.com/randomizedcoder/classic-benchmarks/internal/score"
)

// Report is the JSON document written after a build run.
type Report struct {
	RunID     string              `json:"run_id"`
	Started   time.Time           `json:"started"`
	Host      string              `json:"host"`
	GoVersion string              `json:"go_version"`
	Platform  string              `json:"platform"`
	Rows      []Row               `json:"rows,omitempty"`
	Best      map[string]string   `json:"best,omitempty"`
	Samples   []sampler.Result    `json:"samples,omitempty"`
	Features  []features.Features `json:"features,omitempty"`
}

// New returns a Report stamped with a fresh run id and the host details.
func New(started time.Time) *Report {
	host, _ := os.Hostname()
	return &Report{
		RunID:     uuid.NewString(),
		Started:   started,
		Host:      host,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Row is one build result in the JSON report. Score is null for
// results that did not complete.
type Row struct {
	Program     string        `json:"program"`
	Profile     string        `json:"profile"`
	CompileTime time.Duration `json:"compile_time_ns"`
	Runtime     time.Duration `json:"runtime_ns"`
	BinarySize  int64         `json:"binary_size"`
	Status      string        `json:"status"`
	Output      string        `json:"output,omitempty"`
	Score       *float64      `json:"score"`
}

// SetRows stores scored rows and derives the best profile per program.
func (r *Report) SetRows(rows []score.Scored) {
	r.Rows = make([]Row, 0, len(rows))
	for _, s := range rows {
		row := Row{
			Program:     s.Program,
			Profile:     s.Profile,
			CompileTime: s.CompileTime,
			Runtime:     s.Runtime,
			BinarySize:  s.BinarySize,
			Status:      s.Status,
			Output:      s.Output,
		}
		if s.Valid {
			v := s.Score
			row.Score = &v
		}
		r.Rows = append(r.Rows, row)
	}
	r.Best = make(map[string]string)
	for program, s := range score.Best(rows) {
		r.Best[program] = s.Profile
	}
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: json: %w", err)
	}
	return nil
}

// CSVHeader is the first line written by WriteCSV.
var CSVHeader = []string{"program", "profile", "compile_time", "runtime", "binary_size", "status", "score"}

// WriteCSV writes one line per row. Times are in seconds; fields of
// steps that were not reached are left empty.
func WriteCSV(w io.Writer, rows []score.Scored) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("report: csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Program,
			r.Profile,
			seconds(r.CompileTime),
			seconds(r.Runtime),
			"",
			r.Status,
			"",
		}
		if r.BinarySize > 0 {
			rec[4] = strconv.FormatInt(r.BinarySize, 10)
		}
		if r.Valid {
			rec[6] = strconv.FormatFloat(r.Score, 'f', 5, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: csv: %w", err)
	}
	return nil
}

func seconds(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 5, 64)
}

// BestLines returns "program: profile" lines sorted by program.
func BestLines(best map[string]string) []string {
	programs := make([]string, 0, len(best))
	for p := range best {
		programs = append(programs, p)
	}
	sort.Strings(programs)

	lines := make([]string, 0, len(programs))
	for _, p := range programs {
		lines = append(lines, fmt.Sprintf("%s: %s", p, best[p]))
	}
	return lines
}

// FeaturesCSVHeader is the first line written by WriteFeaturesCSV.
var FeaturesCSVHeader = []string{
	"program", "instruction_count", "load_count", "store_count", "arith_count",
	"branch_count", "cmp_count", "call_count", "function_count", "basic_blocks", "loop_markers",
}

func featureCells(f features.Features) []string {
	cells := []string{f.Program}
	for _, n := range []int{
		f.Instructions, f.Loads, f.Stores, f.Arith, f.Branches,
		f.Compares, f.Calls, f.Functions, f.BasicBlocks, f.LoopMarkers,
	} {
		cells = append(cells, strconv.Itoa(n))
	}
	return cells
}

// WriteFeaturesCSV writes one line of instruction counts per program.
func WriteFeaturesCSV(w io.Writer, fs []features.Features) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeaturesCSVHeader); err != nil {
		return fmt.Errorf("report: features csv: %w", err)
	}
	for _, f := range fs {
		if err := cw.Write(featureCells(f)); err != nil {
			return fmt.Errorf("report: features csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: features csv: %w", err)
	}
	return nil
}
