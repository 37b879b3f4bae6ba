package report

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/randomizedcoder/classic-benchmarks/internal/features"
	"github.com/randomizedcoder/classic-benchmarks/internal/sampler"
	"github.com/randomizedcoder/classic-benchmarks/internal/score"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	badStyle    = cellStyle.Foreground(lipgloss.Color("9"))
)

func render(headers []string, rows [][]string, bad func(row int) bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case bad != nil && bad(row):
				return badStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// Table renders scored build results.
func Table(rows []score.Scored) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		sc := "-"
		if r.Valid {
			sc = strconv.FormatFloat(r.Score, 'f', 3, 64)
		}
		size := "-"
		if r.BinarySize > 0 {
			size = strconv.FormatInt(r.BinarySize, 10)
		}
		data = append(data, []string{
			r.Program,
			r.Profile,
			duration(r.CompileTime),
			duration(r.Runtime),
			size,
			r.Status,
			sc,
		})
	}
	return render(
		[]string{"PROGRAM", "PROFILE", "COMPILE", "RUNTIME", "SIZE", "STATUS", "SCORE"},
		data,
		func(row int) bool { return row >= 0 && row < len(rows) && !rows[row].Valid },
	)
}

// SampleTable renders in-process sampling results.
func SampleTable(results []sampler.Result) string {
	data := make([][]string, 0, len(results))
	for _, r := range results {
		n := strconv.Itoa(r.Summary.N)
		if r.Truncated {
			n += "*"
		}
		data = append(data, []string{
			r.Workload,
			strconv.FormatInt(r.Want, 10),
			n,
			duration(r.Summary.Min),
			duration(r.Summary.Median),
			duration(r.Summary.Mean),
			duration(r.Summary.P95),
			duration(r.Summary.StdDev),
		})
	}
	return render(
		[]string{"WORKLOAD", "RESULT", "N", "MIN", "MEDIAN", "MEAN", "P95", "STDDEV"},
		data,
		nil,
	)
}

// FeatureTable renders instruction counts per program.
func FeatureTable(fs []features.Features) string {
	data := make([][]string, 0, len(fs))
	for _, f := range fs {
		data = append(data, featureCells(f))
	}
	return render(
		[]string{"PROGRAM", "INSTR", "LOAD", "STORE", "ARITH", "BRANCH", "CMP", "CALL", "FUNCS", "BLOCKS", "LOOPS"},
		data,
		nil,
	)
}

func duration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Microsecond).String()
}
