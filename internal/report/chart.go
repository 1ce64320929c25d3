// Package report renders run results into standalone HTML charts: a
// convergence line chart over the generation history and, for multi-objective
// runs, a scatter plot of the Pareto front.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cwbudde/natureopt/internal/solver"
)

// WriteConvergence renders the best and mean fitness per generation into an
// HTML line chart.
func WriteConvergence(w io.Writer, title string, history []solver.Snapshot) error {
	if len(history) == 0 {
		return fmt.Errorf("report: history is empty")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "fitness",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	gens := make([]int, len(history))
	best := make([]opts.LineData, len(history))
	mean := make([]opts.LineData, len(history))
	for i, snap := range history {
		gens[i] = snap.Gen
		best[i] = opts.LineData{Value: snap.BestFitness.Eval()}
		mean[i] = opts.LineData{Value: snap.Mean}
	}

	line.SetXAxis(gens).
		AddSeries("Best", best).
		AddSeries("Population Mean", mean).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)

	return line.Render(w)
}

// WriteFront renders a two-objective Pareto front into an HTML scatter chart.
func WriteFront(w io.Writer, title string, front []solver.FrontEntry) error {
	if len(front) == 0 {
		return fmt.Errorf("report: front is empty")
	}
	if len(front[0].Fitness) != 2 {
		return fmt.Errorf("report: can only plot two-objective fronts, got %d objectives", len(front[0].Fitness))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	points := make([]opts.ScatterData, len(front))
	for i, e := range front {
		points[i] = opts.ScatterData{
			Value:      []float64{e.Fitness[0], e.Fitness[1]},
			Symbol:     "circle",
			SymbolSize: 8,
		}
	}

	scatter.AddSeries("Pareto Front", points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	return scatter.Render(w)
}

// SaveConvergence renders the convergence chart into a file.
func SaveConvergence(path, title string, history []solver.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteConvergence(f, title, history)
}

// SaveFront renders the front chart into a file.
func SaveFront(path, title string, front []solver.FrontEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFront(f, title, front)
}
