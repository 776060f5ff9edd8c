package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/areatrack/internal/tracker"
)

// missing is how ECharts marks a gap in a line series.
const missing = "-"

// WriteHTML renders total log area and progress against level as one
// ECharts page with two y axes.
func WriteHTML(w io.Writer, title string, samples []tracker.Sample) error {
	levels := make([]int, len(samples))
	logAreas := make([]opts.LineData, len(samples))
	progress := make([]opts.LineData, len(samples))
	for i, s := range samples {
		levels[i] = s.Level
		logAreas[i] = lineValue(s.TotalLogArea)
		progress[i] = lineValue(s.Progress)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("levels=%d", len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Level", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "log(fraction)"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Progress"})

	line.SetXAxis(levels).
		AddSeries("log area", logAreas).
		AddSeries("progress", progress, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func lineValue(v float64) opts.LineData {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return opts.LineData{Value: missing}
	}
	return opts.LineData{Value: v}
}
