package polyfit

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/score"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

func formatMSE(s *score.Scores) string {
	if s == nil {
		return "..."
	}
	return fmt.Sprintf("%.4f", s.MSE)
}

// LineXY generates an echart multi-line chart on a numeric x axis. Each series in y must have
// the same length as x and NaN values are left out of the series.
func LineXY(title string, seriesName []string, x []float64, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Type:  "value",
				Scale: opts.Bool(true),
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Type:  "value",
				Scale: opts.Bool(true),
			},
		),
		charts.WithLegendOpts(
			opts.Legend{
				Show: opts.Bool(true),
				Top:  "bottom",
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
	)

	for i, series := range seriesName {
		line.AddSeries(series, xyLineData(x, y[i]),
			charts.WithLineChartOpts(
				opts.LineChart{
					ShowSymbol: opts.Bool(false),
				},
			),
		)
	}
	return line
}

// ScatterSamples generates an echart scatter chart of one or more sample sets
func ScatterSamples(seriesName []string, samples []*dataset.SampleSet) *charts.Scatter {
	scatter := charts.NewScatter()
	for i, series := range seriesName {
		s := samples[i]
		if s == nil {
			continue
		}
		data := make([]opts.ScatterData, 0, s.Len())
		for j := 0; j < s.Len(); j++ {
			data = append(data, opts.ScatterData{Value: []float64{s.X[j], s.Y[j]}})
		}
		scatter.AddSeries(series, data)
	}
	return scatter
}

func xyLineData(x, y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for j := 0; j < len(y); j++ {
		if math.IsNaN(y[j]) || math.IsInf(y[j], 0) {
			continue
		}
		data = append(data, opts.LineData{Value: []float64{x[j], y[j]}})
	}
	return data
}
