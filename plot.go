package polyfit

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// DefaultPlotPoints is the number of grid points used to trace each curve
const DefaultPlotPoints = 200

// PlotFit uses the Apache Echarts library to render an html page showing the samples, the
// target and every fit polynomial across the training and extrapolation domains followed by
// the mean squared error of each sample set by degree on a log scale
func (e *Experiment) PlotFit(w io.Writer) error {
	if e.results == nil || e.training == nil {
		return ErrNotRun
	}

	fitChart, err := e.lineFit()
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(
		fitChart,
		LineMSE(e.results.MSEByDegree()),
	)
	return page.Render(w)
}

func (e *Experiment) lineFit() (*charts.Line, error) {
	domain := dataset.Interval{
		Min: math.Min(e.opt.Training.Interval.Min, e.opt.Extrapolation.Interval.Min),
		Max: math.Max(e.opt.Training.Interval.Max, e.opt.Extrapolation.Interval.Max),
	}
	x, err := dataset.Grid(domain, DefaultPlotPoints)
	if err != nil {
		return nil, fmt.Errorf("unable to build plot grid, %w", err)
	}

	truth := e.target.Apply(x)
	names := []string{"Target"}
	y := [][]float64{truth}
	for _, dr := range e.results.Degrees {
		fit, err := dr.Coef.EvalSlice(x)
		if err != nil {
			return nil, fmt.Errorf("unable to evaluate degree %d, %w", dr.Degree, err)
		}
		names = append(names, "Degree "+strconv.Itoa(dr.Degree))
		y = append(y, fit)
	}

	line := LineXY("Polynomial Fit", names, x, y)

	// high degree fits diverge outside the training domain so the view is bounded by the
	// samples and target
	lo := math.Min(floats.Min(truth), minY(e.training, e.validation, e.extrapolation))
	hi := math.Max(floats.Max(truth), maxY(e.training, e.validation, e.extrapolation))
	pad := 0.25 * (hi - lo)
	line.SetGlobalOptions(
		charts.WithYAxisOpts(
			opts.YAxis{
				Type: "value",
				Min:  math.Floor(lo - pad),
				Max:  math.Ceil(hi + pad),
			},
		),
	)
	line.Overlap(ScatterSamples(
		[]string{"Training", "Validation", "Extrapolation"},
		[]*dataset.SampleSet{e.training, e.validation, e.extrapolation},
	))
	return line, nil
}

// LineMSE generates an echart line chart of the mean squared error by degree for each sample
// set on a log scale
func LineMSE(c MSECurve) *charts.Line {
	x := make([]float64, 0, len(c.Degrees))
	for _, d := range c.Degrees {
		x = append(x, float64(d))
	}
	line := LineXY(
		"Mean Squared Error by Degree",
		[]string{"Training", "Validation", "Extrapolation"},
		x,
		[][]float64{c.Training, c.Validation, c.Extrapolation},
	)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(
			opts.XAxis{
				Type:        "value",
				Name:        "degree",
				MinInterval: 1,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Type: "log",
				Name: "mse",
			},
		),
	)
	return line
}

func minY(sets ...*dataset.SampleSet) float64 {
	res := math.Inf(1)
	for _, s := range sets {
		if s.Len() == 0 {
			continue
		}
		res = math.Min(res, floats.Min(s.Y))
	}
	return res
}

func maxY(sets ...*dataset.SampleSet) float64 {
	res := math.Inf(-1)
	for _, s := range sets {
		if s.Len() == 0 {
			continue
		}
		res = math.Max(res, floats.Max(s.Y))
	}
	return res
}
