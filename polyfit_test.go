package polyfit

import (
	"bytes"
	"math"
	"testing"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/models"
	"github.com/aouyang1/go-polyfit/poly"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runExperiment(t *testing.T, opt *Options) (*Experiment, *Results) {
	t.Helper()

	e, err := New(dataset.Parabola, opt)
	require.Nil(t, err)

	res, err := e.Run()
	require.Nil(t, err)
	return e, res
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		target dataset.Target
		opt    *Options
		err    error
	}{
		"default":        {dataset.Parabola, nil, nil},
		"no target":      {nil, nil, ErrNilTarget},
		"no degrees":     {dataset.Parabola, &Options{}, ErrNoDegrees},
		"unknown solver": {dataset.Parabola, &Options{Degrees: []int{1}, Solver: "svd"}, models.ErrUnknownSolver},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			e, err := New(td.target, td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.NotNil(t, e.Options())
			assert.Nil(t, e.Results())
		})
	}
}

func TestRunDeterministic(t *testing.T) {
	e1, res1 := runExperiment(t, nil)
	e2, res2 := runExperiment(t, nil)

	assert.Equal(t, e1.TrainingData(), e2.TrainingData())
	assert.Equal(t, e1.ValidationData(), e2.ValidationData())
	assert.Equal(t, e1.ExtrapolationData(), e2.ExtrapolationData())
	assert.Equal(t, res1, res2)

	opt := NewDefaultOptions()
	opt.Seed = DefaultSeed + 1
	e3, _ := runExperiment(t, opt)
	assert.NotEqual(t, e1.TrainingData(), e3.TrainingData())
}

func TestRunSampleSets(t *testing.T) {
	e, res := runExperiment(t, nil)
	require.Len(t, res.Degrees, 6)
	assert.Empty(t, res.Skipped)

	for _, s := range []*dataset.SampleSet{e.TrainingData(), e.ValidationData()} {
		require.Equal(t, 20, s.Len())
		for _, x := range s.X {
			assert.GreaterOrEqual(t, x, 0.0)
			assert.LessOrEqual(t, x, 1.0)
		}
	}
	require.Equal(t, 20, e.ExtrapolationData().Len())
	for _, x := range e.ExtrapolationData().X {
		assert.GreaterOrEqual(t, x, 1.0)
		assert.LessOrEqual(t, x, 1.5)
	}

	for i, dr := range res.Degrees {
		assert.Equal(t, i+1, dr.Degree)
		assert.Len(t, dr.Coef, dr.Degree+1)
		require.NotNil(t, dr.Training)
		require.NotNil(t, dr.Validation)
		require.NotNil(t, dr.Extrapolation)
	}
}

func TestRunTrainingErrorNonIncreasing(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, DefaultSeed} {
		opt := NewDefaultOptions()
		opt.Seed = seed
		_, res := runExperiment(t, opt)

		c := res.MSEByDegree()
		for i := 1; i < len(c.Training); i++ {
			assert.LessOrEqual(t, c.Training[i], c.Training[i-1]+1e-9, "seed %d degree %d", seed, c.Degrees[i])
		}
	}
}

func TestRunValidationFavorsTrueDegree(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Validation.N = 1000
	_, res := runExperiment(t, opt)

	c := res.MSEByDegree()
	minMSE := c.Validation[0]
	for _, mse := range c.Validation {
		minMSE = min(minMSE, mse)
	}

	quad, ok := res.Get(2)
	require.True(t, ok)

	// within one noise variance of the best degree
	noiseVar := opt.Validation.StdDev * opt.Validation.StdDev
	assert.LessOrEqual(t, quad.Validation.MSE-minMSE, noiseVar)
	assert.GreaterOrEqual(t, quad.Validation.MSE, 0.5*noiseVar)
}

func TestRunDefaultScenario(t *testing.T) {
	_, res := runExperiment(t, nil)
	require.Empty(t, res.Skipped)

	best, err := res.BestDegree()
	require.Nil(t, err)
	assert.Equal(t, 2, best)

	c := res.MSEByDegree()
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, c.Degrees)

	minIdx := 0
	for i, mse := range c.Validation {
		if mse < c.Validation[minIdx] {
			minIdx = i
		}
	}
	// validation error falls then rises again
	assert.Greater(t, minIdx, 0)
	assert.Less(t, minIdx, len(c.Validation)-1)
	assert.Greater(t, c.Validation[len(c.Validation)-1], c.Validation[minIdx])
}

func TestRunSingleSampleReport(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Extrapolation.N = 1
	e, res := runExperiment(t, opt)

	for _, dr := range res.Degrees {
		assert.False(t, math.IsInf(dr.Extrapolation.R2, 0), "degree %d", dr.Degree)
		assert.False(t, math.IsNaN(dr.Extrapolation.R2), "degree %d", dr.Degree)
	}

	m, err := e.Model()
	require.Nil(t, err)

	out, err := json.Marshal(m)
	require.Nil(t, err)

	var decoded Model
	require.Nil(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, m.Results, decoded.Results)
}

func TestRunExtrapolationDiverges(t *testing.T) {
	seeds := []uint64{1, 2, 3, 4, 5}

	var higherThanLinear, sharplyHigher int
	for _, seed := range seeds {
		opt := NewDefaultOptions()
		opt.Seed = seed
		_, res := runExperiment(t, opt)

		linear, ok := res.Get(1)
		require.True(t, ok)

		var worst float64
		for _, degree := range []int{4, 5, 6} {
			dr, ok := res.Get(degree)
			require.True(t, ok)
			worst = max(worst, dr.Extrapolation.MSE)
		}
		sextic, _ := res.Get(6)

		if sextic.Extrapolation.MSE > linear.Extrapolation.MSE {
			higherThanLinear++
		}
		if worst > 10*linear.Extrapolation.MSE {
			sharplyHigher++
		}
	}
	assert.GreaterOrEqual(t, higherThanLinear, 4)
	assert.GreaterOrEqual(t, sharplyHigher, 3)
}

func TestRunSkipsFailedDegrees(t *testing.T) {
	noiseless := func(i dataset.Interval, n int) *dataset.Options {
		return &dataset.Options{Interval: i, N: n}
	}
	opt := &Options{
		Seed:          5,
		Degrees:       []int{1, 5, 2, 4, 7},
		Training:      noiseless(dataset.Interval{Min: 0, Max: 1}, 5),
		Validation:    noiseless(dataset.Interval{Min: 0, Max: 1}, 10),
		Extrapolation: noiseless(dataset.Interval{Min: 1, Max: 1.5}, 10),
	}
	_, res := runExperiment(t, opt)

	fit := make([]int, 0, len(res.Degrees))
	for _, dr := range res.Degrees {
		fit = append(fit, dr.Degree)
	}
	assert.Equal(t, []int{1, 2, 4}, fit)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 5, res.Skipped[0].Degree)
	assert.Contains(t, res.Skipped[0].Reason, models.ErrUnderdetermined.Error())
	assert.Equal(t, 7, res.Skipped[1].Degree)

	// the target is a parabola so degree 2 recovers it everywhere
	quad, ok := res.Get(2)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{5, 4, -1}, []float64(quad.Coef), 1e-8)
	assert.Less(t, quad.Training.MSE, 1e-12)
	assert.Less(t, quad.Validation.MSE, 1e-12)
	assert.Less(t, quad.Extrapolation.MSE, 1e-12)

	// n == degree+1 interpolates the training samples
	quartic, ok := res.Get(4)
	require.True(t, ok)
	assert.Less(t, quartic.Training.MSE, 1e-6)
}

func TestRunGradientSolverAgrees(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Degrees = []int{1, 2, 3}
	_, expected := runExperiment(t, opt)

	opt = NewDefaultOptions()
	opt.Degrees = []int{1, 2, 3}
	opt.Solver = models.SolverGradient
	_, res := runExperiment(t, opt)

	require.Len(t, res.Degrees, len(expected.Degrees))
	for i, dr := range res.Degrees {
		assert.Equal(t, expected.Degrees[i].Degree, dr.Degree)
		assert.InDeltaSlice(t, []float64(expected.Degrees[i].Coef), []float64(dr.Coef), 1e-4)
		assert.InDelta(t, expected.Degrees[i].Validation.MSE, dr.Validation.MSE, 1e-6)
	}
}

func TestModelNotRun(t *testing.T) {
	e, err := New(dataset.Parabola, nil)
	require.Nil(t, err)

	_, err = e.Model()
	assert.ErrorIs(t, err, ErrNotRun)

	var buf bytes.Buffer
	assert.ErrorIs(t, e.PlotFit(&buf), ErrNotRun)
}

func TestNewFromModel(t *testing.T) {
	e, res := runExperiment(t, nil)

	m, err := e.Model()
	require.Nil(t, err)

	out, err := json.Marshal(m)
	require.Nil(t, err)

	var decoded Model
	require.Nil(t, json.Unmarshal(out, &decoded))

	loaded, err := NewFromModel(dataset.Parabola, decoded)
	require.Nil(t, err)
	assert.Equal(t, res, loaded.Results())
	assert.Equal(t, e.TrainingData(), loaded.TrainingData())
	assert.Equal(t, e.ExtrapolationData(), loaded.ExtrapolationData())

	var buf bytes.Buffer
	require.Nil(t, loaded.PlotFit(&buf))
	assert.Contains(t, buf.String(), "Polynomial Fit")
}

func TestNewFromModelErrors(t *testing.T) {
	testData := map[string]struct {
		m   Model
		err error
	}{
		"no options": {Model{Results: &Results{}}, ErrNoOptionsInModel},
		"no results": {Model{Options: NewDefaultOptions()}, ErrNoResults},
		"invalid coefficients": {
			Model{
				Options: NewDefaultOptions(),
				Results: &Results{Degrees: []DegreeResult{{Degree: 1, Coef: poly.Coefficients{}}}},
			},
			poly.ErrNoCoefficients,
		},
		"invalid options": {
			Model{Options: &Options{}, Results: &Results{}},
			ErrNoDegrees,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewFromModel(dataset.Parabola, td.m)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestPlotFit(t *testing.T) {
	e, _ := runExperiment(t, nil)

	var buf bytes.Buffer
	require.Nil(t, e.PlotFit(&buf))

	out := buf.String()
	assert.Contains(t, out, "Polynomial Fit")
	assert.Contains(t, out, "Mean Squared Error by Degree")
	assert.Contains(t, out, "Degree 6")
	assert.Contains(t, out, "Extrapolation")
}
