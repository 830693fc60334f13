package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrNilRand         = errors.New("no random source")
	ErrNilTarget       = errors.New("no target function")
	ErrInvalidInterval = errors.New("interval minimum is greater than maximum")
	ErrNegativeStdDev  = errors.New("noise standard deviation must be non-negative")
	ErrInvalidCount    = errors.New("sample count must be positive")
)

// Target is the noiseless ground truth that samples are drawn from
type Target func(x float64) float64

// Parabola is the target -(x+1)(x-5), a downward parabola with roots at -1 and 5.
func Parabola(x float64) float64 {
	return -(x + 1) * (x - 5)
}

// Interval is a closed range of x values
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate returns an error if the interval is inverted. A zero width interval is allowed.
func (i Interval) Validate() error {
	if i.Min > i.Max {
		return fmt.Errorf("min %.3f, max %.3f, %w", i.Min, i.Max, ErrInvalidInterval)
	}
	return nil
}

// Options configures how a SampleSet is drawn from a target. Noise is additive with
// a mean of 0.
type Options struct {
	Interval Interval `json:"interval"`
	StdDev   float64  `json:"noise_std_dev"`
	N        int      `json:"num_samples"`
}

// NewDefaultOptions returns 20 samples on [0, 1] with a noise standard deviation of 0.2
func NewDefaultOptions() *Options {
	return &Options{
		Interval: Interval{Min: 0.0, Max: 1.0},
		StdDev:   0.2,
		N:        20,
	}
}

// Validate runs basic validation on the sampling options, defaulting if nil
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.N <= 0 {
		return nil, fmt.Errorf("got %d samples, %w", o.N, ErrInvalidCount)
	}
	if err := o.Interval.Validate(); err != nil {
		return nil, err
	}
	if o.StdDev < 0 {
		return nil, fmt.Errorf("got %.3f, %w", o.StdDev, ErrNegativeStdDev)
	}
	return o, nil
}

// NewRand returns a deterministic random stream for the seed. Callers own the stream
// and pass it to every Generate call; sharing it across goroutines is not safe.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate draws opt.N samples from the target. Each x is uniform over the interval and
// each y is target(x) plus normally distributed noise. A zero standard deviation does not
// consume normal draws from the stream.
func Generate(r *rand.Rand, target Target, opt *Options) (*SampleSet, error) {
	if r == nil {
		return nil, ErrNilRand
	}
	if target == nil {
		return nil, ErrNilTarget
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate sample options, %w", err)
	}

	width := opt.Interval.Max - opt.Interval.Min
	x := make([]float64, 0, opt.N)
	for i := 0; i < opt.N; i++ {
		x = append(x, opt.Interval.Min+width*r.Float64())
	}

	y := make([]float64, 0, opt.N)
	for _, xPnt := range x {
		val := target(xPnt)
		if opt.StdDev > 0 {
			val += r.NormFloat64() * opt.StdDev
		}
		y = append(y, val)
	}

	return NewSampleSet(x, y)
}

// Grid returns n evenly spaced points across the interval including both ends. It is
// used to trace smooth curves for plotting.
func Grid(i Interval, n int) ([]float64, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("grid needs at least 2 points, got %d, %w", n, ErrInvalidCount)
	}
	return floats.Span(make([]float64, n), i.Min, i.Max), nil
}

// Apply evaluates the target at every x value
func (t Target) Apply(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, xPnt := range x {
		y[i] = t(xPnt)
	}
	return y
}
