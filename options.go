package polyfit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/models"
)

const DefaultSeed = 42

var (
	ErrNoDegrees            = errors.New("no polynomial degrees to fit")
	ErrNegativeDegree       = errors.New("polynomial degree must be non-negative")
	ErrDuplicateDegree      = errors.New("polynomial degree listed more than once")
	ErrInvalidTraining      = errors.New("invalid training sample options")
	ErrInvalidValidation    = errors.New("invalid validation sample options")
	ErrInvalidExtrapolation = errors.New("invalid extrapolation sample options")
)

// Options configures an experiment by specifying the seed of the random stream, the
// degrees to sweep, the solver and how each of the three sample sets is drawn
type Options struct {
	Seed    uint64 `json:"seed"`
	Degrees []int  `json:"degrees"`
	Solver  string `json:"solver"`

	Training      *dataset.Options `json:"training"`
	Validation    *dataset.Options `json:"validation"`
	Extrapolation *dataset.Options `json:"extrapolation"`
}

// NewDefaultOptions reproduces the classic demonstration. 20 noisy samples of the target
// are drawn on [0, 1] for training and validation while extrapolation samples come from
// [1.0, 1.5]. Degrees 1 through 6 are fit with the QR solver.
func NewDefaultOptions() *Options {
	return &Options{
		Seed:          DefaultSeed,
		Degrees:       []int{1, 2, 3, 4, 5, 6},
		Solver:        models.SolverQR,
		Training:      dataset.NewDefaultOptions(),
		Validation:    dataset.NewDefaultOptions(),
		Extrapolation: NewDefaultExtrapolationOptions(),
	}
}

// NewDefaultExtrapolationOptions returns 20 samples just past the default training domain
func NewDefaultExtrapolationOptions() *dataset.Options {
	opt := dataset.NewDefaultOptions()
	opt.Interval = dataset.Interval{Min: 1.0, Max: 1.5}
	return opt
}

// Validate runs basic validation on the experiment options. Missing sample options are
// set to their defaults.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if len(o.Degrees) == 0 {
		return nil, ErrNoDegrees
	}
	for i, d := range o.Degrees {
		if d < 0 {
			return nil, fmt.Errorf("got degree %d, %w", d, ErrNegativeDegree)
		}
		if slices.Contains(o.Degrees[:i], d) {
			return nil, fmt.Errorf("got degree %d, %w", d, ErrDuplicateDegree)
		}
	}
	if o.Solver == "" {
		o.Solver = models.SolverQR
	}

	training, err := o.Training.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidTraining, err)
	}
	validation, err := o.Validation.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidValidation, err)
	}
	extrapolation := o.Extrapolation
	if extrapolation == nil {
		extrapolation = NewDefaultExtrapolationOptions()
	}
	extrapolation, err = extrapolation.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidExtrapolation, err)
	}
	o.Training = training
	o.Validation = validation
	o.Extrapolation = extrapolation
	return o, nil
}
