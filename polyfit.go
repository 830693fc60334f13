// Package polyfit sweeps polynomial degrees over noisy samples of a known target to show
// how training, validation and extrapolation error move as a model goes from underfit to
// overfit
package polyfit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/models"
	"github.com/aouyang1/go-polyfit/score"
)

var (
	ErrNilTarget        = errors.New("no target function")
	ErrNoOptionsInModel = errors.New("no options set in model")
	ErrNotRun           = errors.New("experiment has not been run")
)

// Experiment draws training, validation and extrapolation samples from a target and fits a
// polynomial of every requested degree to the training samples
type Experiment struct {
	opt    *Options
	target dataset.Target
	fitter models.Fitter

	training      *dataset.SampleSet
	validation    *dataset.SampleSet
	extrapolation *dataset.SampleSet

	results *Results
}

// New creates a new experiment for the target using the provided options. If no options are
// provided a default is used.
func New(target dataset.Target, opt *Options) (*Experiment, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate experiment options, %w", err)
	}
	fitter, err := models.NewFitter(opt.Solver)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize fitter, %w", err)
	}
	return &Experiment{
		opt:    opt,
		target: target,
		fitter: fitter,
	}, nil
}

// NewFromModel creates an experiment from a previous call to Model(). The sample sets are
// redrawn from the stored seed and the stored results are used as is without refitting.
func NewFromModel(target dataset.Target, model Model) (*Experiment, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	if model.Results == nil {
		return nil, ErrNoResults
	}
	for _, dr := range model.Results.Degrees {
		if err := dr.Coef.Validate(); err != nil {
			return nil, fmt.Errorf("invalid coefficients for degree %d, %w", dr.Degree, err)
		}
	}

	e, err := New(target, model.Options)
	if err != nil {
		return nil, err
	}
	if err := e.generate(); err != nil {
		return nil, err
	}
	e.results = model.Results
	return e, nil
}

// generate draws the training, validation and extrapolation sets in that order from a
// single stream seeded by the options
func (e *Experiment) generate() error {
	r := dataset.NewRand(e.opt.Seed)

	var err error
	e.training, err = dataset.Generate(r, e.target, e.opt.Training)
	if err != nil {
		return fmt.Errorf("unable to generate training samples, %w", err)
	}
	e.validation, err = dataset.Generate(r, e.target, e.opt.Validation)
	if err != nil {
		return fmt.Errorf("unable to generate validation samples, %w", err)
	}
	e.extrapolation, err = dataset.Generate(r, e.target, e.opt.Extrapolation)
	if err != nil {
		return fmt.Errorf("unable to generate extrapolation samples, %w", err)
	}
	return nil
}

// Run generates the sample sets, fits every degree to the training samples and scores each
// fit on all three sets. A degree whose fit fails is logged and recorded as skipped while the
// remaining degrees continue. Any other error aborts the run.
func (e *Experiment) Run() (*Results, error) {
	if err := e.generate(); err != nil {
		return nil, err
	}

	res := &Results{
		Degrees: make([]DegreeResult, 0, len(e.opt.Degrees)),
	}
	for _, degree := range e.opt.Degrees {
		coef, err := e.fitter.Fit(e.training, degree)
		if err != nil {
			if errors.Is(err, models.ErrFitFailure) {
				slog.Warn("skipping polynomial degree", "degree", degree, "error", err.Error())
				res.Skipped = append(res.Skipped, SkippedDegree{Degree: degree, Reason: err.Error()})
				continue
			}
			return nil, fmt.Errorf("unable to fit degree %d, %w", degree, err)
		}

		dr := DegreeResult{
			Degree: degree,
			Coef:   coef,
		}
		if dr.Training, err = score.Evaluate(coef, e.training); err != nil {
			return nil, fmt.Errorf("unable to score degree %d on training samples, %w", degree, err)
		}
		if dr.Validation, err = score.Evaluate(coef, e.validation); err != nil {
			return nil, fmt.Errorf("unable to score degree %d on validation samples, %w", degree, err)
		}
		if dr.Extrapolation, err = score.Evaluate(coef, e.extrapolation); err != nil {
			return nil, fmt.Errorf("unable to score degree %d on extrapolation samples, %w", degree, err)
		}
		slog.Debug("fit polynomial degree",
			"degree", degree,
			"training_mse", dr.Training.MSE,
			"validation_mse", dr.Validation.MSE,
			"extrapolation_mse", dr.Extrapolation.MSE,
		)
		res.Degrees = append(res.Degrees, dr)
	}

	e.results = res
	return res, nil
}

// Results returns the results of the last run
func (e *Experiment) Results() *Results {
	return e.results
}

// Options returns the validated options of the experiment
func (e *Experiment) Options() *Options {
	return e.opt
}

// TrainingData returns the samples the polynomials were fit to
func (e *Experiment) TrainingData() *dataset.SampleSet {
	return e.training
}

// ValidationData returns the held out samples drawn from the training domain
func (e *Experiment) ValidationData() *dataset.SampleSet {
	return e.validation
}

// ExtrapolationData returns the held out samples drawn outside the training domain
func (e *Experiment) ExtrapolationData() *dataset.SampleSet {
	return e.extrapolation
}

// Model generates a serializeable representation of the experiment options and results. This
// can be used to initialize a new Experiment for reporting or plotting without refitting.
func (e *Experiment) Model() (Model, error) {
	if e.results == nil {
		return Model{}, ErrNotRun
	}
	return Model{
		Options: e.opt,
		Results: e.results,
	}, nil
}
