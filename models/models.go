// Package models fits polynomial coefficients to a sample set by least squares
package models

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/poly"
)

const (
	SolverQR       = "qr"
	SolverGradient = "gradient"
)

var (
	ErrNoOptions      = errors.New("no initialized model options")
	ErrNoSampleSet    = errors.New("no sample set to fit")
	ErrNegativeDegree = errors.New("polynomial degree must be non-negative")
	ErrUnknownSolver  = errors.New("unknown solver")
)

// ErrFitFailure is matched by every error where the inputs were well formed but no
// usable coefficients could be produced. Callers can skip the degree and continue.
var (
	ErrFitFailure            = errors.New("polynomial fit failed")
	ErrUnderdetermined       = errors.New("fewer samples than polynomial coefficients")
	ErrIllConditioned        = errors.New("design matrix is ill-conditioned")
	ErrNoConvergence         = errors.New("solver did not converge")
	ErrNonFiniteCoefficients = errors.New("fit produced non-finite coefficients")
)

// Fitter finds the coefficients of a polynomial of the requested degree minimizing the
// sum of squared residuals over the sample set.
type Fitter interface {
	Fit(s *dataset.SampleSet, degree int) (poly.Coefficients, error)
}

// NewFitter returns a fitter with default options for the named solver
func NewFitter(solver string) (Fitter, error) {
	switch solver {
	case SolverQR, "":
		return NewOLSFitter(nil)
	case SolverGradient:
		return NewCurveFitter(nil)
	default:
		return nil, fmt.Errorf("%q, %w", solver, ErrUnknownSolver)
	}
}

// Fit runs the default QR least squares fit
func Fit(s *dataset.SampleSet, degree int) (poly.Coefficients, error) {
	f, err := NewOLSFitter(nil)
	if err != nil {
		return nil, err
	}
	return f.Fit(s, degree)
}

func validateFit(s *dataset.SampleSet, degree int) error {
	if s == nil {
		return ErrNoSampleSet
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid sample set, %w", err)
	}
	if degree < 0 {
		return fmt.Errorf("got degree %d, %w", degree, ErrNegativeDegree)
	}
	if degree+1 > s.Len() {
		return newFitFailure(ErrUnderdetermined, "degree %d needs %d samples, got %d", degree, degree+1, s.Len())
	}
	return nil
}

func newFitFailure(cause error, format string, args ...any) error {
	return fmt.Errorf("%s, %w, %w", fmt.Sprintf(format, args...), cause, ErrFitFailure)
}

func checkFinite(c poly.Coefficients, degree int) error {
	if !c.IsFinite() {
		return newFitFailure(ErrNonFiniteCoefficients, "degree %d", degree)
	}
	return nil
}
