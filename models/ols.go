package models

import (
	"errors"
	"fmt"

	mat_ "github.com/aouyang1/go-polyfit/mat"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/poly"
	"gonum.org/v1/gonum/mat"
)

var ErrInvalidConditionLimit = errors.New("condition limit must be at least 1")

// DefaultMaxCondition rejects design matrices whose estimated condition number would
// leave fewer than about two significant digits in the coefficients
const DefaultMaxCondition = 1e14

// OLSOptions represents input options to run the polynomial least squares fit
type OLSOptions struct {
	MaxCondition float64 `json:"max_condition"`
}

// NewDefaultOLSOptions returns a default set of OLS options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		MaxCondition: DefaultMaxCondition,
	}
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}
	if o.MaxCondition < 1 {
		return nil, fmt.Errorf("got %g, %w", o.MaxCondition, ErrInvalidConditionLimit)
	}
	return o, nil
}

// OLSFitter computes polynomial ordinary least squares using QR factorization of the
// Vandermonde design matrix. The problem is linear in the coefficients so no initial
// guess or iteration is needed.
type OLSFitter struct {
	opt *OLSOptions
}

// NewOLSFitter initializes a QR based polynomial fitter
func NewOLSFitter(opt *OLSOptions) (*OLSFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSFitter{
		opt: opt,
	}, nil
}

// Fit the polynomial of the given degree to the sample set
func (o *OLSFitter) Fit(s *dataset.SampleSet, degree int) (poly.Coefficients, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if err := validateFit(s, degree); err != nil {
		return nil, err
	}

	x, err := mat_.Vandermonde(s.X, degree)
	if err != nil {
		return nil, err
	}
	y := mat.NewDense(s.Len(), 1, s.Copy().Y)

	qr := new(mat.QR)
	qr.Factorize(x)

	if cond := qr.Cond(); cond > o.opt.MaxCondition {
		return nil, newFitFailure(ErrIllConditioned, "degree %d condition number %g exceeds %g", degree, cond, o.opt.MaxCondition)
	}

	c := mat.NewDense(degree+1, 1, nil)
	if err := qr.SolveTo(c, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, newFitFailure(ErrIllConditioned, "degree %d condition number %g", degree, float64(cond))
		}
		return nil, newFitFailure(err, "degree %d", degree)
	}

	coef := poly.Coefficients(mat.Col(nil, 0, c))
	if err := checkFinite(coef, degree); err != nil {
		return nil, err
	}
	return coef, nil
}
