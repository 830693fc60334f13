// Package score measures how well a polynomial reproduces a sample set
package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/poly"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValues       = errors.New("no values to score")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   rs,
	}, nil
}

func checkLen(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoValues
	}
	return nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		res := actual[i] - predicted[i]
		mse += res * res
	}
	mse /= float64(len(actual))
	return mse, nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y))/n
// where n counts only the non-zero actual values, since a zero actual has no percent error.
// A score of 0 means a perfect match with no errors, as does a series of all zero actuals.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	mape := 0.0
	var n int
	for i := 0; i < len(actual); i++ {
		if actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return 0, nil
	}
	mape /= float64(n)
	return mape, nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship. Values below 0 mean the fit is worse than the mean of
// the actual values, which is common when extrapolating. Constant actual values, including a
// single sample, score 1 when matched exactly and 0 otherwise.
func RSquared(predicted, actual []float64) (float64, error) {
	if err := checkLen(predicted, actual); err != nil {
		return 0, err
	}

	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// constant actual values leave r squared undefined
		if floats.Equal(predicted, actual) {
			return 1.0, nil
		}
		return 0, nil
	}
	return r2, nil
}

// MeanSquaredError evaluates the polynomial at every x of the sample set and returns the
// mean squared residual against y
func MeanSquaredError(c poly.Coefficients, s *dataset.SampleSet) (float64, error) {
	predicted, err := predict(c, s)
	if err != nil {
		return 0, err
	}
	return MSE(predicted, s.Y)
}

// Evaluate scores the polynomial against the sample set
func Evaluate(c poly.Coefficients, s *dataset.SampleSet) (*Scores, error) {
	predicted, err := predict(c, s)
	if err != nil {
		return nil, err
	}
	return NewScores(predicted, s.Y)
}

func predict(c poly.Coefficients, s *dataset.SampleSet) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("unable to score sample set, %w", err)
	}
	predicted, err := c.EvalSlice(s.X)
	if err != nil {
		return nil, fmt.Errorf("unable to evaluate polynomial, %w", err)
	}
	return predicted, nil
}
