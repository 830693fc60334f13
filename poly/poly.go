// Package poly evaluates polynomials stored as coefficient vectors ordered from the constant term up
package poly

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrNoCoefficients = errors.New("no polynomial coefficients")

// Coefficients represents the polynomial c[0] + c[1]x + c[2]x^2 + ... The length of the
// slice is the degree plus one.
type Coefficients []float64

// New copies the input into a Coefficients vector
func New(c []float64) (Coefficients, error) {
	if len(c) == 0 {
		return nil, ErrNoCoefficients
	}
	res := make(Coefficients, len(c))
	copy(res, c)
	return res, nil
}

// Validate returns an error if the polynomial has no terms
func (c Coefficients) Validate() error {
	if len(c) == 0 {
		return ErrNoCoefficients
	}
	return nil
}

// Degree returns the polynomial degree or -1 if there are no coefficients
func (c Coefficients) Degree() int {
	return len(c) - 1
}

// Copy returns a copy of the coefficients so callers can not modify a fit model
func (c Coefficients) Copy() Coefficients {
	res := make(Coefficients, len(c))
	copy(res, c)
	return res
}

// Eval computes the polynomial at x using Horner's method
func (c Coefficients) Eval(x float64) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c.horner(x), nil
}

// EvalSlice computes the polynomial at every x value
func (c Coefficients) EvalSlice(x []float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	res := make([]float64, len(x))
	for i, xPnt := range x {
		res[i] = c.horner(xPnt)
	}
	return res, nil
}

func (c Coefficients) horner(x float64) float64 {
	y := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// IsFinite returns false if any coefficient is NaN or infinite
func (c Coefficients) IsFinite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equation returns a string representation of the polynomial in the format of
// y ~ c0+c1*x+c2*x^2 ...
func (c Coefficients) Equation() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("y ~ ")
	sb.WriteString(fmt.Sprintf("%.2f", c[0]))
	for i := 1; i < len(c); i++ {
		if c[i] == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%+.2f*x", c[i]))
		if i > 1 {
			sb.WriteString(fmt.Sprintf("^%d", i))
		}
	}
	return sb.String(), nil
}
