package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch    = errors.New("column size mismatch")
	ErrNegativeDegree = errors.New("negative polynomial degree")
)

// NewDenseFromArray builds a gonum Dense matrix from rows of equal length
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Vandermonde returns the len(x) by degree+1 design matrix where column j holds x^j
func Vandermonde(x []float64, degree int) (*mat.Dense, error) {
	if degree < 0 {
		return nil, fmt.Errorf("got degree %d, %w", degree, ErrNegativeDegree)
	}
	rows := make([][]float64, len(x))
	for i, xPnt := range x {
		row := make([]float64, degree+1)
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*xPnt {
			row[j] = p
		}
		rows[i] = row
	}
	return NewDenseFromArray(rows)
}
