// Package dataset generates and validates the paired x/y samples used to fit and score polynomial models
package dataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoSamples          = errors.New("no samples")
	ErrDatasetLenMismatch = errors.New("x values have a different length than y values")
	ErrNonFiniteSample    = errors.New("sample contains a non-finite value")
)

// SampleSet represents observed data as x values and their corresponding y values.
// Both must be of the same length. A SampleSet is never modified after construction.
type SampleSet struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// NewSampleSet returns an instance of a SampleSet given an x and y slice. The inputs
// are copied so later changes by the caller do not leak into the set.
func NewSampleSet(x, y []float64) (*SampleSet, error) {
	if len(y) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"x values have length of %d, but y values has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}
	for i := 0; i < len(x); i++ {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("at index %d, %w", i, ErrNonFiniteSample)
		}
	}

	xSeries := make([]float64, len(x))
	ySeries := make([]float64, len(y))
	copy(xSeries, x)
	copy(ySeries, y)
	return &SampleSet{
		X: xSeries,
		Y: ySeries,
	}, nil
}

// Len returns the number of samples in the set
func (s *SampleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.X)
}

// Validate checks that a SampleSet built outside of NewSampleSet, e.g. decoded from
// json, still holds its invariants
func (s *SampleSet) Validate() error {
	if s == nil || len(s.Y) == 0 {
		return ErrNoSamples
	}
	if len(s.X) != len(s.Y) {
		return fmt.Errorf(
			"x values have length of %d, but y values has a length of %d, %w",
			len(s.X), len(s.Y), ErrDatasetLenMismatch,
		)
	}
	return nil
}

func (s *SampleSet) Copy() *SampleSet {
	xSeries := make([]float64, len(s.X))
	ySeries := make([]float64, len(s.Y))
	copy(xSeries, s.X)
	copy(ySeries, s.Y)
	return &SampleSet{
		X: xSeries,
		Y: ySeries,
	}
}
