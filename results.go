package polyfit

import (
	"errors"
	"math"

	"github.com/aouyang1/go-polyfit/poly"
	"github.com/aouyang1/go-polyfit/score"
)

var ErrNoResults = errors.New("no fit degrees in results")

// DegreeResult holds the fit coefficients of one degree along with its scores on the
// training, validation and extrapolation sample sets
type DegreeResult struct {
	Degree        int               `json:"degree"`
	Coef          poly.Coefficients `json:"coefficients"`
	Training      *score.Scores     `json:"training"`
	Validation    *score.Scores     `json:"validation"`
	Extrapolation *score.Scores     `json:"extrapolation"`
}

// SkippedDegree records a degree whose fit failed and the reason it was skipped
type SkippedDegree struct {
	Degree int    `json:"degree"`
	Reason string `json:"reason"`
}

// Results are the outcome of an experiment in the order the degrees were requested
type Results struct {
	Degrees []DegreeResult  `json:"degrees"`
	Skipped []SkippedDegree `json:"skipped,omitempty"`
}

// Get returns the result for a degree and false if the degree was not fit
func (r *Results) Get(degree int) (DegreeResult, bool) {
	if r == nil {
		return DegreeResult{}, false
	}
	for _, dr := range r.Degrees {
		if dr.Degree == degree {
			return dr, true
		}
	}
	return DegreeResult{}, false
}

// BestDegree returns the degree with the lowest validation mean squared error. Ties go to
// the lower degree.
func (r *Results) BestDegree() (int, error) {
	if r == nil || len(r.Degrees) == 0 {
		return 0, ErrNoResults
	}
	best := -1
	var bestMSE float64
	for _, dr := range r.Degrees {
		if dr.Validation == nil {
			continue
		}
		mse := dr.Validation.MSE
		if best < 0 || mse < bestMSE || (mse == bestMSE && dr.Degree < best) {
			best = dr.Degree
			bestMSE = mse
		}
	}
	if best < 0 {
		return 0, ErrNoResults
	}
	return best, nil
}

// MSECurve is the mean squared error of every fit degree for each sample set. All slices
// share the same indexing and a missing score is NaN.
type MSECurve struct {
	Degrees       []int
	Training      []float64
	Validation    []float64
	Extrapolation []float64
}

// MSEByDegree collects the mean squared error of every fit degree in request order
func (r *Results) MSEByDegree() MSECurve {
	var c MSECurve
	if r == nil {
		return c
	}
	n := len(r.Degrees)
	c.Degrees = make([]int, 0, n)
	c.Training = make([]float64, 0, n)
	c.Validation = make([]float64, 0, n)
	c.Extrapolation = make([]float64, 0, n)
	for _, dr := range r.Degrees {
		c.Degrees = append(c.Degrees, dr.Degree)
		c.Training = append(c.Training, mseOf(dr.Training))
		c.Validation = append(c.Validation, mseOf(dr.Validation))
		c.Extrapolation = append(c.Extrapolation, mseOf(dr.Extrapolation))
	}
	return c
}

func mseOf(s *score.Scores) float64 {
	if s == nil {
		return math.NaN()
	}
	return s.MSE
}
