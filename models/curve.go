package models

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/aouyang1/go-polyfit/poly"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const (
	DefaultGradientThreshold = 1e-10
	DefaultIterations        = 1000
	DefaultInitialValue      = 1.0

	// MaxHessianCondition bounds the condition number of the loss Hessian. Beyond it the
	// Newton step is too inexact to confirm that a minimization reached the minimum.
	MaxHessianCondition = 1e12

	// decreaseTolerance is the relative drop in loss a final Newton step may still make
	// from a converged result
	decreaseTolerance = 1e-6
)

var ErrInvalidIterations = errors.New("iterations must be positive")

// CurveOptions configures the general purpose minimizer used by CurveFitter
type CurveOptions struct {
	GradientThreshold float64 `json:"gradient_threshold"`
	Iterations        int     `json:"iterations"`

	// FuncEvaluations caps the number of loss evaluations, zero means no limit
	FuncEvaluations int `json:"func_evaluations"`

	// InitialValue seeds every coefficient of the starting guess
	InitialValue float64 `json:"initial_value"`
}

// NewDefaultCurveOptions returns a default set of curve fit options starting from all ones
func NewDefaultCurveOptions() *CurveOptions {
	return &CurveOptions{
		GradientThreshold: DefaultGradientThreshold,
		Iterations:        DefaultIterations,
		InitialValue:      DefaultInitialValue,
	}
}

// Validate runs basic validation on curve fit options
func (o *CurveOptions) Validate() (*CurveOptions, error) {
	if o == nil {
		o = NewDefaultCurveOptions()
	}
	if o.Iterations <= 0 {
		return nil, fmt.Errorf("got %d, %w", o.Iterations, ErrInvalidIterations)
	}
	if o.FuncEvaluations < 0 {
		return nil, fmt.Errorf("got %d func evaluations, %w", o.FuncEvaluations, ErrInvalidIterations)
	}
	if o.GradientThreshold <= 0 {
		o.GradientThreshold = DefaultGradientThreshold
	}
	return o, nil
}

// CurveFitter treats the polynomial as a generic model and minimizes the mean squared
// residual with gonum's Newton method starting from a constant initial guess. It reaches
// the same optimum as OLSFitter within numerical tolerance and surfaces solver
// non-convergence as a fit failure.
type CurveFitter struct {
	opt *CurveOptions
}

// NewCurveFitter initializes a minimizer based polynomial fitter
func NewCurveFitter(opt *CurveOptions) (*CurveFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &CurveFitter{
		opt: opt,
	}, nil
}

// Fit the polynomial of the given degree to the sample set
func (c *CurveFitter) Fit(s *dataset.SampleSet, degree int) (poly.Coefficients, error) {
	if c.opt == nil {
		return nil, ErrNoOptions
	}
	if err := validateFit(s, degree); err != nil {
		return nil, err
	}

	obj := newSquaredLoss(s, degree)

	initX := make([]float64, degree+1)
	floats.AddConst(c.opt.InitialValue, initX)

	problem := optimize.Problem{
		Func: obj.loss,
		Grad: obj.grad,
		Hess: obj.hess,
	}
	settings := &optimize.Settings{
		GradientThreshold: c.opt.GradientThreshold,
		MajorIterations:   c.opt.Iterations,
		FuncEvaluations:   c.opt.FuncEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-15,
			Iterations: 20,
		},
	}

	res, err := optimize.Minimize(problem, initX, settings, &optimize.Newton{})
	if res == nil {
		return nil, newFitFailure(ErrNoConvergence, "degree %d, %v", degree, err)
	}

	// the line search gives up once the Newton step has landed on the minimum to working
	// precision, so every result is checked against one more Newton step instead of
	// trusting the termination status
	if err := obj.converged(res.X); err != nil {
		reason := res.Status.String()
		if res.Status.Err() != nil {
			reason = res.Status.Err().Error()
		}
		return nil, fmt.Errorf("degree %d, %s, %w", degree, reason, err)
	}
	if err != nil || res.Status.Early() {
		slog.Debug("curve fit stalled at minimum", "degree", degree, "status", res.Status.String(), "loss", res.F)
	}
	slog.Debug("curve fit complete",
		"degree", degree,
		"status", res.Status.String(),
		"iterations", res.MajorIterations,
		"loss", res.F,
	)

	coef := make(poly.Coefficients, len(res.X))
	copy(coef, res.X)
	if err := checkFinite(coef, degree); err != nil {
		return nil, err
	}
	return coef, nil
}

// squaredLoss is the mean squared residual of a polynomial over a sample set along with
// its gradient and Hessian with respect to the coefficients
type squaredLoss struct {
	powers   [][]float64 // powers[i][j] = x_i^j
	y        []float64
	residual []float64
	hessian  *mat.SymDense
	scale    float64
}

func newSquaredLoss(s *dataset.SampleSet, degree int) *squaredLoss {
	n := degree + 1
	powers := make([][]float64, s.Len())
	for i, xPnt := range s.X {
		row := make([]float64, n)
		for j, p := 0, 1.0; j < n; j, p = j+1, p*xPnt {
			row[j] = p
		}
		powers[i] = row
	}

	scale := 1.0 / float64(s.Len())

	// the loss is quadratic in the coefficients so the Hessian is constant
	hessian := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		for k := j; k < n; k++ {
			var sum float64
			for _, row := range powers {
				sum += row[j] * row[k]
			}
			hessian.SetSym(j, k, 2*scale*sum)
		}
	}

	return &squaredLoss{
		powers:   powers,
		y:        s.Copy().Y,
		residual: make([]float64, s.Len()),
		hessian:  hessian,
		scale:    scale,
	}
}

func (l *squaredLoss) updateResidual(p []float64) {
	for i, row := range l.powers {
		l.residual[i] = l.y[i] - floats.Dot(row, p)
	}
}

func (l *squaredLoss) loss(p []float64) float64 {
	l.updateResidual(p)
	return l.scale * floats.Dot(l.residual, l.residual)
}

func (l *squaredLoss) grad(grad, p []float64) {
	l.updateResidual(p)
	for j := range grad {
		grad[j] = 0
	}
	for i, row := range l.powers {
		floats.AddScaled(grad, -2*l.scale*l.residual[i], row)
	}
}

func (l *squaredLoss) hess(hess *mat.SymDense, _ []float64) {
	hess.CopySym(l.hessian)
}

// converged takes a full Newton step from p with the constant Hessian. Since the loss is
// quadratic that step lands on the minimum, so p is a minimum only if the step does not
// lower the loss.
func (l *squaredLoss) converged(p []float64) error {
	var chol mat.Cholesky
	if ok := chol.Factorize(l.hessian); !ok {
		return newFitFailure(ErrIllConditioned, "loss hessian is not positive definite")
	}
	if cond := chol.Cond(); cond > MaxHessianCondition {
		return newFitFailure(ErrIllConditioned, "loss hessian condition number %g exceeds %g", cond, MaxHessianCondition)
	}

	g := make([]float64, len(p))
	l.grad(g, p)

	var step mat.VecDense
	if err := chol.SolveVecTo(&step, mat.NewVecDense(len(g), g)); err != nil {
		return newFitFailure(ErrIllConditioned, "%v", err)
	}

	next := make([]float64, len(p))
	floats.SubTo(next, p, step.RawVector().Data)

	f := l.loss(p)
	fNext := l.loss(next)
	if math.IsNaN(f) || fNext < f-decreaseTolerance*f-1e-14 {
		return newFitFailure(ErrNoConvergence, "loss %g can still drop to %g", f, fNext)
	}
	return nil
}
