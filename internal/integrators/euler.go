package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerode/internal/ode"
)

var _ ode.Stepper = &Euler{}

// Euler is a fixed-step explicit Euler stepper:
//
//	y_{n+1} = y_n + h * f(t_n, y_n)
//
// The final step is shortened so the stepper lands exactly on t_bound.
type Euler struct {
	*ode.Base

	h float64

	stepped bool
	tOld    float64
	yOld    ode.State
}

func NewEuler(fun ode.Func, t0 float64, y0 ode.State, tBound float64, opts Options) (*Euler, error) {
	if len(opts.Extra) > 0 {
		opts.logger().WithField("options", opts.extraKeys()).
			Warn("extraneous options passed to euler stepper, ignoring")
	}

	base, err := ode.NewBase(fun, t0, y0, tBound, opts.Vectorized, opts.SupportComplex)
	if err != nil {
		return nil, err
	}

	h := math.Abs(opts.H)
	switch {
	case math.IsNaN(h) || math.IsInf(h, 0), h == 0 && opts.HSet:
		return nil, fmt.Errorf("%w: h=%v", ode.ErrInvalidStepSize, opts.H)
	case h == 0:
		h = math.Abs(tBound-t0) / 100.0
	}

	return &Euler{
		Base: base,
		h:    h,
	}, nil
}

// H returns the step magnitude.
func (e *Euler) H() float64 { return e.h }

// TOld returns the start time of the last attempted step.
func (e *Euler) TOld() (float64, bool) { return e.tOld, e.stepped }

// Step advances by one step under the running/finished/failed lifecycle.
func (e *Euler) Step() error {
	return e.Base.Step(e.Advance)
}

// Advance performs one Euler step. The start-of-step snapshot is taken
// before the right-hand side runs, so it moves even when the evaluation
// fails; t and y are only replaced after a successful evaluation.
func (e *Euler) Advance() error {
	t := e.T()
	e.tOld = t
	e.yOld = e.Y()
	e.stepped = true

	f, err := e.Eval(t, e.Y())
	if err != nil {
		return err
	}

	tBound := e.TBound()
	h := e.Direction() * e.h
	tNew := t + h
	if e.Direction()*(t+h-tBound) > 0 {
		h = tBound - t
		tNew = tBound
	}

	y := make(ode.State, len(e.yOld))
	floats.AddScaledTo(y, e.yOld, h, f)

	e.Commit(tNew, y)
	return nil
}

// DenseOutput returns the interpolant of the last step, or a degenerate
// one at the current state when no step has been attempted.
func (e *Euler) DenseOutput() ode.Interpolant {
	if !e.stepped {
		y := e.Y()
		return NewStepInterpolant(e.T(), e.T(), y, y)
	}
	return NewStepInterpolant(e.tOld, e.T(), e.yOld, e.Y())
}
