package ode

import (
	"fmt"
	"math"
)

// Base carries the state every stepping method shares: the right-hand side,
// the current (t, y), the bound, the integration direction and the status.
// Methods embed it and implement only their own advance.
type Base struct {
	fun            Func
	t              float64
	y              State
	tBound         float64
	direction      float64
	status         Status
	nfev           int
	vectorized     bool
	supportComplex bool
}

// NewBase validates the problem and returns a running Base positioned at
// (t0, y0). y0 is copied.
func NewBase(fun Func, t0 float64, y0 State, tBound float64, vectorized, supportComplex bool) (*Base, error) {
	if fun == nil {
		return nil, ErrNilFunc
	}
	if math.IsNaN(t0) || math.IsInf(t0, 0) || math.IsNaN(tBound) || math.IsInf(tBound, 0) {
		return nil, fmt.Errorf("%w: t0=%v, t_bound=%v", ErrNonFiniteTime, t0, tBound)
	}

	direction := 1.0
	if tBound < t0 {
		direction = -1.0
	}

	y := y0.Clone()
	if y == nil {
		y = State{}
	}

	return &Base{
		fun:            fun,
		t:              t0,
		y:              y,
		tBound:         tBound,
		direction:      direction,
		status:         StatusRunning,
		vectorized:     vectorized,
		supportComplex: supportComplex,
	}, nil
}

func (b *Base) T() float64           { return b.t }
func (b *Base) Y() State             { return b.y.Clone() }
func (b *Base) TBound() float64      { return b.tBound }
func (b *Base) Direction() float64   { return b.direction }
func (b *Base) Status() Status       { return b.status }
func (b *Base) NFev() int            { return b.nfev }
func (b *Base) Vectorized() bool     { return b.vectorized }
func (b *Base) SupportComplex() bool { return b.supportComplex }

// Eval calls the right-hand side at (t, y). Errors and panics raised by the
// function, and derivatives of the wrong length, come back as *StepError.
func (b *Base) Eval(t float64, y State) (f State, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = NewStepError(CodeRHSPanic, fmt.Errorf("%v", r))
		}
	}()

	b.nfev++
	f, ferr := b.fun(t, y)
	if ferr != nil {
		return nil, NewStepError(CodeRHSError, ferr)
	}
	if len(f) != len(y) {
		return nil, NewStepError(CodeDimensionMismatch,
			fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(f), len(y)))
	}
	return f, nil
}

// Commit replaces the current state. y is retained, not copied.
func (b *Base) Commit(t float64, y State) {
	b.t = t
	b.y = y
}

// Step runs one advance of a method and maintains the status lifecycle.
// An empty state or a stepper already sitting on t_bound finishes without
// calling advance.
func (b *Base) Step(advance func() error) error {
	if b.status != StatusRunning {
		return ErrNotRunning
	}

	if len(b.y) == 0 || b.t == b.tBound {
		b.t = b.tBound
		b.status = StatusFinished
		return nil
	}

	if err := advance(); err != nil {
		b.status = StatusFailed
		return err
	}

	if b.direction*(b.t-b.tBound) >= 0 {
		b.status = StatusFinished
	}
	return nil
}
