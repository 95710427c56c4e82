package ode

import "gonum.org/v1/gonum/mat"

// Func is the right-hand side dy/dt = f(t, y). It must return a vector of
// the same length as y and must not retain y.
type Func func(t float64, y State) (State, error)

// System is a model that can be integrated.
type System interface {
	Derive(t float64, y State) State
	StateDim() int
}

// SystemFunc adapts a System to a Func.
func SystemFunc(sys System) Func {
	return func(t float64, y State) (State, error) {
		return sys.Derive(t, y), nil
	}
}

// Hamiltonian is implemented by systems with a conserved energy.
type Hamiltonian interface {
	Energy(y State) float64
}

// Exact is implemented by systems with a closed-form solution.
type Exact interface {
	Exact(t0 float64, y0 State, t float64) State
}

type Status int

const (
	StatusRunning Status = iota
	StatusFinished
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Interpolant evaluates the solution over the most recently completed step.
type Interpolant interface {
	// Span returns the step interval [tOld, tNew] the interpolant was built from.
	Span() (tOld, tNew float64)
	// At evaluates the solution at a single time.
	At(t float64) State
	// AtEach evaluates the solution at every time in ts. Column j of the
	// result is the state at ts[j].
	AtEach(ts []float64) *mat.Dense
}

// Stepper advances an ODE solution one step per call to Step.
type Stepper interface {
	T() float64
	Y() State
	TBound() float64
	Direction() float64
	Status() Status
	NFev() int
	Step() error
	DenseOutput() Interpolant
}
