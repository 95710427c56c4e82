package integrators

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eulerode/internal/ode"
)

var _ ode.Interpolant = &StepInterpolant{}

// StepInterpolant is the dense output of one Euler step. It holds the
// solution constant at the value it had at the start of the step, for any
// query time, inside [tOld, tNew] or not.
type StepInterpolant struct {
	tOld, tNew float64
	yOld, yNew ode.State
}

func NewStepInterpolant(tOld, tNew float64, yOld, yNew ode.State) *StepInterpolant {
	return &StepInterpolant{
		tOld: tOld,
		tNew: tNew,
		yOld: yOld.Clone(),
		yNew: yNew.Clone(),
	}
}

func (s *StepInterpolant) Span() (float64, float64) { return s.tOld, s.tNew }

// YNew returns the state at the end of the step. Queries never use it.
func (s *StepInterpolant) YNew() ode.State { return s.yNew.Clone() }

// At returns the state at the start of the step. t is not inspected.
func (s *StepInterpolant) At(t float64) ode.State {
	return s.yOld.Clone()
}

// AtEach returns a len(yOld) x len(ts) matrix whose every column is the
// state at the start of the step. An empty matrix is returned when either
// dimension is zero.
func (s *StepInterpolant) AtEach(ts []float64) *mat.Dense {
	if len(ts) == 0 || len(s.yOld) == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(len(s.yOld), len(ts), nil)
	for j := range ts {
		out.SetCol(j, s.yOld)
	}
	return out
}
