package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerode/internal/ode"
)

// MaxError is the largest max-norm distance between an observed state and
// the closed-form solution through (t0, y0).
type MaxError struct {
	name   string
	exact  ode.Exact
	t0     float64
	y0     ode.State
	maxErr float64
}

func NewMaxError(exact ode.Exact, t0 float64, y0 ode.State) *MaxError {
	return &MaxError{
		name:  "max_error",
		exact: exact,
		t0:    t0,
		y0:    y0.Clone(),
	}
}

func (m *MaxError) Name() string { return m.name }

func (m *MaxError) Observe(t float64, y ode.State) {
	ref := m.exact.Exact(m.t0, m.y0, t)
	if len(ref) != len(y) || len(y) == 0 {
		return
	}
	m.maxErr = math.Max(m.maxErr, floats.Distance(y, ref, math.Inf(1)))
}

func (m *MaxError) Value() float64 { return m.maxErr }

func (m *MaxError) Reset() { m.maxErr = 0 }
