package sim

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eulerode/internal/ode"
)

// Trajectory is the dense solution of a whole run: the interpolants of
// every step, in integration order. A time is evaluated by the step that
// covers it; times before the first or after the last step use the nearest
// step. A time on a breakpoint uses the earlier step.
type Trajectory struct {
	direction float64
	ts        []float64
	segments  []ode.Interpolant
}

func NewTrajectory(direction float64) *Trajectory {
	if direction == 0 {
		direction = 1
	}
	return &Trajectory{direction: direction}
}

func (tr *Trajectory) Append(seg ode.Interpolant) {
	tOld, tNew := seg.Span()
	if len(tr.ts) == 0 {
		tr.ts = append(tr.ts, tOld)
	}
	tr.ts = append(tr.ts, tNew)
	tr.segments = append(tr.segments, seg)
}

// Len returns the number of steps.
func (tr *Trajectory) Len() int { return len(tr.segments) }

// Breakpoints returns the step boundaries t0, t1, ..., tn.
func (tr *Trajectory) Breakpoints() []float64 {
	out := make([]float64, len(tr.ts))
	copy(out, tr.ts)
	return out
}

func (tr *Trajectory) At(t float64) (ode.State, error) {
	if len(tr.segments) == 0 {
		return nil, ErrNoSteps
	}
	return tr.segments[tr.locate(t)].At(t), nil
}

// AtEach evaluates every time in ts; column j of the result is the state at ts[j].
func (tr *Trajectory) AtEach(ts []float64) (*mat.Dense, error) {
	if len(tr.segments) == 0 {
		return nil, ErrNoSteps
	}
	if len(ts) == 0 {
		return &mat.Dense{}, nil
	}

	first := tr.segments[tr.locate(ts[0])].At(ts[0])
	if len(first) == 0 {
		return &mat.Dense{}, nil
	}

	out := mat.NewDense(len(first), len(ts), nil)
	out.SetCol(0, first)
	for j := 1; j < len(ts); j++ {
		out.SetCol(j, tr.segments[tr.locate(ts[j])].At(ts[j]))
	}
	return out, nil
}

func (tr *Trajectory) locate(t float64) int {
	var idx int
	if tr.direction > 0 {
		idx = sort.Search(len(tr.ts), func(i int) bool { return tr.ts[i] >= t })
	} else {
		idx = sort.Search(len(tr.ts), func(i int) bool { return tr.ts[i] <= t })
	}

	seg := idx - 1
	if seg < 0 {
		seg = 0
	}
	if seg > len(tr.segments)-1 {
		seg = len(tr.segments) - 1
	}
	return seg
}
