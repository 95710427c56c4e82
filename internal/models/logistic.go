package models

import (
	"fmt"
	"math"

	"github.com/san-kum/eulerode/internal/ode"
)

// Logistic is logistic growth: dy/dt = r y (1 - y/K).
type Logistic struct {
	r, k float64
}

func NewLogistic() *Logistic { return &Logistic{r: 1.0, k: 10.0} }

func (l *Logistic) StateDim() int { return 1 }

func (l *Logistic) Derive(t float64, y ode.State) ode.State {
	return ode.State{l.r * y[0] * (1 - y[0]/l.k)}
}

func (l *Logistic) Exact(t0 float64, y0 ode.State, t float64) ode.State {
	if y0[0] == 0 {
		return ode.State{0}
	}
	return ode.State{l.k / (1 + (l.k/y0[0]-1)*math.Exp(-l.r*(t-t0)))}
}

func (l *Logistic) DefaultState() ode.State { return ode.State{0.5} }

func (l *Logistic) Params() map[string]float64 {
	return map[string]float64{"r": l.r, "k": l.k}
}

func (l *Logistic) SetParam(name string, value float64) error {
	switch name {
	case "r":
		l.r = value
	case "k":
		l.k = value
	default:
		return fmt.Errorf("%w: logistic has no %q", ErrUnknownParam, name)
	}
	return nil
}
