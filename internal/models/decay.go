package models

import (
	"fmt"
	"math"

	"github.com/san-kum/eulerode/internal/ode"
)

// Decay is exponential decay applied to every component: dy/dt = -k y.
type Decay struct {
	rate float64
}

func NewDecay() *Decay { return &Decay{rate: 1.0} }

func (d *Decay) StateDim() int { return 1 }

func (d *Decay) Derive(t float64, y ode.State) ode.State {
	return y.Scale(-d.rate)
}

func (d *Decay) Exact(t0 float64, y0 ode.State, t float64) ode.State {
	return y0.Scale(math.Exp(-d.rate * (t - t0)))
}

func (d *Decay) DefaultState() ode.State { return ode.State{1.0} }

func (d *Decay) Params() map[string]float64 {
	return map[string]float64{"rate": d.rate}
}

func (d *Decay) SetParam(name string, value float64) error {
	if name != "rate" {
		return fmt.Errorf("%w: decay has no %q", ErrUnknownParam, name)
	}
	d.rate = value
	return nil
}
