package models

import (
	"fmt"
	"math"

	"github.com/san-kum/eulerode/internal/ode"
)

const DefaultOmega = 1.0

// Oscillator is the undamped harmonic oscillator.
// State: [x, v]
//
//	dx/dt = v
//	dv/dt = -ω² x
type Oscillator struct {
	omega float64
}

func NewOscillator() *Oscillator { return &Oscillator{omega: DefaultOmega} }

func (o *Oscillator) StateDim() int { return 2 }

func (o *Oscillator) Derive(t float64, y ode.State) ode.State {
	return ode.State{y[1], -o.omega * o.omega * y[0]}
}

func (o *Oscillator) Energy(y ode.State) float64 {
	return 0.5 * (y[1]*y[1] + o.omega*o.omega*y[0]*y[0])
}

func (o *Oscillator) Exact(t0 float64, y0 ode.State, t float64) ode.State {
	s, c := math.Sincos(o.omega * (t - t0))
	x0, v0 := y0[0], y0[1]
	return ode.State{
		x0*c + v0/o.omega*s,
		-x0*o.omega*s + v0*c,
	}
}

func (o *Oscillator) DefaultState() ode.State { return ode.State{1.0, 0.0} }

func (o *Oscillator) Params() map[string]float64 {
	return map[string]float64{"omega": o.omega}
}

func (o *Oscillator) SetParam(name string, value float64) error {
	if name != "omega" {
		return fmt.Errorf("%w: oscillator has no %q", ErrUnknownParam, name)
	}
	o.omega = value
	return nil
}
