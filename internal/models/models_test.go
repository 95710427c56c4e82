package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/eulerode/internal/ode"
)

var (
	_ Model = &Decay{}
	_ Model = &Oscillator{}
	_ Model = &Logistic{}
	_ Model = &Pendulum{}
	_ Model = &Lorenz{}
	_ Model = &VanDerPol{}

	_ ode.Exact       = &Decay{}
	_ ode.Exact       = &Oscillator{}
	_ ode.Exact       = &Logistic{}
	_ ode.Hamiltonian = &Oscillator{}
	_ ode.Hamiltonian = &Pendulum{}
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		dim   int
	}{
		{"decay", NewDecay(), 1},
		{"oscillator", NewOscillator(), 2},
		{"logistic", NewLogistic(), 1},
		{"pendulum", NewPendulum(), 2},
		{"lorenz", NewLorenz(), 3},
		{"vanderpol", NewVanDerPol(), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.model.StateDim() != tt.dim {
				t.Errorf("StateDim() = %d, want %d", tt.model.StateDim(), tt.dim)
			}
			y0 := tt.model.DefaultState()
			if len(y0) != tt.dim {
				t.Errorf("DefaultState() has %d entries, want %d", len(y0), tt.dim)
			}
			if dy := tt.model.Derive(0, y0); len(dy) != tt.dim {
				t.Errorf("Derive() has %d entries, want %d", len(dy), tt.dim)
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		param string
	}{
		{"decay", NewDecay(), "rate"},
		{"oscillator", NewOscillator(), "omega"},
		{"logistic", NewLogistic(), "k"},
		{"pendulum", NewPendulum(), "gravity"},
		{"lorenz", NewLorenz(), "rho"},
		{"vanderpol", NewVanDerPol(), "mu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.model.SetParam(tt.param, 3.5); err != nil {
				t.Fatalf("SetParam failed: %v", err)
			}
			if got := tt.model.Params()[tt.param]; got != 3.5 {
				t.Errorf("Params()[%q] = %v, want 3.5", tt.param, got)
			}
			if err := tt.model.SetParam("nope", 1); !errors.Is(err, ErrUnknownParam) {
				t.Errorf("expected ErrUnknownParam, got %v", err)
			}
		})
	}
}

func TestDecayDerivative(t *testing.T) {
	d := NewDecay()
	_ = d.SetParam("rate", 2)

	dy := d.Derive(0, ode.State{1, -3})
	if dy[0] != -2 || dy[1] != 6 {
		t.Errorf("expected [-2 6], got %v", dy)
	}

	exact := d.Exact(1, ode.State{1}, 2)
	if math.Abs(exact[0]-math.Exp(-2)) > 1e-12 {
		t.Errorf("expected %v, got %v", math.Exp(-2), exact[0])
	}
}

func TestOscillatorExactConservesEnergy(t *testing.T) {
	o := NewOscillator()
	_ = o.SetParam("omega", 2)

	y0 := ode.State{1, 0.5}
	e0 := o.Energy(y0)
	for _, tt := range []float64{0.1, 1, 10} {
		y := o.Exact(0, y0, tt)
		if math.Abs(o.Energy(y)-e0) > 1e-9 {
			t.Errorf("t=%v: energy %v, want %v", tt, o.Energy(y), e0)
		}
	}

	y := o.Exact(0, y0, 0)
	if math.Abs(y[0]-1) > 1e-12 || math.Abs(y[1]-0.5) > 1e-12 {
		t.Errorf("Exact at t0 = %v, want %v", y, y0)
	}
}

func TestLogisticEquilibria(t *testing.T) {
	l := NewLogistic()

	if dy := l.Derive(0, ode.State{0}); dy[0] != 0 {
		t.Errorf("expected zero growth at 0, got %v", dy[0])
	}
	if dy := l.Derive(0, ode.State{10}); dy[0] != 0 {
		t.Errorf("expected zero growth at capacity, got %v", dy[0])
	}

	y := l.Exact(0, ode.State{0.5}, 50)
	if math.Abs(y[0]-10) > 1e-6 {
		t.Errorf("expected approach to capacity, got %v", y[0])
	}
}

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(0, ode.State{0, 0})

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}

	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := p.Derive(0, ode.State{math.Pi / 2, 0})

	expectedAccel := -p.Gravity / p.Length

	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestLorenzFixedPoint(t *testing.T) {
	l := NewLorenz()
	dx := l.Derive(0, ode.State{0, 0, 0})
	for i, v := range dx {
		if v != 0 {
			t.Errorf("derivative[%d] at origin should be 0, got %f", i, v)
		}
	}
}
