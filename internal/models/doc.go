// Package models provides right-hand sides for the stepper.
//
// Each model implements [ode.System]; some also implement [ode.Exact] (a
// closed-form solution used to measure global error) or [ode.Hamiltonian]
// (a conserved energy used to measure drift).
//
// Model parameters are exposed through [Configurable]:
//
//	m := models.NewOscillator()
//	_ = m.SetParam("omega", 2)
//	fun := ode.SystemFunc(m)
package models

import (
	"errors"

	"github.com/san-kum/eulerode/internal/ode"
)

// ErrUnknownParam indicates SetParam was given a name the model does not have.
var ErrUnknownParam = errors.New("models: unknown parameter")

type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Model is what the registry hands out.
type Model interface {
	ode.System
	Configurable
	DefaultState() ode.State
}
