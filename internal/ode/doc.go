// Package ode provides the core primitives shared by every step-wise ODE
// solver in this module.
//
// The package defines the contracts a stepping method has to satisfy and the
// bookkeeping common to all of them:
//
//   - [State]: vector representing the system state y
//   - [Func]: right-hand side dy/dt = f(t, y)
//   - [System]: model interface adapted to a [Func] with [SystemFunc]
//   - [Stepper]: one integration step per call, plus dense output
//   - [Interpolant]: evaluates the solution inside the last step
//   - [Base]: shared state, argument validation and the status lifecycle
//
// # Lifecycle
//
// A stepper starts [StatusRunning]. [Base.Step] moves it to
// [StatusFinished] once t reaches t_bound, or to [StatusFailed] when the
// method reports a [StepError]. Stepping a stepper that is no longer running
// returns [ErrNotRunning].
//
// # Thread Safety
//
// Steppers and interpolants are NOT thread-safe. Run independent problems on
// independent steppers.
package ode
