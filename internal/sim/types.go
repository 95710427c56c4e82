package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/eulerode/internal/ode"
)

var (
	ErrInvalidTEval = errors.New("sim: t_eval must be strictly monotone in the integration direction and within [t0, t_bound]")
	ErrStepLimit    = errors.New("sim: step limit reached before t_bound")
	ErrNoSteps      = errors.New("sim: trajectory holds no steps")
)

// SuccessMessage is reported when a run reaches t_bound.
const SuccessMessage = "The solver successfully reached the end of the integration interval."

type Metric interface {
	Name() string
	Observe(t float64, y ode.State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(t float64, y ode.State)
}

type Config struct {
	// TEval, when non-nil, replaces the per-step record with samples of the
	// dense output at these times.
	TEval []float64
	// DenseOutput keeps every step's interpolant in Result.Trajectory.
	DenseOutput bool
	// ValidateState fails the run on the first NaN or Inf state.
	ValidateState bool
	// MaxSteps bounds the number of steps; zero means unbounded.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		ValidateState: true,
	}
}

type Result struct {
	Times      []float64
	States     []ode.State
	Status     ode.Status
	Success    bool
	Message    string
	StepsTaken int
	NFev       int
	Trajectory *Trajectory
	Metrics    map[string]float64
}

// Final returns the last recorded time and state.
func (r *Result) Final() (float64, ode.State, bool) {
	if len(r.Times) == 0 {
		return 0, nil, false
	}
	return r.Times[len(r.Times)-1], r.States[len(r.States)-1], true
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
