package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eulerode/internal/ode"
)

// Simulator drives a Stepper from its current state to t_bound.
type Simulator struct {
	stepper   ode.Stepper
	metrics   []Metric
	observers []Observer
}

func New(stepper ode.Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps until the stepper finishes or fails. A step failure is not an
// error: it is reported through Result.Status and Result.Message. Errors are
// returned for invalid configuration, cancellation and misuse of the stepper.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t0, y0 := s.stepper.T(), s.stepper.Y()
	direction := s.stepper.Direction()

	result := &Result{
		Times:   make([]float64, 0),
		States:  make([]ode.State, 0),
		Metrics: make(map[string]float64),
	}
	if cfg.TEval == nil {
		result.Times = append(result.Times, t0)
		result.States = append(result.States, y0)
	}
	if cfg.DenseOutput {
		result.Trajectory = NewTrajectory(direction)
	}
	s.observe(t0, y0)

	var simErr error
	nextEval := 0

	for s.stepper.Status() == ode.StatusRunning {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.MaxSteps > 0 && result.StepsTaken >= cfg.MaxSteps {
			simErr = SimError{Time: s.stepper.T(), Step: result.StepsTaken, Message: ErrStepLimit.Error()}
			break
		}

		if err := s.stepper.Step(); err != nil {
			var stepErr *ode.StepError
			if errors.As(err, &stepErr) {
				result.Message = stepErr.Message
				break
			}
			return result, fmt.Errorf("step %d: %w", result.StepsTaken, err)
		}
		result.StepsTaken++

		t, y := s.stepper.T(), s.stepper.Y()

		if cfg.ValidateState && !y.IsValid() {
			simErr = SimError{Time: t, Step: result.StepsTaken, Message: "invalid state (NaN/Inf)"}
			break
		}

		s.observe(t, y)

		var dense ode.Interpolant
		if cfg.TEval != nil || cfg.DenseOutput {
			dense = s.stepper.DenseOutput()
		}

		if cfg.TEval == nil {
			result.Times = append(result.Times, t)
			result.States = append(result.States, y)
		} else {
			end := nextEval
			for end < len(cfg.TEval) && direction*(cfg.TEval[end]-t) <= 0 {
				end++
			}
			if end > nextEval {
				batch := cfg.TEval[nextEval:end]
				result.Times = append(result.Times, batch...)
				result.States = append(result.States, columns(dense.AtEach(batch), len(batch), len(y))...)
				nextEval = end
			}
		}

		if cfg.DenseOutput {
			result.Trajectory.Append(dense)
		}
	}

	result.Status = s.stepper.Status()
	if simErr != nil {
		result.Status = ode.StatusFailed
		result.Message = simErr.Error()
	}
	result.Success = result.Status == ode.StatusFinished
	if result.Success {
		result.Message = SuccessMessage
	}
	result.NFev = s.stepper.NFev()

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(t float64, y ode.State) {
	for _, m := range s.metrics {
		m.Observe(t, y)
	}
	for _, obs := range s.observers {
		obs.OnStep(t, y)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d", cfg.MaxSteps)
	}

	if len(cfg.TEval) == 0 {
		return nil
	}

	t0, tBound := s.stepper.T(), s.stepper.TBound()
	lo, hi := math.Min(t0, tBound), math.Max(t0, tBound)
	direction := s.stepper.Direction()

	for i, v := range cfg.TEval {
		if math.IsNaN(v) || v < lo || v > hi {
			return fmt.Errorf("%w: t_eval[%d]=%v outside [%v, %v]", ErrInvalidTEval, i, v, lo, hi)
		}
		if i > 0 && direction*(v-cfg.TEval[i-1]) <= 0 {
			return fmt.Errorf("%w: t_eval[%d]=%v not after %v", ErrInvalidTEval, i, v, cfg.TEval[i-1])
		}
	}
	return nil
}

// columns splits an r x n matrix into n states of length dim.
func columns(m *mat.Dense, n, dim int) []ode.State {
	out := make([]ode.State, n)
	for j := 0; j < n; j++ {
		if dim == 0 {
			out[j] = ode.State{}
			continue
		}
		out[j] = mat.Col(nil, j, m)
	}
	return out
}
