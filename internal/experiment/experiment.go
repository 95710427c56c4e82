package experiment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/eulerode/internal/config"
	"github.com/san-kum/eulerode/internal/integrators"
	"github.com/san-kum/eulerode/internal/models"
	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

var ErrStateDim = errors.New("experiment: initial state does not match model dimension")

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   logrus.FieldLogger

	model     models.Model
	y0        ode.State
	method    Method
	opts      integrators.Options
	stepper   ode.Stepper
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger logrus.FieldLogger) *Experiment {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Setup resolves the model and method and builds the stepper and simulator.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	model, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(e.cfg.Params))
	for name := range e.cfg.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := model.SetParam(name, e.cfg.Params[name]); err != nil {
			return err
		}
	}

	y0 := ode.State(e.cfg.Y0).Clone()
	if len(y0) == 0 {
		y0 = model.DefaultState()
	}
	if len(y0) != model.StateDim() {
		return fmt.Errorf("%w: %s wants %d, got %d", ErrStateDim, e.cfg.Model, model.StateDim(), len(y0))
	}

	method, err := e.registry.GetMethod(e.cfg.Method)
	if err != nil {
		return err
	}

	opts, err := integrators.DecodeOptions(e.cfg.Options)
	if err != nil {
		return err
	}
	opts.Logger = e.logger.WithField("model", e.cfg.Model)

	stepper, err := method(ode.SystemFunc(model), e.cfg.T0, y0, e.cfg.TBound, opts)
	if err != nil {
		return err
	}

	e.model, e.y0, e.method, e.opts = model, y0, method, opts
	e.stepper = stepper
	e.simulator = sim.New(stepper)
	for _, m := range e.registry.DefaultMetrics(model, e.cfg.T0, y0) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}

	log := e.logger.WithFields(logrus.Fields{
		"model":   e.cfg.Model,
		"method":  e.cfg.Method,
		"t0":      e.cfg.T0,
		"t_bound": e.cfg.TBound,
	})
	log.Debug("run started")

	start := time.Now()
	result, err := e.simulator.Run(ctx, e.SimConfig())
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status":  result.Status,
		"steps":   result.StepsTaken,
		"nfev":    result.NFev,
		"elapsed": time.Since(start),
	}).Info(result.Message)

	return result, nil
}

// Sweep runs the problem once per step size, in parallel. limit bounds the
// runs in flight; zero means no limit.
func (e *Experiment) Sweep(ctx context.Context, hs []float64, limit int) ([]*sim.Result, error) {
	if e.simulator == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}

	fun := ode.SystemFunc(e.model)
	ens := sim.NewEnsemble(func(i int) (ode.Stepper, error) {
		opts := e.opts
		opts.H, opts.HSet = hs[i], true
		return e.method(fun, e.cfg.T0, e.y0, e.cfg.TBound, opts)
	}, len(hs))
	ens.SetLimit(limit)
	ens.SetMetrics(func(int) []sim.Metric {
		return e.registry.DefaultMetrics(e.model, e.cfg.T0, e.y0)
	})

	return ens.Run(ctx, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		TEval:         e.cfg.TEval,
		DenseOutput:   e.cfg.DenseOutput,
		ValidateState: e.cfg.ValidateState,
		MaxSteps:      e.cfg.MaxSteps,
	}
}

func (e *Experiment) Registry() *Registry { return e.registry }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Model() models.Model { return e.model }

func (e *Experiment) Stepper() ode.Stepper { return e.stepper }

// InitialState returns y0 as resolved by Setup.
func (e *Experiment) InitialState() ode.State { return e.y0.Clone() }
