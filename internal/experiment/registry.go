package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/eulerode/internal/integrators"
	"github.com/san-kum/eulerode/internal/metrics"
	"github.com/san-kum/eulerode/internal/models"
	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

// Method builds a stepper for a problem.
type Method func(fun ode.Func, t0 float64, y0 ode.State, tBound float64, opts integrators.Options) (ode.Stepper, error)

type Registry struct {
	models  map[string]func() models.Model
	methods map[string]Method
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func() models.Model),
		methods: make(map[string]Method),
	}

	r.models["decay"] = func() models.Model { return models.NewDecay() }
	r.models["oscillator"] = func() models.Model { return models.NewOscillator() }
	r.models["logistic"] = func() models.Model { return models.NewLogistic() }
	r.models["pendulum"] = func() models.Model { return models.NewPendulum() }
	r.models["lorenz"] = func() models.Model { return models.NewLorenz() }
	r.models["vanderpol"] = func() models.Model { return models.NewVanDerPol() }

	r.methods["euler"] = func(fun ode.Func, t0 float64, y0 ode.State, tBound float64, opts integrators.Options) (ode.Stepper, error) {
		return integrators.NewEuler(fun, t0, y0, tBound, opts)
	}

	return r
}

func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMethod(name string) (Method, error) {
	fn, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListMethods() []string {
	return sortedKeys(r.methods)
}

// DefaultMetrics returns the metrics the model supports: energy drift for
// Hamiltonian models, max error for models with a closed-form solution.
func (r *Registry) DefaultMetrics(model models.Model, t0 float64, y0 ode.State) []sim.Metric {
	var out []sim.Metric
	if h, ok := model.(ode.Hamiltonian); ok {
		out = append(out, metrics.NewEnergyDrift(h))
	}
	if ex, ok := model.(ode.Exact); ok {
		out = append(out, metrics.NewMaxError(ex, t0, y0))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
