package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/eulerode/internal/sim"
)

const namespace = "eulerode"

// Recorder aggregates run results into a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	runs    *prometheus.CounterVec
	steps   *prometheus.CounterVec
	nfev    *prometheus.CounterVec
	metrics *prometheus.GaugeVec
	tFinal  *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by model, method and final status.",
		}, []string{"model", "method", "status"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Steps taken.",
		}, []string{"model", "method"}),
		nfev: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rhs_evaluations_total",
			Help:      "Right-hand side evaluations.",
		}, []string{"model", "method"}),
		metrics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_metric",
			Help:      "Last value of each run metric.",
		}, []string{"model", "metric"}),
		tFinal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "final_time",
			Help:      "Time reached by the last run.",
		}, []string{"model"}),
	}

	r.registry.MustRegister(r.runs, r.steps, r.nfev, r.metrics, r.tFinal)
	return r
}

func (r *Recorder) Observe(model, method string, res *sim.Result) {
	r.runs.WithLabelValues(model, method, res.Status.String()).Inc()
	r.steps.WithLabelValues(model, method).Add(float64(res.StepsTaken))
	r.nfev.WithLabelValues(model, method).Add(float64(res.NFev))

	for name, v := range res.Metrics {
		r.metrics.WithLabelValues(model, name).Set(v)
	}
	if t, _, ok := res.Final(); ok {
		r.tFinal.WithLabelValues(model).Set(t)
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
