package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/eulerode/internal/integrators"
	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

func decay(t float64, y ode.State) (ode.State, error) {
	return ode.State{-y[0]}, nil
}

func newEuler(fun ode.Func, t0 float64, y0 ode.State, tBound, h float64) *integrators.Euler {
	logger, _ := test.NewNullLogger()
	e, err := integrators.NewEuler(fun, t0, y0, tBound, integrators.Options{H: h, Logger: logger})
	Expect(err).NotTo(HaveOccurred())
	return e
}

type countingMetric struct {
	count int
	sum   float64
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(t float64, y ode.State) {
	c.count++
	c.sum += y[0]
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset() {
	c.count = 0
	c.sum = 0
}

type recorder struct{ times []float64 }

func (r *recorder) OnStep(t float64, y ode.State) { r.times = append(r.times, t) }

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Run", func() {
		It("records every step until t_bound", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Times).To(Equal([]float64{0, 0.5, 1}))
			Expect(result.States).To(Equal([]ode.State{{1}, {0.5}, {0.25}}))
			Expect(result.Status).To(Equal(ode.StatusFinished))
			Expect(result.Success).To(BeTrue())
			Expect(result.Message).To(Equal(sim.SuccessMessage))
			Expect(result.StepsTaken).To(Equal(2))
			Expect(result.NFev).To(Equal(2))

			t, y, ok := result.Final()
			Expect(ok).To(BeTrue())
			Expect(t).To(Equal(1.0))
			Expect(y).To(Equal(ode.State{0.25}))
		})

		It("lands exactly on t_bound with the default step", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0))

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(BeNumerically("<=", 101))
			Expect(result.Times[len(result.Times)-1]).To(Equal(1.0))
			Expect(result.States[len(result.States)-1][0]).To(BeNumerically("~", math.Pow(0.99, 100), 1e-9))
		})

		It("finishes a zero-length interval without evaluating", func() {
			s := sim.New(newEuler(decay, 2, ode.State{1}, 2, 0))

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())
			Expect(result.NFev).To(Equal(0))
			Expect(result.Times).To(Equal([]float64{2, 2}))
		})

		It("reports a step failure through the result", func() {
			calls := 0
			fun := func(t float64, y ode.State) (ode.State, error) {
				calls++
				if calls == 2 {
					return nil, errors.New("singular")
				}
				return ode.State{-y[0]}, nil
			}
			s := sim.New(newEuler(fun, 0, ode.State{1}, 1, 0.25))

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ode.StatusFailed))
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Step failed: singular"))
			Expect(result.Times).To(Equal([]float64{0, 0.25}))
			Expect(result.StepsTaken).To(Equal(1))
		})

		It("fails on a non-finite state when validating", func() {
			fun := func(t float64, y ode.State) (ode.State, error) {
				return ode.State{math.Inf(1)}, nil
			}
			s := sim.New(newEuler(fun, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ode.StatusFailed))
			Expect(result.Message).To(ContainSubstring("invalid state"))
		})

		It("keeps non-finite states when not validating", func() {
			fun := func(t float64, y ode.State) (ode.State, error) {
				return ode.State{math.Inf(1)}, nil
			}
			s := sim.New(newEuler(fun, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())
			Expect(math.IsInf(result.States[2][0], 1)).To(BeTrue())
		})

		It("stops at the step limit", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.1))

			result, err := s.Run(ctx, sim.Config{MaxSteps: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(ode.StatusFailed))
			Expect(result.StepsTaken).To(Equal(3))
			Expect(result.Message).To(ContainSubstring(sim.ErrStepLimit.Error()))
		})

		It("rejects a negative step limit", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.1))
			_, err := s.Run(ctx, sim.Config{MaxSteps: -1})
			Expect(err).To(HaveOccurred())
		})

		It("returns the context error when canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.1))
			result, err := s.Run(canceled, sim.DefaultConfig())
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.StepsTaken).To(Equal(0))
		})

		It("does not step a stepper that already finished", func() {
			e := newEuler(decay, 0, ode.State{1}, 1, 0.5)
			_, err := sim.New(e).Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			result, err := sim.New(e).Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(0))
			Expect(result.Success).To(BeTrue())
		})

		It("feeds metrics and observers the initial state and every step", func() {
			metric := &countingMetric{}
			obs := &recorder{}
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.25))
			s.AddMetric(metric)
			s.AddObserver(obs)

			result, err := s.Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 5.0))
			Expect(obs.times).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
		})
	})

	Describe("t_eval sampling", func() {
		It("samples the start-of-step value for points inside each step", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.Config{TEval: []float64{0, 0.25, 0.5, 0.75, 1}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Times).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
			Expect(result.States).To(Equal([]ode.State{{1}, {1}, {1}, {0.5}, {0.5}}))
		})

		It("samples backward integrations", func() {
			s := sim.New(newEuler(decay, 1, ode.State{1}, 0, 0.5))

			result, err := s.Run(ctx, sim.Config{TEval: []float64{1, 0.6, 0.2, 0}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Times).To(Equal([]float64{1, 0.6, 0.2, 0}))
			Expect(result.States).To(Equal([]ode.State{{1}, {1}, {1.5}, {1.5}}))
		})

		It("records nothing for an empty t_eval", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.Config{TEval: []float64{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Times).To(BeEmpty())
			Expect(result.Success).To(BeTrue())
		})

		DescribeTable("rejects invalid t_eval",
			func(t0, tBound float64, tEval []float64) {
				s := sim.New(newEuler(decay, t0, ode.State{1}, tBound, 0.5))
				_, err := s.Run(ctx, sim.Config{TEval: tEval})
				Expect(err).To(MatchError(sim.ErrInvalidTEval))
			},
			Entry("out of range", 0.0, 1.0, []float64{0.5, 2}),
			Entry("before start", 0.0, 1.0, []float64{-0.1}),
			Entry("unsorted", 0.0, 1.0, []float64{0.5, 0.2}),
			Entry("duplicate", 0.0, 1.0, []float64{0.5, 0.5}),
			Entry("ascending on a backward run", 1.0, 0.0, []float64{0.2, 0.6}),
			Entry("NaN", 0.0, 1.0, []float64{math.NaN()}),
		)
	})

	Describe("dense output", func() {
		It("stitches every step into a trajectory", func() {
			s := sim.New(newEuler(decay, 0, ode.State{1}, 1, 0.5))

			result, err := s.Run(ctx, sim.Config{DenseOutput: true})
			Expect(err).NotTo(HaveOccurred())

			traj := result.Trajectory
			Expect(traj).NotTo(BeNil())
			Expect(traj.Len()).To(Equal(2))
			Expect(traj.Breakpoints()).To(Equal([]float64{0, 0.5, 1}))

			cases := map[float64]float64{-1: 1, 0: 1, 0.25: 1, 0.5: 1, 0.75: 0.5, 1: 0.5, 5: 0.5}
			for q, want := range cases {
				y, err := traj.At(q)
				Expect(err).NotTo(HaveOccurred())
				Expect(y).To(Equal(ode.State{want}), "t=%v", q)
			}

			m, err := traj.AtEach([]float64{0.1, 0.9})
			Expect(err).NotTo(HaveOccurred())
			r, c := m.Dims()
			Expect([]int{r, c}).To(Equal([]int{1, 2}))
			Expect(m.At(0, 0)).To(Equal(1.0))
			Expect(m.At(0, 1)).To(Equal(0.5))
		})

		It("locates steps on a backward run", func() {
			s := sim.New(newEuler(decay, 1, ode.State{1}, 0, 0.5))

			result, err := s.Run(ctx, sim.Config{DenseOutput: true})
			Expect(err).NotTo(HaveOccurred())

			y, err := result.Trajectory.At(0.75)
			Expect(err).NotTo(HaveOccurred())
			Expect(y).To(Equal(ode.State{1}))

			y, err = result.Trajectory.At(0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(y).To(Equal(ode.State{1.5}))

			y, err = result.Trajectory.At(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(y).To(Equal(ode.State{1}))
		})

		It("errors on an empty trajectory", func() {
			traj := sim.NewTrajectory(1)
			_, err := traj.At(0)
			Expect(err).To(MatchError(sim.ErrNoSteps))
			_, err = traj.AtEach([]float64{0})
			Expect(err).To(MatchError(sim.ErrNoSteps))
		})
	})

	Describe("SimError", func() {
		It("formats step and time", func() {
			err := sim.SimError{Time: 1.5, Step: 150, Message: "test error"}
			Expect(err.Error()).To(Equal("step 150 (t=1.5000): test error"))
		})
	})
})
