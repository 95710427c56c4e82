package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

var _ = Describe("Ensemble", func() {
	steps := []float64{0.5, 0.25, 0.125, 0.0625}

	It("runs every problem and keeps run order", func() {
		ens := sim.NewEnsemble(func(i int) (ode.Stepper, error) {
			return newEuler(decay, 0, ode.State{1}, 1, steps[i]), nil
		}, len(steps))
		ens.SetLimit(2)
		ens.SetMetrics(func(int) []sim.Metric { return []sim.Metric{&countingMetric{}} })

		results, err := ens.Run(context.Background(), sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(steps)))

		for i, res := range results {
			Expect(res.Success).To(BeTrue())
			Expect(res.StepsTaken).To(Equal(int(1 / steps[i])))
			Expect(res.Metrics["count"]).To(Equal(float64(res.StepsTaken + 1)))
		}

		_, coarse, _ := results[0].Final()
		_, fine, _ := results[3].Final()
		Expect(coarse[0]).To(Equal(0.25))
		Expect(fine[0]).To(BeNumerically(">", coarse[0]))
	})

	It("returns the first construction error", func() {
		boom := errors.New("no such model")
		ens := sim.NewEnsemble(func(i int) (ode.Stepper, error) {
			if i == 2 {
				return nil, boom
			}
			return newEuler(decay, 0, ode.State{1}, 1, 0.5), nil
		}, 4)

		_, err := ens.Run(context.Background(), sim.DefaultConfig())
		Expect(err).To(MatchError(boom))
	})
})
