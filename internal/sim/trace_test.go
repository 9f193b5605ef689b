package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandtracer/internal/dynamo"
	"github.com/san-kum/sandtracer/internal/sim"
)

var _ = Describe("Trace", func() {
	It("returns the snapshot taken before the step", func() {
		p := mustNew(scenarioConfig())
		tr := sim.NewTrace(p)

		peek := tr.Current()
		s, err := tr.Next()
		Expect(err).NotTo(HaveOccurred())

		Expect(s).To(Equal(peek))
		Expect(s.T).To(BeZero())
		Expect(s.Energy).To(Equal(p.InitialEnergy()))
		Expect(s.X.Pos).To(BeZero())
		Expect(s.X.Vel).To(BeNumerically("~", 2.0, 1e-12))
		Expect(s.Y.Vel).To(BeNumerically("~", -1.4, 1e-12))
		Expect(tr.Current().T).To(Equal(0.05))
	})

	It("keeps going across a reset", func() {
		p := mustNew(scenarioConfig())
		tr := sim.NewTrace(p)

		for i := 0; i < 10; i++ {
			_, err := tr.Next()
			Expect(err).NotTo(HaveOccurred())
		}
		tr.Pendulum().Reset()

		s, err := tr.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.T).To(BeZero())
	})

	It("stops when the consumer breaks", func() {
		p := mustNew(scenarioConfig())
		tr := sim.NewTrace(p)

		var times []float64
		for s, err := range tr.All() {
			Expect(err).NotTo(HaveOccurred())
			times = append(times, s.T)
			if len(times) == 4 {
				break
			}
		}

		Expect(times).To(HaveLen(4))
		Expect(times[3]).To(BeNumerically("~", 0.15, 1e-12))
		Expect(p.Steps()).To(Equal(4))
	})

	It("ends the sequence on the first failure", func() {
		cfg := scenarioConfig()
		cfg.Integrator = func() dynamo.Integrator { return failingIntegrator{} }
		tr := sim.NewTrace(mustNew(cfg))

		pulls := 0
		var last error
		for _, err := range tr.All() {
			pulls++
			last = err
		}

		Expect(pulls).To(Equal(1))
		Expect(last).To(MatchError(dynamo.ErrIntegrationFailure))
	})
})
