package sim_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sandtracer/internal/dynamo"
	"github.com/san-kum/sandtracer/internal/integrators"
	"github.com/san-kum/sandtracer/internal/physics"
	"github.com/san-kum/sandtracer/internal/sim"
)

func scenarioConfig() sim.Config {
	return sim.Config{
		Radius:  [2]float64{2, 1.4},
		Mass:    0.5,
		Drag:    0.01,
		Gravity: 9.807,
		Dt:      0.05,
		X0:      dynamo.State{0, 1},
		Y0:      dynamo.State{0, -1},
	}
}

func mustNew(cfg sim.Config) *sim.PlanarPendulum {
	p, err := sim.New(cfg)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return p
}

func stepN(p *sim.PlanarPendulum, n int) {
	for i := 0; i < n; i++ {
		ExpectWithOffset(1, p.Step()).To(Succeed())
	}
}

// failingIntegrator fails every call.
type failingIntegrator struct{}

func (failingIntegrator) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	return nil, dynamo.ErrIntegrationFailure
}

// pumpingIntegrator adds 1% angular velocity per call.
type pumpingIntegrator struct{}

func (pumpingIntegrator) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	return dynamo.State{x[0], 1.01 * x[1]}, nil
}

var _ = Describe("PlanarPendulum", func() {
	Describe("construction", func() {
		It("records E0 from the initial conditions", func() {
			p := mustNew(scenarioConfig())
			// m r^2 w^2 / 2 per axis: 0.5*4/2 + 0.5*1.96/2
			Expect(p.InitialEnergy()).To(BeNumerically("~", 1.49, 1e-12))
			Expect(p.Energy()).To(Equal(p.InitialEnergy()))
			Expect(p.Time()).To(BeZero())
		})

		DescribeTable("rejects invalid parameters",
			func(edit func(c *sim.Config)) {
				cfg := scenarioConfig()
				edit(&cfg)
				_, err := sim.New(cfg)
				Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
			},
			Entry("zero dt", func(c *sim.Config) { c.Dt = 0 }),
			Entry("negative dt", func(c *sim.Config) { c.Dt = -0.1 }),
			Entry("zero x radius", func(c *sim.Config) { c.Radius[0] = 0 }),
			Entry("negative y radius", func(c *sim.Config) { c.Radius[1] = -1 }),
			Entry("zero mass", func(c *sim.Config) { c.Mass = 0 }),
			Entry("negative drag", func(c *sim.Config) { c.Drag = -0.01 }),
			Entry("zero gravity", func(c *sim.Config) { c.Gravity = 0 }),
			Entry("bad y override", func(c *sim.Config) { c.YAxis = &physics.Params{Radius: 1, Mass: -1, Gravity: 9.8} }),
			Entry("NaN initial state", func(c *sim.Config) { c.X0 = dynamo.State{math.NaN(), 0} }),
		)

		It("rejects initial states of the wrong length", func() {
			cfg := scenarioConfig()
			cfg.Y0 = dynamo.State{0}
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("copies the initial conditions", func() {
			cfg := scenarioConfig()
			p := mustNew(cfg)
			cfg.X0[1] = 42
			Expect(p.InitialX()).To(Equal(dynamo.State{0, 1}))
		})

		It("applies axis overrides independently", func() {
			cfg := scenarioConfig()
			cfg.YAxis = &physics.Params{Radius: 1.4, Mass: 0.5, Drag: 0, Gravity: 9.807}
			p := mustNew(cfg)

			x, y := p.Axes()
			Expect(x.Params().Drag).To(Equal(0.01))
			Expect(y.Params().Drag).To(BeZero())
		})
	})

	Describe("energy", func() {
		It("never increases while drag is present", func() {
			p := mustNew(scenarioConfig())
			e0 := p.InitialEnergy()
			prev := p.Energy()
			for i := 0; i < 2000; i++ {
				Expect(p.Step()).To(Succeed())
				e := p.Energy()
				Expect(e).To(BeNumerically("<=", prev+1e-6*e0), "step %d", i)
				prev = e
			}
			Expect(prev).To(BeNumerically("<", e0))
		})

		It("is conserved without drag", func() {
			cfg := scenarioConfig()
			cfg.Drag = 0
			p := mustNew(cfg)
			e0 := p.InitialEnergy()
			for i := 0; i < 2000; i++ {
				Expect(p.Step()).To(Succeed())
				Expect(p.Energy()).To(BeNumerically("~", e0, 1e-5*e0), "step %d", i)
			}
		})

		It("is conserved without drag using RK4", func() {
			cfg := scenarioConfig()
			cfg.Drag = 0
			cfg.Integrator = func() dynamo.Integrator { return integrators.NewRK4() }
			p := mustNew(cfg)
			stepN(p, 2000)
			Expect(p.Energy()).To(BeNumerically("~", p.InitialEnergy(), 1e-5*p.InitialEnergy()))
		})
	})

	Describe("rest state", func() {
		for _, dt := range []float64{0.001, 0.05, 0.5, 3} {
			It(fmt.Sprintf("is a fixed point for dt=%g", dt), func() {
				cfg := scenarioConfig()
				cfg.Dt = dt
				cfg.X0 = dynamo.State{0, 0}
				cfg.Y0 = dynamo.State{0, 0}
				p := mustNew(cfg)

				stepN(p, 20)

				Expect(p.X()).To(Equal(dynamo.State{0, 0}))
				Expect(p.Y()).To(Equal(dynamo.State{0, 0}))
				Expect(p.InitialEnergy()).To(BeZero())
				// E0 == 0 is not special-cased: exact rest still satisfies it.
				Expect(p.Dissipated(0.05)).To(BeTrue())
			})
		}
	})

	Describe("reset", func() {
		It("is idempotent and restores E0", func() {
			p := mustNew(scenarioConfig())
			stepN(p, 37)
			Expect(p.Time()).To(BeNumerically(">", 0))

			p.Reset()
			x1, y1, t1 := p.X(), p.Y(), p.Time()
			p.Reset()

			Expect(p.X()).To(Equal(x1))
			Expect(p.Y()).To(Equal(y1))
			Expect(p.Time()).To(Equal(t1))
			Expect(p.Time()).To(BeZero())
			Expect(p.Steps()).To(BeZero())
			Expect(p.Energy()).To(BeNumerically("~", p.InitialEnergy(), 1e-12))
		})

		It("replays the same lap", func() {
			p := mustNew(scenarioConfig())
			stepN(p, 100)
			first := p.X()

			p.Reset()
			stepN(p, 100)

			Expect(p.X()).To(Equal(first))
		})
	})

	Describe("decoupling", func() {
		It("keeps the x trajectory independent of y constants", func() {
			a := mustNew(scenarioConfig())

			cfg := scenarioConfig()
			cfg.Radius[1] = 0.7
			cfg.Y0 = dynamo.State{1.2, 0.3}
			b := mustNew(cfg)

			for i := 0; i < 500; i++ {
				Expect(a.Step()).To(Succeed())
				Expect(b.Step()).To(Succeed())
				Expect(b.X()).To(Equal(a.X()), "step %d", i)
			}
			Expect(b.Y()).NotTo(Equal(a.Y()))
		})

		It("keeps the y trajectory independent of x constants", func() {
			a := mustNew(scenarioConfig())

			cfg := scenarioConfig()
			cfg.XAxis = &physics.Params{Radius: 3, Mass: 1, Drag: 0.2, Gravity: 9.807}
			cfg.X0 = dynamo.State{-0.4, 0}
			b := mustNew(cfg)

			stepN(a, 300)
			stepN(b, 300)
			Expect(b.Y()).To(Equal(a.Y()))
		})
	})

	Describe("integration failure", func() {
		It("propagates without mutating state", func() {
			cfg := scenarioConfig()
			cfg.Integrator = func() dynamo.Integrator { return failingIntegrator{} }
			p := mustNew(cfg)

			err := p.Step()
			Expect(err).To(MatchError(dynamo.ErrIntegrationFailure))

			var stepErr *dynamo.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Axis).To(Equal("x"))
			Expect(p.Time()).To(BeZero())
			Expect(p.X()).To(Equal(dynamo.State{0, 1}))
		})

		It("rejects a solver that adds energy", func() {
			cfg := scenarioConfig()
			cfg.Integrator = func() dynamo.Integrator { return integrators.NewEuler() }
			p := mustNew(cfg)

			err := p.Step()
			Expect(err).To(MatchError(dynamo.ErrIntegrationFailure))
			Expect(err.Error()).To(ContainSubstring("energy rose"))
			Expect(p.Time()).To(BeZero())
			Expect(p.Energy()).To(Equal(p.InitialEnergy()))
		})

		It("restores the x solver when the y axis fails", func() {
			xSolver := integrators.NewDOPRI5()
			calls := 0
			cfg := scenarioConfig()
			cfg.Integrator = func() dynamo.Integrator {
				calls++
				if calls == 1 {
					return xSolver
				}
				return pumpingIntegrator{}
			}
			p := mustNew(cfg)

			err := p.Step()
			var stepErr *dynamo.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Axis).To(Equal("y"))
			Expect(xSolver.StepSize()).To(BeZero())
			Expect(p.X()).To(Equal(dynamo.State{0, 1}))
			Expect(p.Steps()).To(BeZero())
		})
	})

	Describe("end-to-end scenario", func() {
		It("steps, dissipates and restarts", func() {
			p := mustNew(scenarioConfig())
			e0 := p.InitialEnergy()

			Expect(p.Step()).To(Succeed())
			Expect(p.Time()).To(Equal(0.05))
			Expect(p.X()[0]).To(BeNumerically(">", 0))
			Expect(p.Y()[0]).To(BeNumerically("<", 0))
			Expect(p.Energy()).To(BeNumerically("<", e0))

			dissipated := false
			for i := 1; i < 5000; i++ {
				if p.Dissipated(0.05) {
					dissipated = true
					break
				}
				Expect(p.Step()).To(Succeed())
			}
			Expect(dissipated).To(BeTrue())
			Expect(math.Abs(p.Energy())).To(BeNumerically("<=", 0.05*e0))

			p.Reset()
			Expect(p.Time()).To(BeZero())
			Expect(p.X()).To(Equal(dynamo.State{0, 1}))
			Expect(p.Y()).To(Equal(dynamo.State{0, -1}))
			Expect(p.InitialEnergy()).To(Equal(e0))
		})
	})
})
