package integrators_test

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/sandtracer/internal/dynamo"
	"github.com/san-kum/sandtracer/internal/integrators"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// dx/dt = x^2 blows up at t = 1/x0.
type blowUp struct{}

func (b *blowUp) StateDim() int { return 1 }

func (b *blowUp) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[0] * x[0]}
}

func TestDOPRI5_SingleLongStep(t *testing.T) {
	g := NewWithT(t)

	x, err := integrators.NewDOPRI5().Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 1.0)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(x[0]).To(BeNumerically("~", math.Cos(1), 1e-7))
	g.Expect(x[1]).To(BeNumerically("~", -math.Sin(1), 1e-7))
}

func TestDOPRI5_EnergyConservation(t *testing.T) {
	g := NewWithT(t)
	integrator := integrators.NewDOPRI5()
	dyn := &harmonicOscillator{}

	x := dynamo.State{1.0, 0.0}
	initialEnergy := dyn.Energy(x)
	dt := 0.01

	for i := 0; i < 10000; i++ {
		var err error
		x, err = integrator.Step(dyn, x, float64(i)*dt, dt)
		g.Expect(err).NotTo(HaveOccurred())
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	g.Expect(drift).To(BeNumerically("<", 1e-6))
}

func TestDOPRI5_FixedPoint(t *testing.T) {
	g := NewWithT(t)

	x, err := integrators.NewDOPRI5().Step(&harmonicOscillator{}, dynamo.State{0, 0}, 0, 0.5)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(x).To(Equal(dynamo.State{0, 0}))
}

func TestDOPRI5_BlowUpFails(t *testing.T) {
	g := NewWithT(t)

	_, err := integrators.NewDOPRI5().Step(&blowUp{}, dynamo.State{1}, 0, 2.0)

	g.Expect(err).To(MatchError(dynamo.ErrIntegrationFailure))
}

func TestDOPRI5_RejectsNonPositiveDt(t *testing.T) {
	g := NewWithT(t)

	_, err := integrators.NewDOPRI5().Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0)

	g.Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
}

func TestDOPRI5_ResetIsReproducible(t *testing.T) {
	g := NewWithT(t)
	d := integrators.NewDOPRI5()
	dyn := &harmonicOscillator{}

	run := func() dynamo.State {
		x := dynamo.State{0.3, 1}
		for i := 0; i < 50; i++ {
			var err error
			x, err = d.Step(dyn, x, float64(i)*0.2, 0.2)
			g.Expect(err).NotTo(HaveOccurred())
		}
		return x
	}

	first := run()
	d.Reset()
	second := run()

	g.Expect(second).To(Equal(first))
}

func TestLookup(t *testing.T) {
	g := NewWithT(t)

	g.Expect(integrators.Names()).To(Equal([]string{"dopri5", "euler", "rk4"}))
	for _, name := range integrators.Names() {
		_, err := integrators.Lookup(name)
		g.Expect(err).NotTo(HaveOccurred())
	}

	f, err := integrators.Lookup("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f()).To(BeAssignableToTypeOf(&integrators.DOPRI5{}))
	g.Expect(f()).NotTo(BeIdenticalTo(f()))

	_, err = integrators.Lookup("verlet")
	g.Expect(err).To(HaveOccurred())
}

func TestDOPRI5_CheckpointRestoresStepSize(t *testing.T) {
	g := NewWithT(t)
	d := integrators.NewDOPRI5()
	g.Expect(d.StepSize()).To(BeZero())

	restore := d.Checkpoint()
	_, err := d.Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.1)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.StepSize()).To(BeNumerically(">", 0))

	restore()
	g.Expect(d.StepSize()).To(BeZero())
}
