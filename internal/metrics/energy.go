package metrics

import (
	"math"

	"github.com/san-kum/sandtracer/internal/trace"
)

// EnergyRatio reports the latest E/E0.
type EnergyRatio struct {
	name    string
	e0      float64
	current float64
	samples int
}

func NewEnergyRatio(e0 float64) *EnergyRatio {
	return &EnergyRatio{name: "energy_ratio", e0: e0}
}

func (e *EnergyRatio) Name() string { return e.name }

func (e *EnergyRatio) Observe(f trace.Frame) {
	e.current = f.Energy
	e.samples++
}

func (e *EnergyRatio) Value() float64 {
	if e.samples == 0 || e.e0 == 0 {
		return 0
	}
	return e.current / e.e0
}

func (e *EnergyRatio) Reset() {
	e.current = 0
	e.samples = 0
}

// MaxEnergyRise is the largest step-to-step energy increase within a lap,
// relative to E0. A damped pendulum should keep it near zero.
type MaxEnergyRise struct {
	name    string
	e0      float64
	prev    float64
	hasPrev bool
	maxRise float64
}

func NewMaxEnergyRise(e0 float64) *MaxEnergyRise {
	return &MaxEnergyRise{name: "max_energy_rise", e0: e0}
}

func (m *MaxEnergyRise) Name() string { return m.name }

func (m *MaxEnergyRise) Observe(f trace.Frame) {
	if f.Reset {
		m.prev = f.Energy
		m.hasPrev = true
		return
	}
	if m.hasPrev && m.e0 != 0 {
		m.maxRise = math.Max(m.maxRise, (f.Energy-m.prev)/math.Abs(m.e0))
	}
	m.prev = f.Energy
	m.hasPrev = true
}

func (m *MaxEnergyRise) Value() float64 {
	return m.maxRise
}

func (m *MaxEnergyRise) Reset() {
	m.prev = 0
	m.hasPrev = false
	m.maxRise = 0
}

// Laps counts restarts.
type Laps struct {
	count int
}

func NewLaps() *Laps {
	return &Laps{}
}

func (l *Laps) Name() string { return "laps" }

func (l *Laps) Observe(f trace.Frame) {
	if f.Reset {
		l.count++
	}
}

func (l *Laps) Value() float64 { return float64(l.count) }
func (l *Laps) Reset()         { l.count = 0 }

// Default returns the metrics reported for every run.
func Default(e0 float64) []trace.Metric {
	return []trace.Metric{
		NewEnergyRatio(e0),
		NewMaxEnergyRise(e0),
		NewLaps(),
	}
}
