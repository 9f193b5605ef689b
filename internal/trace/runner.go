// Package trace drives a planar pendulum the way a renderer does: it pulls
// snapshots, keeps the drawn history and applies the reset policy.
package trace

import (
	"io"
	"log"

	"github.com/san-kum/sandtracer/internal/sim"
)

// DefaultThreshold is the fraction of E0 below which a lap restarts.
const DefaultThreshold = 0.05

// Frame is one pulled snapshot plus the lap it belongs to. Reset marks the
// frame produced by a restart instead of a step.
type Frame struct {
	sim.Snapshot
	Lap   int  `json:"lap"`
	Reset bool `json:"reset"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Option func(*Runner)

func WithThreshold(fraction float64) Option {
	return func(r *Runner) { r.threshold = fraction }
}

// WithHistoryLimit keeps at most n points; 0 keeps everything.
func WithHistoryLimit(n int) Option {
	return func(r *Runner) { r.history.limit = n }
}

func WithMetrics(m ...Metric) Option {
	return func(r *Runner) { r.metrics = append(r.metrics, m...) }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

type Runner struct {
	p         *sim.PlanarPendulum
	trace     *sim.Trace
	threshold float64
	history   History
	lap       int
	metrics   []Metric
	logger    *log.Logger
}

func NewRunner(p *sim.PlanarPendulum, opts ...Option) *Runner {
	r := &Runner{
		p:         p,
		trace:     sim.NewTrace(p),
		threshold: DefaultThreshold,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, m := range r.metrics {
		m.Reset()
	}
	return r
}

// Advance produces the next frame. A dissipated pendulum is reset and its
// history cleared instead of being stepped.
func (r *Runner) Advance() (Frame, error) {
	if r.p.Dissipated(r.threshold) {
		r.logger.Printf("lap %d dissipated at t=%.2f (E=%.4g, E0=%.4g), restarting",
			r.lap, r.p.Time(), r.p.Energy(), r.p.InitialEnergy())
		return r.restart()
	}
	return r.pull(false)
}

// Restart forces a new lap regardless of energy.
func (r *Runner) Restart() (Frame, error) {
	return r.restart()
}

// restart resets the pendulum and pulls the t=0 snapshot, so the next
// Advance continues at t=dt.
func (r *Runner) restart() (Frame, error) {
	r.p.Reset()
	r.history.Clear()
	r.lap++
	return r.pull(true)
}

func (r *Runner) pull(reset bool) (Frame, error) {
	s, err := r.trace.Next()
	if err != nil {
		return Frame{}, err
	}
	r.history.Append(Point{X: s.X.Pos, Y: s.Y.Pos})

	f := Frame{Snapshot: s, Lap: r.lap, Reset: reset}
	r.observe(f)
	return f, nil
}

func (r *Runner) observe(f Frame) {
	for _, m := range r.metrics {
		m.Observe(f)
	}
}

func (r *Runner) Pendulum() *sim.PlanarPendulum { return r.p }
func (r *Runner) Threshold() float64           { return r.threshold }
func (r *Runner) Lap() int                     { return r.lap }
func (r *Runner) History() []Point             { return r.history.Points() }

func (r *Runner) Metrics() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
