package sim

import "iter"

// Trace is an unbounded pull sequence of snapshots. Each element is taken
// before the step that follows it. Consumers stop by no longer pulling.
type Trace struct {
	p *PlanarPendulum
}

func NewTrace(p *PlanarPendulum) *Trace {
	return &Trace{p: p}
}

func (tr *Trace) Pendulum() *PlanarPendulum {
	return tr.p
}

// Current peeks at the snapshot Next would return.
func (tr *Trace) Current() Snapshot {
	return tr.p.Snapshot()
}

// Next returns the current snapshot and advances one step.
func (tr *Trace) Next() (Snapshot, error) {
	s := tr.p.Snapshot()
	if err := tr.p.Step(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// All yields snapshots until the consumer breaks or a step fails.
func (tr *Trace) All() iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		for {
			s, err := tr.Next()
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}
