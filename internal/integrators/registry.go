package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

// Factory returns a fresh integrator. Each axis gets its own instance.
type Factory func() dynamo.Integrator

const Default = "dopri5"

var registry = map[string]Factory{
	"dopri5": func() dynamo.Integrator { return NewDOPRI5() },
	"rk4":    func() dynamo.Integrator { return NewRK4() },
	"euler":  func() dynamo.Integrator { return NewEuler() },
}

func Lookup(name string) (Factory, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
