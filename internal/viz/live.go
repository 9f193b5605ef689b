package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sandtracer/internal/trace"
)

const (
	width          = 60
	height         = 24
	energyCapacity = 300
	maxSpeed       = 64
)

type TickMsg time.Time

// Model renders a trace.Runner. Each tick pulls speed frames.
type Model struct {
	runner   *trace.Runner
	name     string
	canvas   *Canvas
	extent   float64
	speed    int
	running  bool
	theme    int
	showHelp bool
	energy   []float64
	last     trace.Frame
	err      error
}

func NewModel(r *trace.Runner, name string) Model {
	xa, ya := r.Pendulum().Axes()
	extent := 1.05 * math.Max(xa.Params().Radius, ya.Params().Radius)

	return Model{
		runner:  r,
		name:    name,
		canvas:  NewCanvas(width, height),
		extent:  extent,
		speed:   1,
		running: true,
		energy:  make([]float64, 0, energyCapacity),
		last:    trace.Frame{Snapshot: r.Pendulum().Snapshot(), Lap: r.Lap()},
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			f, err := m.runner.Restart()
			m.err = err
			if err != nil {
				m.running = false
			} else {
				m.record(f)
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance stops the animation on the first integration failure.
func (m *Model) advance() {
	for i := 0; i < m.speed; i++ {
		f, err := m.runner.Advance()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.record(f)
	}
}

func (m *Model) record(f trace.Frame) {
	if f.Reset {
		m.energy = m.energy[:0]
	}
	m.energy = append(m.energy, f.Energy)
	if len(m.energy) > energyCapacity {
		m.energy = m.energy[1:]
	}
	m.last = f
}

func (m *Model) draw() {
	m.canvas.Clear()

	pts := m.runner.History()
	for i := 1; i < len(pts); i++ {
		x0, y0 := m.canvas.Map(pts[i-1].X, pts[i-1].Y, m.extent)
		x1, y1 := m.canvas.Map(pts[i].X, pts[i].Y, m.extent)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	bx, by := m.canvas.Map(m.last.X.Pos, m.last.Y.Pos, m.extent)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			m.canvas.Set(bx+dx, by+dy)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return "FAILED"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	st := Themes[m.theme].styles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	p := m.runner.Pendulum()
	e0 := p.InitialEnergy()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Lap", fmt.Sprintf("%d", m.last.Lap))
	row("Time", fmt.Sprintf("%.2fs", m.last.T))
	row("Energy", fmt.Sprintf("%.4f", m.last.Energy))
	if e0 != 0 {
		row("E/E0", fmt.Sprintf("%.3f", m.last.Energy/e0))
	}
	row("Reset at", fmt.Sprintf("%.0f%% E0", 100*m.runner.Threshold()))
	row("Speed", fmt.Sprintf("x%d", m.speed))
	row("Theme", Themes[m.theme].Name)

	metrics := m.runner.Metrics()
	if len(metrics) > 0 {
		names := make([]string, 0, len(metrics))
		for k := range metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		s.WriteString("\nMETRICS\n")
		for _, k := range names {
			row(k, fmt.Sprintf("%.4g", metrics[k]))
		}
	}

	if m.err != nil {
		s.WriteString("\n" + st.warn.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause R:Restart Q:Quit\n+/-:Speed T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════╗
║        KEYBOARD SHORTCUTS        ║
╠══════════════════════════════════╣
║  Space  - Pause/Resume           ║
║  R      - Restart the lap        ║
║  + / -  - Double/halve speed     ║
║  T      - Cycle themes           ║
║  ?      - Toggle this help       ║
║  Q      - Quit                   ║
╚══════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run blocks until the user quits.
func Run(r *trace.Runner, name string) error {
	p := tea.NewProgram(NewModel(r, name), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
