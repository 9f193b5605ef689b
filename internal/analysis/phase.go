package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

// Arrow is one sample of the vector field. Mag is the length of (U, V)
// before any normalization.
type Arrow struct {
	X, Y float64
	U, V float64
	Mag  float64
}

// PhasePortrait samples sys.Derive on a samples x samples grid spanning
// xlim and ylim widened by 10% on each side. Arrows are ordered row by
// row from the lowest Y.
func PhasePortrait(sys dynamo.System, xlim, ylim [2]float64, samples int) ([]Arrow, error) {
	if sys.StateDim() != 2 {
		return nil, fmt.Errorf("phase portrait needs a 2D state, got %d: %w", sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if samples < 2 {
		return nil, dynamo.InvalidParameter("samples", float64(samples), "must be at least 2")
	}

	xs := linspace(xlim, samples)
	ys := linspace(ylim, samples)

	arrows := make([]Arrow, 0, samples*samples)
	x := make(dynamo.State, 2)
	for _, y := range ys {
		for _, xv := range xs {
			x[0], x[1] = xv, y
			d := sys.Derive(x, 0)
			arrows = append(arrows, Arrow{
				X:   xv,
				Y:   y,
				U:   d[0],
				V:   d[1],
				Mag: math.Hypot(d[0], d[1]),
			})
		}
	}
	return arrows, nil
}

func linspace(lim [2]float64, n int) []float64 {
	w := lim[1] - lim[0]
	lo, hi := lim[0]-0.1*w, lim[1]+0.1*w
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Normalize returns a copy with every non-zero arrow scaled to unit
// length, so only Mag carries the magnitude.
func Normalize(arrows []Arrow) []Arrow {
	out := make([]Arrow, len(arrows))
	for i, a := range arrows {
		if a.Mag > 0 {
			a.U /= a.Mag
			a.V /= a.Mag
		}
		out[i] = a
	}
	return out
}

var directions = []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// FieldASCII draws one glyph per arrow, highest Y on the first line.
func FieldASCII(arrows []Arrow, samples int) string {
	if samples <= 0 || len(arrows) != samples*samples {
		return ""
	}

	var sb strings.Builder
	for row := samples - 1; row >= 0; row-- {
		for col := 0; col < samples; col++ {
			sb.WriteRune(glyph(arrows[row*samples+col]))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func glyph(a Arrow) rune {
	if a.Mag == 0 {
		return '·'
	}
	angle := math.Atan2(a.V, a.U)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	idx := int(math.Round(angle/(math.Pi/4))) % len(directions)
	return directions[idx]
}

type Point struct {
	X, Y float64
}

// Trajectory integrates sys from x0 for steps steps and records the state
// after each one. On failure the points so far are returned with the error.
func Trajectory(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, dt float64, steps int) ([]Point, error) {
	if len(x0) != 2 || sys.StateDim() != 2 {
		return nil, fmt.Errorf("trajectory needs a 2D state: %w", dynamo.ErrDimensionMismatch)
	}

	points := make([]Point, 0, steps)
	x := x0.Clone()
	t := 0.0
	for i := 0; i < steps; i++ {
		next, err := integ.Step(sys, x, t, dt)
		if err != nil {
			return points, fmt.Errorf("trajectory step %d: %w", i, err)
		}
		x = next
		t += dt
		points = append(points, Point{X: x[0], Y: x[1]})
	}
	return points, nil
}

// TrajectoryASCII plots points on a width x height grid scaled to their
// bounds, with axes drawn where they fall inside.
func TrajectoryASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
