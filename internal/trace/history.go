package trace

// Point is a projected pith position.
type Point struct {
	X, Y float64
}

// History is the drawn path of the current lap.
type History struct {
	points []Point
	limit  int
}

func (h *History) Append(p Point) {
	h.points = append(h.points, p)
	if h.limit > 0 && len(h.points) > h.limit {
		h.points = h.points[len(h.points)-h.limit:]
	}
}

func (h *History) Clear() {
	h.points = h.points[:0]
}

func (h *History) Len() int {
	return len(h.points)
}

func (h *History) Points() []Point {
	out := make([]Point, len(h.points))
	copy(out, h.points)
	return out
}
