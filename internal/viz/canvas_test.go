package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 0)
	c.Set(100, 100)

	if !c.IsSet(0, 0) || !c.IsSet(3, 7) {
		t.Error("expected set dots to be lit")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected lit dot")
	}
	if n := c.Dots(); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected braille dot 1, got %U", c.Grid[0][0])
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawLine(0, 0, 5, 11)
	if c.Dots() == 0 {
		t.Fatal("expected line dots")
	}

	c.Clear()
	if c.Dots() != 0 {
		t.Errorf("expected empty canvas, got %d dots", c.Dots())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0)

	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("dot %d not set", x)
		}
	}
	if c.Dots() != 20 {
		t.Errorf("expected 20 dots, got %d", c.Dots())
	}
}

func TestCanvasMap(t *testing.T) {
	c := NewCanvas(10, 5)

	tests := []struct {
		x, y   float64
		px, py int
	}{
		{-1, 1, 0, 0},
		{1, -1, 19, 19},
		{0, 0, 10, 10},
	}

	for _, tt := range tests {
		px, py := c.Map(tt.x, tt.y, 1)
		if px != tt.px || py != tt.py {
			t.Errorf("Map(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, px, py, tt.px, tt.py)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	out := c.String()
	if strings.Count(out, "\n") != 3 {
		t.Errorf("expected 3 lines, got %q", out)
	}
	if strings.Count(out, string(rune(blank))) != 15 {
		t.Error("expected blank braille cells")
	}
}
