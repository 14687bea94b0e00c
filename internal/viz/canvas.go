package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y). The canvas is Width*2 by Height*4 dots with
// y growing downwards.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r dots. Radii below one dot draw a
// single dot.
func (c *Canvas) DrawCircle(cx, cy int, r float64) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	n := int(2*math.Pi*r) + 8
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		c.Set(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// projection maps the world x-z plane onto canvas dots with a uniform scale.
type projection struct {
	minX, maxZ float64
	scale      float64
}

func newProjection(lo, hi mgl64.Vec2, c *Canvas) projection {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	spanX, spanZ := hi[0]-lo[0], hi[1]-lo[1]
	scale := math.Min(w/math.Max(spanX, 1e-12), h/math.Max(spanZ, 1e-12))

	// centre the scene on both axes
	padX := (w/scale - spanX) / 2
	padZ := (h/scale - spanZ) / 2
	return projection{minX: lo[0] - padX, maxZ: hi[1] + padZ, scale: scale}
}

func (p projection) point(v mgl64.Vec3) (int, int) {
	return int(math.Round((v[0] - p.minX) * p.scale)), int(math.Round((p.maxZ - v[2]) * p.scale))
}

func (p projection) length(l float64) float64 { return l * p.scale }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
