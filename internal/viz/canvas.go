package viz

import (
	"fmt"
	"strings"

	"github.com/dronelab/tellosim/internal/sim"
)

type point struct {
	x, y float64
}

type canvas struct {
	width, height          int
	xMin, xMax, yMin, yMax float64
	cells                  [][]rune
}

// Default view window; the canvas widens when the path leaves it.
const defaultExtent = 200

func newCanvas(width, height int, pts []point, flips []sim.FlipMark) *canvas {
	c := &canvas{
		width:  width,
		height: height,
		xMin:   -defaultExtent,
		xMax:   defaultExtent,
		yMin:   -defaultExtent,
		yMax:   defaultExtent,
	}
	for _, p := range pts {
		c.grow(p.x, p.y)
	}
	for _, f := range flips {
		c.grow(f.X, f.Y)
	}

	c.cells = make([][]rune, height)
	for i := range c.cells {
		c.cells[i] = make([]rune, width)
		for j := range c.cells[i] {
			c.cells[i][j] = ' '
		}
	}

	for i, p := range pts {
		// Denser glyphs later in the flight, like a fading trail.
		glyph := '.'
		if i >= 2*len(pts)/3 {
			glyph = '●'
		} else if i >= len(pts)/3 {
			glyph = 'o'
		}
		c.plot(p.x, p.y, glyph)
	}
	for _, f := range flips {
		c.plot(f.X, f.Y, 'F')
	}
	return c
}

func (c *canvas) grow(x, y float64) {
	const pad = 40
	if x < c.xMin {
		c.xMin = x - pad
	}
	if x > c.xMax {
		c.xMax = x + pad
	}
	if y < c.yMin {
		c.yMin = y - pad
	}
	if y > c.yMax {
		c.yMax = y + pad
	}
}

func (c *canvas) plot(x, y float64, glyph rune) {
	px := int(float64(c.width-1) * (x - c.xMin) / (c.xMax - c.xMin))
	py := int(float64(c.height-1) * (y - c.yMin) / (c.yMax - c.yMin))
	py = c.height - 1 - py // flip so +y points up
	if px >= 0 && px < c.width && py >= 0 && py < c.height {
		c.cells[py][px] = glyph
	}
}

func (c *canvas) render(caption string) string {
	var b strings.Builder

	fmt.Fprintf(&b, " %8.0f ┌%s┐\n", c.yMax, strings.Repeat("─", c.width))
	for i, row := range c.cells {
		if i == c.height/2 {
			fmt.Fprintf(&b, " %8.0f │", (c.yMax+c.yMin)/2)
		} else {
			b.WriteString("          │")
		}
		b.WriteString(string(row))
		b.WriteString("│\n")
	}
	fmt.Fprintf(&b, " %8.0f └%s┘\n", c.yMin, strings.Repeat("─", c.width))
	fmt.Fprintf(&b, "           %.0f%s%.0f\n", c.xMin, strings.Repeat(" ", max(1, c.width-12)), c.xMax)
	fmt.Fprintf(&b, "  %s\n", caption)
	b.WriteString("  legend: . early  o middle  ● late  F flip")
	return b.String()
}
