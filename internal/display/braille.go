package display

import (
	"github.com/petems/oscilloscope/internal/render"
	"github.com/petems/oscilloscope/internal/wave"
)

const brailleBase = 0x2800

// brailleDots maps a dot position inside a 2x4 cell to its bit.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleCanvas rasterises a polyline in logical coordinates onto a grid of
// braille cells, each holding 2x4 dots. It implements render.Path.
type brailleCanvas struct {
	cols, rows int
	cells      []uint8

	// logical size of the drawing space
	width, height float32

	curX, curY int
}

func newBrailleCanvas(m render.Mapping) *brailleCanvas {
	return &brailleCanvas{
		width:  wave.WindowSize - 1,
		height: m.Height(),
	}
}

// Reset clears the canvas and resizes it to cols x rows cells.
func (c *brailleCanvas) Reset(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	n := c.cols * c.rows
	if cap(c.cells) < n {
		c.cells = make([]uint8, n)
	}
	c.cells = c.cells[:n]
	clear(c.cells)
}

func (c *brailleCanvas) dot(x, y float32) (int, int) {
	dotsW := float32(c.cols*2 - 1)
	dotsH := float32(c.rows*4 - 1)
	return clampDot(x/c.width*dotsW, dotsW), clampDot(y/c.height*dotsH, dotsH)
}

// clampDot rounds v to a dot index, pinning anything off the canvas (NaN
// included) to one dot outside it so lines stay short.
func clampDot(v, hi float32) int {
	switch {
	case !(v >= -1):
		return -1
	case v > hi+1:
		return int(hi) + 1
	}
	return int(v + 0.5)
}

func (c *brailleCanvas) MoveTo(x, y float32) {
	c.curX, c.curY = c.dot(x, y)
	c.set(c.curX, c.curY)
}

func (c *brailleCanvas) LineTo(x, y float32) {
	nx, ny := c.dot(x, y)
	c.line(c.curX, c.curY, nx, ny)
	c.curX, c.curY = nx, ny
}

func (c *brailleCanvas) Stroke() {}

// line plots a Bresenham line between two dots.
func (c *brailleCanvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// set turns on one dot; dots off the canvas are clipped.
func (c *brailleCanvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= brailleDots[x%2][y%4]
}

// each calls fn for every non-empty cell.
func (c *brailleCanvas) each(fn func(col, row int, r rune)) {
	for i, bits := range c.cells {
		if bits != 0 {
			fn(i%c.cols, i/c.cols, rune(brailleBase+int(bits)))
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
