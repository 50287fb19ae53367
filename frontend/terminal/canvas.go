package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/circles/frontend/scene"
	"github.com/plus3/circles/game"
)

// canvas is an off-screen cell buffer with alpha blending. Coordinates in
// draw calls are viewport pixels; each cell covers a fixed pixel rectangle.
type canvas struct {
	cols, rows int
	cellW      float64
	cellH      float64
	bg         []game.Color
	fg         []game.Color
	runes      []rune
}

func newCanvas(cols, rows int, vp game.Viewport) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.resize(cols, rows, vp)
	return c
}

func (c *canvas) resize(cols, rows int, vp game.Viewport) {
	cols, rows = max(cols, 1), max(rows, 1)
	c.cols, c.rows = cols, rows
	c.cellW = vp.Width / float64(cols)
	c.cellH = vp.Height / float64(rows)
	n := cols * rows
	if cap(c.bg) < n {
		c.bg = make([]game.Color, n)
		c.fg = make([]game.Color, n)
		c.runes = make([]rune, n)
	}
	c.bg, c.fg, c.runes = c.bg[:n], c.fg[:n], c.runes[:n]
}

func (c *canvas) clear(bg game.Color) {
	for i := range c.bg {
		c.bg[i] = bg
		c.fg[i] = bg
		c.runes[i] = ' '
	}
}

// cellCenter returns the viewport pixel at the centre of a cell.
func (c *canvas) cellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * c.cellW, (float64(row) + 0.5) * c.cellH
}

func (c *canvas) cellAt(x, y float64) (int, int) {
	return int(math.Floor(x / c.cellW)), int(math.Floor(y / c.cellH))
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *canvas) blendBg(col, row int, src game.Color) {
	i := row*c.cols + col
	c.bg[i] = blend(c.bg[i], src)
	if c.runes[i] != ' ' {
		c.fg[i] = blend(c.fg[i], src)
	}
}

func (c *canvas) fillCircle(x, y, radius float64, color game.Color) {
	c0, r0 := c.cellAt(x-radius, y-radius)
	c1, r1 := c.cellAt(x+radius, y+radius)
	for row := max(r0, 0); row <= min(r1, c.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, c.cols-1); col++ {
			cx, cy := c.cellCenter(col, row)
			if math.Hypot(cx-x, cy-y) <= radius {
				c.blendBg(col, row, color)
			}
		}
	}
}

func (c *canvas) fillRect(x, y, w, h float64, color game.Color) {
	c0, r0 := c.cellAt(x-w/2, y-h/2)
	c1, r1 := c.cellAt(x+w/2, y+h/2)
	for row := max(r0, 0); row <= min(r1, c.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, c.cols-1); col++ {
			c.blendBg(col, row, color)
		}
	}
}

// text writes s centred on (x, y), one rune per cell.
func (c *canvas) text(x, y float64, s string, color game.Color) {
	runes := []rune(s)
	col, row := c.cellAt(x, y)
	col -= len(runes) / 2
	for i, r := range runes {
		if !c.inside(col+i, row) {
			continue
		}
		idx := row*c.cols + col + i
		c.runes[idx] = r
		c.fg[idx] = blend(c.bg[idx], color)
	}
}

// line writes s left-aligned on row.
func (c *canvas) line(row int, s string, color game.Color) {
	col := 0
	for _, r := range s {
		if !c.inside(col, row) {
			return
		}
		idx := row*c.cols + col
		c.runes[idx] = r
		c.fg[idx] = blend(c.bg[idx], color)
		col++
	}
}

func (c *canvas) draw(items []scene.Item) {
	for _, item := range items {
		switch item.Kind {
		case scene.KindCircle:
			c.fillCircle(item.X, item.Y, item.Radius, item.Color)
		case scene.KindRect:
			c.fillRect(item.X, item.Y, item.Width, item.Height, item.Color)
		case scene.KindText:
			c.text(item.X, item.Y, item.Text, item.Color)
		}
	}
}

func (c *canvas) flush(screen tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			i := row*c.cols + col
			style := tcell.StyleDefault.
				Background(toTcell(c.bg[i])).
				Foreground(toTcell(c.fg[i]))
			screen.SetContent(col, row, c.runes[i], nil, style)
		}
	}
}

func blend(dst, src game.Color) game.Color {
	a := min(max(src.A, 0), 1)
	return game.Color{
		R: src.R*a + dst.R*(1-a),
		G: src.G*a + dst.G*(1-a),
		B: src.B*a + dst.B*(1-a),
		A: 1,
	}
}

func toTcell(c game.Color) tcell.Color {
	n := c.NRGBA()
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}
