package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cellStyle is the comparable form of the attributes painted on one cell.
type cellStyle struct {
	fg, bg    string
	bold      bool
	italic    bool
	underline bool
	strike    bool
	faint     bool
	reverse   bool
}

func (s cellStyle) apply(base lipgloss.Style) lipgloss.Style {
	if s.fg != "" {
		base = base.Foreground(lipgloss.Color(s.fg))
	}
	if s.bg != "" {
		base = base.Background(lipgloss.Color(s.bg))
	}
	return base.
		Bold(s.bold).
		Italic(s.italic).
		Underline(s.underline).
		Strikethrough(s.strike).
		Faint(s.faint).
		Reverse(s.reverse)
}

type cell struct {
	r     rune
	style cellStyle
	// wide marks the trailing half of a double-width rune.
	wide bool
}

type cellRect struct {
	x, y, w, h int
}

func (r cellRect) empty() bool { return r.w <= 0 || r.h <= 0 }

type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	cells := make([][]cell, rows)
	for y := range cells {
		cells[y] = make([]cell, cols)
		for x := range cells[y] {
			cells[y][x].r = ' '
		}
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

// clip intersects r with the canvas.
func (c *canvas) clip(r cellRect) cellRect {
	x0, y0 := max(r.x, 0), max(r.y, 0)
	x1, y1 := min(r.x+r.w, c.cols), min(r.y+r.h, c.rows)
	return cellRect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func (c *canvas) each(r cellRect, fn func(*cell)) {
	r = c.clip(r)
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			fn(&c.cells[y][x])
		}
	}
}

func (c *canvas) background(r cellRect, bg string) {
	c.each(r, func(cl *cell) { cl.style.bg = bg })
}

func (c *canvas) fill(r cellRect, ch rune, fg string) {
	c.each(r, func(cl *cell) {
		cl.r, cl.wide = ch, false
		cl.style.fg = fg
	})
}

// text writes s from (x, y), stopping before limit. Cells keep their background.
func (c *canvas) text(x, y, limit int, s string, st cellStyle) {
	if y < 0 || y >= c.rows {
		return
	}
	limit = min(limit, c.cols)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			return
		}
		if x >= 0 {
			c.put(x, y, r, st)
			if w == 2 && x+1 < c.cols {
				c.cells[y][x+1] = cell{r: ' ', style: c.cells[y][x].style, wide: true}
			}
		}
		x += w
	}
}

func (c *canvas) put(x, y int, r rune, st cellStyle) {
	cl := &c.cells[y][x]
	bg := cl.style.bg
	cl.r, cl.wide = r, false
	cl.style = st
	if st.bg == "" {
		cl.style.bg = bg
	}
}

// box outlines r with the given border characters.
func (c *canvas) box(r cellRect, border lipgloss.Border, fg string) {
	if r.empty() {
		return
	}
	st := func(x, y int, s string) {
		if x < 0 || y < 0 || x >= c.cols || y >= c.rows || s == "" {
			return
		}
		cl := &c.cells[y][x]
		cl.r, cl.wide = []rune(s)[0], false
		cl.style.fg = fg
	}
	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		st(x, r.y, border.Top)
		st(x, bottom, border.Bottom)
	}
	for y := r.y + 1; y < bottom; y++ {
		st(r.x, y, border.Left)
		st(right, y, border.Right)
	}
	st(r.x, r.y, border.TopLeft)
	st(right, r.y, border.TopRight)
	st(r.x, bottom, border.BottomLeft)
	st(right, bottom, border.BottomRight)
}

// render joins the rows, styling runs of equal cells with renderer. A nil renderer
// returns plain text.
func (c *canvas) render(renderer *lipgloss.Renderer) string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		var current cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if renderer == nil {
				b.WriteString(run.String())
			} else {
				b.WriteString(current.apply(renderer.NewStyle()).Render(run.String()))
			}
			run.Reset()
		}
		for x, cl := range row {
			if cl.wide {
				continue
			}
			if x == 0 || cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// hex encodes c for lipgloss; fully transparent colors yield "".
func hex(c color.NRGBA) string {
	if c.A == 0 {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
