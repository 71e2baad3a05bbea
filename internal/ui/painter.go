package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/alexisbeaulieu97/inapp/internal/render"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Theme holds the colors of the chrome the painter adds around message content.
type Theme struct {
	Placeholder string
	Error       string
	Web         string
}

// DefaultTheme returns the stock painter colors.
func DefaultTheme() Theme {
	return Theme{Placeholder: "#6B7280", Error: "#DC2626", Web: "#2563EB"}
}

// State is the interactive state drawn over a tree.
type State struct {
	// Focused is highlighted in reverse video.
	Focused *render.View
	// Spinner is the frame drawn on loading images.
	Spinner string
	// Remaining shortens the countdown bar; zero draws it full.
	Remaining time.Duration
}

// Options configures a Painter.
type Options struct {
	Grid     Grid
	Theme    *Theme
	Renderer *lipgloss.Renderer
	// Plain disables colors and text attributes.
	Plain bool
}

// Painter draws render trees as terminal text.
type Painter struct {
	grid     Grid
	theme    Theme
	renderer *lipgloss.Renderer
}

// NewPainter creates a Painter.
func NewPainter(opts Options) *Painter {
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	renderer := opts.Renderer
	if renderer == nil && !opts.Plain {
		renderer = lipgloss.DefaultRenderer()
	}
	if opts.Plain {
		renderer = nil
	}
	return &Painter{grid: opts.Grid.normalized(), theme: theme, renderer: renderer}
}

// Grid returns the cell grid used for painting.
func (p *Painter) Grid() Grid {
	return p.grid
}

// Paint draws tree over a canvas the size of its viewport.
func (p *Painter) Paint(tree *render.Tree, state State) string {
	viewport := tree.Viewport()
	cv := newCanvas(p.grid.Cols(viewport.Width), p.grid.Rows(viewport.Height))
	p.paint(cv, tree.Root, state)
	return cv.render(p.renderer)
}

func (p *Painter) rect(frame render.Rect) cellRect {
	x0 := int(math.Floor(frame.X / p.grid.CellWidth))
	y0 := int(math.Floor(frame.Y / p.grid.CellHeight))
	x1 := p.grid.Cols(frame.X + frame.Width)
	y1 := p.grid.Rows(frame.Y + frame.Height)
	if x1 <= x0 && frame.Width > 0 {
		x1 = x0 + 1
	}
	if y1 <= y0 && frame.Height > 0 {
		y1 = y0 + 1
	}
	return cellRect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func (p *Painter) content(v *render.View) cellRect {
	f := v.Frame
	return p.rect(render.Rect{
		X:      f.X + v.Padding.Left,
		Y:      f.Y + v.Padding.Top,
		Width:  math.Max(0, f.Width-v.Padding.Horizontal()),
		Height: math.Max(0, f.Height-v.Padding.Vertical()),
	})
}

func (p *Painter) paint(cv *canvas, v *render.View, state State) {
	r := p.rect(v.Frame)
	if r.empty() && len(v.Children) == 0 {
		return
	}

	if bg := hex(v.Background); bg != "" && v.Kind != render.ViewDivider {
		cv.background(r, bg)
	}
	if v.Border != nil && v.Border.Width > 0 {
		cv.box(r, borderFor(v.Radius), hex(v.Border.Color))
	}

	switch v.Kind {
	case render.ViewText, render.ViewButton:
		p.paintText(cv, p.content(v), v)
	case render.ViewImage:
		p.paintImage(cv, r, v, state)
	case render.ViewDivider:
		cv.fill(r, '─', hex(v.Background))
	case render.ViewWebView:
		p.label(cv, r, "⧉ "+v.Web.URL, cellStyle{fg: p.theme.Web, underline: true})
	case render.ViewCloseButton:
		p.label(cv, r, "✕", cellStyle{fg: hex(v.Foreground), bold: true})
	case render.ViewCountdown:
		p.paintCountdown(cv, r, v, state.Remaining)
	}

	for _, child := range v.Children {
		p.paint(cv, child, state)
	}

	if state.Focused != nil && state.Focused == v {
		cv.each(r, func(cl *cell) { cl.style.reverse = true })
	}
}

func borderFor(radius [4]float64) lipgloss.Border {
	for _, corner := range radius {
		if corner > 0 {
			return lipgloss.RoundedBorder()
		}
	}
	return lipgloss.NormalBorder()
}

func (p *Painter) paintText(cv *canvas, r cellRect, v *render.View) {
	if v.Text == nil || r.empty() {
		return
	}
	spec := v.Text
	st := cellStyle{
		fg:        hex(v.Foreground),
		bold:      spec.Typeface == style.TypefaceBold || spec.Typeface == style.TypefaceBoldItalic,
		italic:    spec.Typeface == style.TypefaceItalic || spec.Typeface == style.TypefaceBoldItalic,
		underline: spec.Underline,
		strike:    spec.Strike,
	}

	lines := wrapText(spec.Content, r.w, spec.MaxLines)
	for i, line := range lines {
		if i >= r.h {
			break
		}
		x := r.x + offset(spec.Align, r.w-runewidth.StringWidth(line))
		cv.text(x, r.y+i, r.x+r.w, line, st)
	}
}

func offset(align style.HorizontalAlignment, free int) int {
	if free <= 0 {
		return 0
	}
	switch align {
	case style.AlignCenter:
		return free / 2
	case style.AlignRight:
		return free
	default:
		return 0
	}
}

// label centers a single line in r.
func (p *Painter) label(cv *canvas, r cellRect, text string, st cellStyle) {
	if r.empty() {
		return
	}
	text = runewidth.Truncate(text, r.w, ellipsis)
	x := r.x + (r.w-runewidth.StringWidth(text))/2
	cv.text(x, r.y+(r.h-1)/2, r.x+r.w, text, st)
}

func (p *Painter) paintImage(cv *canvas, r cellRect, v *render.View, state State) {
	spec := v.Image
	switch spec.State {
	case render.ImageLoading:
		spinner := state.Spinner
		if spinner == "" {
			spinner = "…"
		}
		p.label(cv, r, spinner+" loading", cellStyle{fg: p.theme.Placeholder})
	case render.ImageLoaded:
		cv.fill(r, '░', p.theme.Placeholder)
		kind := "image"
		if spec.Result != nil && spec.Result.Animated {
			kind = "gif"
		}
		text := kind
		if spec.Result != nil {
			text = fmt.Sprintf("%s %d×%d", kind, spec.Result.Width, spec.Result.Height)
		}
		p.label(cv, r, " "+text+" ", cellStyle{fg: p.theme.Placeholder, bold: true})
	case render.ImageFailed:
		p.label(cv, r, "✗ image unavailable", cellStyle{fg: p.theme.Error})
	default:
		p.label(cv, r, "▢ image", cellStyle{fg: p.theme.Placeholder, faint: true})
	}
}

func (p *Painter) paintCountdown(cv *canvas, r cellRect, v *render.View, remaining time.Duration) {
	if r.empty() {
		return
	}
	filled := r.w
	if remaining > 0 && v.Countdown > 0 && remaining < v.Countdown {
		filled = int(math.Ceil(float64(r.w) * float64(remaining) / float64(v.Countdown)))
	}
	cv.fill(cellRect{x: r.x, y: r.y + r.h - 1, w: filled, h: 1}, '━', hex(v.Foreground))
}
