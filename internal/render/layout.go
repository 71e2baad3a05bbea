package render

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// LayoutStrategy computes the frame of every view in a tree.
type LayoutStrategy interface {
	Layout(root *View, viewport Viewport)
}

// LayoutFunc adapts a function to LayoutStrategy.
type LayoutFunc func(root *View, viewport Viewport)

// Layout calls f.
func (f LayoutFunc) Layout(root *View, viewport Viewport) { f(root, viewport) }

// TextMeasurer reports the size text takes when wrapped to maxWidth.
type TextMeasurer interface {
	MeasureText(text *TextSpec, maxWidth float64) (width, height float64)
}

// GlyphMeasurer approximates text with a fixed advance per terminal cell of the string,
// both expressed as multiples of the font size.
type GlyphMeasurer struct {
	Advance    float64
	LineHeight float64
}

// DefaultMeasurer is used when a LinearLayout has none.
var DefaultMeasurer = GlyphMeasurer{Advance: 0.55, LineHeight: 1.3}

// MeasureText implements TextMeasurer.
func (m GlyphMeasurer) MeasureText(text *TextSpec, maxWidth float64) (float64, float64) {
	if text == nil || text.Content == "" {
		return 0, 0
	}
	advance := m.Advance * text.FontSize
	lineHeight := m.LineHeight * text.FontSize
	if advance <= 0 || lineHeight <= 0 {
		return 0, 0
	}

	var widest float64
	lines := 0
	for _, paragraph := range strings.Split(text.Content, "\n") {
		width := float64(runewidth.StringWidth(paragraph)) * advance
		if maxWidth > 0 && width > maxWidth {
			lines += int(math.Ceil(width / maxWidth))
			width = maxWidth
		} else {
			lines++
		}
		widest = math.Max(widest, width)
	}
	if text.MaxLines > 0 && lines > text.MaxLines {
		lines = text.MaxLines
	}
	return widest, float64(lines) * lineHeight
}

// SizeHint reads the intrinsic image size advertised by the w and h query parameters of an image URL.
func SizeHint(raw string) (width, height int, ok bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return 0, 0, false
	}
	query := parsed.Query()
	width, errW := strconv.Atoi(query.Get("w"))
	height, errH := strconv.Atoi(query.Get("h"))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// LinearLayout stacks views vertically, splits rows by column weight and shares the
// space left in a bounded stack between its fill children.
type LinearLayout struct {
	Measurer TextMeasurer
}

func (l LinearLayout) measurer() TextMeasurer {
	if l.Measurer == nil {
		return DefaultMeasurer
	}
	return l.Measurer
}

// Layout implements LayoutStrategy. The root is positioned inside the viewport by its
// vertical alignment.
func (l LinearLayout) Layout(root *View, viewport Viewport) {
	availW := nonNegative(viewport.Width - root.Margin.Horizontal())
	availH := nonNegative(viewport.Height - root.Margin.Vertical())
	l.measure(root, l.width(root, viewport.Width), availH, true)

	x := root.Margin.Left + alignOffset(root.HorizontalAlign, availW-root.Frame.Width)
	y := root.Margin.Top
	switch root.VerticalAlign {
	case style.AlignMiddle:
		y += nonNegative(availH-root.Frame.Height) / 2
	case style.AlignBottom:
		y += nonNegative(availH - root.Frame.Height)
	}
	l.place(root, x, y)
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}

func alignOffset(align style.HorizontalAlignment, free float64) float64 {
	free = nonNegative(free)
	switch align {
	case style.AlignLeft:
		return 0
	case style.AlignRight:
		return free
	default:
		return free / 2
	}
}

// width resolves the border-box width of v inside a container of the given content width.
func (l LinearLayout) width(v *View, container float64) float64 {
	outer := nonNegative(container - v.Margin.Horizontal())
	switch v.Width.Mode {
	case Exact:
		return v.Width.Value
	case Fraction:
		return v.Width.Value * outer
	case Wrap:
		if v.Text != nil {
			w, _ := l.measurer().MeasureText(v.Text, nonNegative(outer-v.Padding.Horizontal()))
			return math.Min(outer, w+v.Padding.Horizontal())
		}
		return outer
	default:
		return outer
	}
}

// measure sets the frame size of v given its width and the height available to it.
// A fraction height wraps its content when the parent's height is not yet known.
func (l LinearLayout) measure(v *View, width, availH float64, parentBounded bool) {
	v.Frame.Width = width
	contentW := nonNegative(width - v.Padding.Horizontal())

	var fixed float64
	bounded := true
	switch v.Height.Mode {
	case Exact:
		fixed = v.Height.Value
	case Fraction:
		if !parentBounded {
			bounded = false
			break
		}
		fixed = v.Height.Value * availH
	case Fill:
		fixed = availH
	default:
		bounded = false
	}

	contentH := 0.0
	if bounded {
		contentH = nonNegative(fixed - v.Padding.Vertical())
	}
	intrinsic := l.measureContent(v, contentW, contentH, bounded)

	if bounded {
		v.Frame.Height = fixed
	} else {
		v.Frame.Height = intrinsic + v.Padding.Vertical()
	}
}

func (l LinearLayout) measureContent(v *View, contentW, contentH float64, bounded bool) float64 {
	switch v.Kind {
	case ViewText, ViewButton:
		_, h := l.measurer().MeasureText(v.Text, contentW)
		return h
	case ViewImage:
		return imageHeight(v.Image, contentW)
	case ViewRow:
		return l.measureRow(v, contentW, contentH, bounded)
	default:
		return l.measureStack(v, contentW, contentH, bounded)
	}
}

func imageHeight(spec *ImageSpec, width float64) float64 {
	if spec == nil {
		return 0
	}
	if r := spec.Result; r != nil && r.Width > 0 && r.Height > 0 {
		return width / float64(r.Width) * float64(r.Height)
	}
	if spec.HintWidth > 0 && spec.HintHeight > 0 {
		return width / float64(spec.HintWidth) * float64(spec.HintHeight)
	}
	return 0
}

func (l LinearLayout) measureStack(v *View, contentW, contentH float64, bounded bool) float64 {
	var used float64
	var fills []*View
	for _, child := range v.Children {
		if child.Overlay {
			continue
		}
		w := l.width(child, contentW)
		if child.Height.Mode == Fill {
			child.Frame.Width = w
			fills = append(fills, child)
			continue
		}
		l.measure(child, w, contentH, bounded)
		used += child.Frame.Height + child.Margin.Vertical()
	}

	share := 0.0
	if bounded && len(fills) > 0 {
		share = nonNegative(contentH-used) / float64(len(fills))
	}
	for _, child := range fills {
		l.measure(child, child.Frame.Width, nonNegative(share-child.Margin.Vertical()), bounded)
		used += child.Frame.Height + child.Margin.Vertical()
	}

	overlayH := contentH
	if !bounded {
		overlayH = used
	}
	for _, child := range v.Children {
		if child.Overlay {
			l.measure(child, l.width(child, contentW), overlayH, true)
		}
	}
	return used
}

// measureRow gives each column its weight of the width left after gaps, then
// stretches every column to the tallest one.
func (l LinearLayout) measureRow(v *View, contentW, contentH float64, bounded bool) float64 {
	var gaps float64
	for _, column := range v.Children {
		gaps += column.Margin.Horizontal()
	}
	total := nonNegative(contentW - gaps)

	var tallest float64
	for _, column := range v.Children {
		l.measure(column, total*column.Weight, contentH, bounded)
		tallest = math.Max(tallest, column.Frame.Height+column.Margin.Vertical())
	}
	for _, column := range v.Children {
		column.Frame.Height = nonNegative(tallest - column.Margin.Vertical())
	}
	return tallest
}

func (l LinearLayout) place(v *View, x, y float64) {
	v.Frame.X, v.Frame.Y = x, y
	cx, cy := x+v.Padding.Left, y+v.Padding.Top
	cw := nonNegative(v.Frame.Width - v.Padding.Horizontal())
	ch := nonNegative(v.Frame.Height - v.Padding.Vertical())

	if v.Kind == ViewRow {
		for _, column := range v.Children {
			l.place(column, cx+column.Margin.Left, cy+column.Margin.Top)
			cx += column.Frame.Width + column.Margin.Horizontal()
		}
		return
	}

	var used float64
	for _, child := range v.Children {
		if !child.Overlay {
			used += child.Frame.Height + child.Margin.Vertical()
		}
	}
	offset := 0.0
	switch v.VerticalAlign {
	case style.AlignMiddle:
		offset = nonNegative(ch-used) / 2
	case style.AlignBottom:
		offset = nonNegative(ch - used)
	}

	cursor := cy + offset
	for _, child := range v.Children {
		if child.Overlay {
			continue
		}
		free := cw - child.Margin.Horizontal() - child.Frame.Width
		l.place(child, cx+child.Margin.Left+alignOffset(child.HorizontalAlign, free), cursor+child.Margin.Top)
		cursor += child.Frame.Height + child.Margin.Vertical()
	}

	for _, child := range v.Children {
		if !child.Overlay {
			continue
		}
		free := cw - child.Margin.Horizontal() - child.Frame.Width
		oy := cy + child.Margin.Top
		switch child.VerticalAlign {
		case style.AlignMiddle:
			oy += nonNegative(ch-child.Frame.Height-child.Margin.Vertical()) / 2
		case style.AlignBottom:
			oy += nonNegative(ch - child.Frame.Height - child.Margin.Vertical())
		}
		l.place(child, cx+child.Margin.Left+alignOffset(child.HorizontalAlign, free), oy)
	}
}
