// Package ui paints laid-out view trees onto a terminal cell grid with lipgloss.
package ui

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/alexisbeaulieu97/inapp/internal/render"
)

// Default cell size in device units.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

const ellipsis = "…"

// Grid converts device units to terminal cells. It also measures text one cell
// per column so a layout computed with it lines up with the painted output.
type Grid struct {
	CellWidth  float64
	CellHeight float64
}

func (g Grid) normalized() Grid {
	if g.CellWidth <= 0 {
		g.CellWidth = DefaultCellWidth
	}
	if g.CellHeight <= 0 {
		g.CellHeight = DefaultCellHeight
	}
	return g
}

// Cols converts a horizontal length to cells.
func (g Grid) Cols(v float64) int {
	return int(math.Round(v / g.normalized().CellWidth))
}

// Rows converts a vertical length to cells.
func (g Grid) Rows(v float64) int {
	return int(math.Round(v / g.normalized().CellHeight))
}

// Viewport is the device size of a terminal of cols by rows cells.
func (g Grid) Viewport(cols, rows int) render.Viewport {
	g = g.normalized()
	return render.Viewport{Width: float64(cols) * g.CellWidth, Height: float64(rows) * g.CellHeight}
}

// Layout returns a linear layout measuring text with g.
func (g Grid) Layout() render.LinearLayout {
	return render.LinearLayout{Measurer: g.normalized()}
}

// MeasureText implements render.TextMeasurer.
func (g Grid) MeasureText(text *render.TextSpec, maxWidth float64) (float64, float64) {
	if text == nil || text.Content == "" {
		return 0, 0
	}
	g = g.normalized()

	maxCols := 0
	if maxWidth > 0 {
		maxCols = max(1, int(math.Floor(maxWidth/g.CellWidth)))
	}
	lines := wrapText(text.Content, maxCols, text.MaxLines)

	widest := 0
	for _, line := range lines {
		widest = max(widest, runewidth.StringWidth(line))
	}
	return float64(widest) * g.CellWidth, float64(len(lines)) * g.CellHeight
}

// wrapText breaks content on words to fit maxCols cells. Zero maxCols disables
// wrapping, zero maxLines keeps every line. Truncated text ends with an ellipsis.
func wrapText(content string, maxCols, maxLines int) []string {
	var lines []string
	for _, paragraph := range strings.Split(content, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxCols)...)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if maxCols > 0 && runewidth.StringWidth(last)+runewidth.StringWidth(ellipsis) > maxCols {
			last = runewidth.Truncate(last, maxCols-runewidth.StringWidth(ellipsis), "") + ellipsis
		} else {
			last += ellipsis
		}
		lines[maxLines-1] = last
	}
	return lines
}

func wrapParagraph(paragraph string, maxCols int) []string {
	if maxCols <= 0 || runewidth.StringWidth(paragraph) <= maxCols {
		return []string{paragraph}
	}

	var (
		lines []string
		line  strings.Builder
		width int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		width = 0
	}

	for _, word := range strings.Fields(paragraph) {
		wordWidth := runewidth.StringWidth(word)
		if width > 0 && width+1+wordWidth > maxCols {
			flush()
		}
		for wordWidth > maxCols {
			head := runewidth.Truncate(word, maxCols, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			wordWidth = runewidth.StringWidth(word)
		}
		if width > 0 {
			line.WriteByte(' ')
			width++
		}
		line.WriteString(word)
		width += wordWidth
	}
	if width > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
