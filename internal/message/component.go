package message

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Kind discriminates the component variants.
type Kind int

const (
	KindText Kind = iota
	KindButton
	KindImage
	KindDivider
	KindSpacer
	KindWebView
	KindColumns
	KindEmptySpacer
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindButton:
		return "button"
	case KindImage:
		return "image"
	case KindDivider:
		return "divider"
	case KindSpacer:
		return "spacer"
	case KindWebView:
		return "webview"
	case KindColumns:
		return "columns"
	case KindEmptySpacer:
		return "empty_spacer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Component is a node of the message tree. The set of implementations is closed.
type Component interface {
	Kind() Kind
	sealed()
}

// Column is a component allowed in a Columns slot; Columns itself is not one.
type Column interface {
	Component
	column()
}

// Identified is implemented by components that carry an id.
type Identified interface {
	ComponentID() string
}

// Text is a label whose content is looked up in the message texts by ID.
type Text struct {
	ID             string
	Color          style.ThemeColors
	Margin         style.Margin
	TextAlign      style.HorizontalAlignment
	FontDecoration style.FontDecoration
	FontSize       int
	// MaxLines is zero when the text is not truncated.
	MaxLines int
}

// Button is a tappable label whose action is looked up in the message actions by ID.
type Button struct {
	ID              string
	BackgroundColor style.ThemeColors
	TextColor       style.ThemeColors
	Margin          style.Margin
	Padding         style.Margin
	Width           style.Size
	Align           style.HorizontalAlignment
	Radius          style.CornerRadius
	Border          *style.Border
	TextAlign       style.HorizontalAlignment
	FontDecoration  style.FontDecoration
	FontSize        int
	MaxLines        int
}

// Image is a remote picture whose URL is looked up in the message urls by ID.
type Image struct {
	ID     string
	Height style.Size
	Margin style.Margin
	Aspect style.AspectRatio
	Radius style.CornerRadius
}

// Divider is a horizontal rule.
type Divider struct {
	ID        string
	Thickness int
	Color     style.ThemeColors
	Width     style.Size
	Align     style.HorizontalAlignment
	Margin    style.Margin
}

// Spacer is blank vertical space.
type Spacer struct {
	ID     string
	Height style.Size
}

// WebView embeds remote web content.
type WebView struct {
	ID             string
	Timeout        time.Duration
	InAppDeeplinks bool
	DevMode        bool
}

// EmptySpacer stands for a null slot inside Columns.
type EmptySpacer struct{}

// Columns lays out its children side by side, sized by ratios.
type Columns struct {
	ratios       []float64
	children     []Column
	spacing      int
	margin       style.Margin
	contentAlign style.VerticalAlignment
}

// ColumnsParams carries everything a Columns is built from.
type ColumnsParams struct {
	Ratios       []float64
	Children     []Column
	Spacing      int
	Margin       style.Margin
	ContentAlign style.VerticalAlignment
}

var (
	// ErrColumnsMismatch reports a Columns whose children and ratios differ in length.
	ErrColumnsMismatch = errors.New("columns children and ratios differ in length")
	// ErrColumnsRatioSum reports ratios that sum to neither 1 nor 100.
	ErrColumnsRatioSum = errors.New("columns ratios must sum to 1 or 100")
)

const ratioTolerance = 1e-4

// ValidRatioSum reports whether ratios sum to 1 or to 100.
func ValidRatioSum(ratios []float64) bool {
	var sum float64
	for _, r := range ratios {
		sum += r
	}
	return math.Abs(sum-1) < ratioTolerance || math.Abs(sum-100) < ratioTolerance
}

// NewColumns builds a Columns after checking its invariants.
func NewColumns(p ColumnsParams) (*Columns, error) {
	if len(p.Ratios) != len(p.Children) {
		return nil, fmt.Errorf("%w: %d children, %d ratios", ErrColumnsMismatch, len(p.Children), len(p.Ratios))
	}
	if !ValidRatioSum(p.Ratios) {
		return nil, fmt.Errorf("%w: %v", ErrColumnsRatioSum, p.Ratios)
	}
	return &Columns{
		ratios:       append([]float64(nil), p.Ratios...),
		children:     append([]Column(nil), p.Children...),
		spacing:      p.Spacing,
		margin:       p.Margin,
		contentAlign: p.ContentAlign,
	}, nil
}

// Ratios returns a copy of the column ratios.
func (c *Columns) Ratios() []float64 {
	return append([]float64(nil), c.ratios...)
}

// NormalizedRatios returns the ratios scaled to sum to 1.
func (c *Columns) NormalizedRatios() []float64 {
	var sum float64
	for _, r := range c.ratios {
		sum += r
	}
	out := make([]float64, len(c.ratios))
	for i, r := range c.ratios {
		if sum > 0 {
			out[i] = r / sum
		}
	}
	return out
}

// Children returns a copy of the column slots.
func (c *Columns) Children() []Column {
	return append([]Column(nil), c.children...)
}

// Spacing is the gap between neighbouring columns.
func (c *Columns) Spacing() int { return c.spacing }

func (c *Columns) Margin() style.Margin { return c.margin }

// ContentAlign places each slot vertically inside its column.
func (c *Columns) ContentAlign() style.VerticalAlignment { return c.contentAlign }

func (*Text) Kind() Kind        { return KindText }
func (*Button) Kind() Kind      { return KindButton }
func (*Image) Kind() Kind       { return KindImage }
func (*Divider) Kind() Kind     { return KindDivider }
func (*Spacer) Kind() Kind      { return KindSpacer }
func (*WebView) Kind() Kind     { return KindWebView }
func (*Columns) Kind() Kind     { return KindColumns }
func (*EmptySpacer) Kind() Kind { return KindEmptySpacer }

func (*Text) sealed()        {}
func (*Button) sealed()      {}
func (*Image) sealed()       {}
func (*Divider) sealed()     {}
func (*Spacer) sealed()      {}
func (*WebView) sealed()     {}
func (*Columns) sealed()     {}
func (*EmptySpacer) sealed() {}

func (*Text) column()        {}
func (*Button) column()      {}
func (*Image) column()       {}
func (*Divider) column()     {}
func (*Spacer) column()      {}
func (*WebView) column()     {}
func (*EmptySpacer) column() {}

func (t *Text) ComponentID() string    { return t.ID }
func (b *Button) ComponentID() string  { return b.ID }
func (i *Image) ComponentID() string   { return i.ID }
func (d *Divider) ComponentID() string { return d.ID }
func (s *Spacer) ComponentID() string  { return s.ID }
func (w *WebView) ComponentID() string { return w.ID }
