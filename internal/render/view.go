package render

import (
	"image/color"
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// ViewKind identifies what a View draws.
type ViewKind int

const (
	ViewRoot ViewKind = iota
	ViewStack
	ViewContainer
	ViewText
	ViewButton
	ViewImage
	ViewDivider
	ViewSpacer
	ViewWebView
	ViewRow
	ViewColumn
	ViewCloseButton
	ViewCountdown
)

func (k ViewKind) String() string {
	return [...]string{
		"root", "stack", "container", "text", "button", "image", "divider",
		"spacer", "webview", "row", "column", "close_button", "countdown",
	}[k]
}

// DimensionMode says how a dimension is resolved against its parent.
type DimensionMode int

const (
	// Wrap sizes to content.
	Wrap DimensionMode = iota
	// Exact is a fixed amount of device units.
	Exact
	// Fraction is a share of the parent's content size.
	Fraction
	// Fill takes the space left along the parent's main axis.
	Fill
)

// Dimension is a resolved width or height.
type Dimension struct {
	Mode  DimensionMode
	Value float64
}

func wrap() Dimension              { return Dimension{Mode: Wrap} }
func exact(v float64) Dimension    { return Dimension{Mode: Exact, Value: v} }
func fraction(v float64) Dimension { return Dimension{Mode: Fraction, Value: v} }
func fill() Dimension              { return Dimension{Mode: Fill} }

// Insets are margins or paddings in device units.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Horizontal is left plus right.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical is top plus bottom.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// Rect is a computed frame in device units, relative to the viewport.
type Rect struct {
	X, Y, Width, Height float64
}

// BorderSpec is a resolved border.
type BorderSpec struct {
	Width float64
	Color color.NRGBA
}

// TextSpec describes rendered text.
type TextSpec struct {
	Content    string
	Align      style.HorizontalAlignment
	Typeface   style.Typeface
	FontFamily string
	FontSize   float64
	Underline  bool
	Strike     bool
	MaxLines   int
}

// ImageState tracks the asynchronous lifecycle of an image view.
type ImageState int

const (
	ImageIdle ImageState = iota
	ImageLoading
	ImageLoaded
	ImageFailed
)

func (s ImageState) String() string {
	return [...]string{"idle", "loading", "loaded", "failed"}[s]
}

// ImageSpec describes an image view.
type ImageSpec struct {
	URL    string
	Aspect style.AspectRatio
	// HintWidth and HintHeight come from the URL before the image is decoded.
	HintWidth  int
	HintHeight int
	State      ImageState
	Result     *images.Result
	Err        error
}

// WebSpec describes an embedded web view.
type WebSpec struct {
	URL            string
	Timeout        time.Duration
	InAppDeeplinks bool
	DevMode        bool
}

// View is one node of the rendered tree.
type View struct {
	Kind ViewKind
	// ID is the component id, empty for structural views.
	ID        string
	Component message.Kind

	Width  Dimension
	Height Dimension
	Margin Insets
	// Padding includes any border width.
	Padding Insets

	Background color.NRGBA
	Foreground color.NRGBA
	Radius     [4]float64
	Border     *BorderSpec

	HorizontalAlign style.HorizontalAlignment
	VerticalAlign   style.VerticalAlignment
	// Weight splits a row between its columns.
	Weight float64
	// Overlay views are drawn above their siblings instead of being stacked.
	Overlay bool

	Text  *TextSpec
	Image *ImageSpec
	Web   *WebSpec
	// Countdown is the auto-close delay drawn by a countdown view.
	Countdown time.Duration

	OnTap    func()
	Children []*View

	Frame Rect
}

// Interactive reports whether the view reacts to taps.
func (v *View) Interactive() bool {
	return v.OnTap != nil
}

// Walk visits v and its descendants depth-first until visit returns false.
func (v *View) Walk(visit func(*View) bool) bool {
	if !visit(v) {
		return false
	}
	for _, child := range v.Children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}
