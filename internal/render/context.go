package render

import (
	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Viewport is the drawable area in device units.
type Viewport struct {
	Width  float64
	Height float64
}

// Typefaces names the font families used for regular and bold text.
// Empty names leave the host default in place.
type Typefaces struct {
	Regular string
	Bold    string
}

// Family picks the font family for a typeface.
func (t Typefaces) Family(face style.Typeface) string {
	if (face == style.TypefaceBold || face == style.TypefaceBoldItalic) && t.Bold != "" {
		return t.Bold
	}
	return t.Regular
}

// Context carries every style input of a render call.
type Context struct {
	Appearance style.Appearance
	// Density converts logical pixels to device units; zero means 1.
	Density   float64
	Viewport  Viewport
	Typefaces Typefaces
	// Layout computes frames; nil means LinearLayout with the default measurer.
	Layout LayoutStrategy
}

func (c Context) density() float64 {
	if c.Density <= 0 {
		return 1
	}
	return c.Density
}

func (c Context) layout() LayoutStrategy {
	if c.Layout == nil {
		return LinearLayout{}
	}
	return c.Layout
}

// ActionListener receives taps on interactive views.
type ActionListener interface {
	OnCloseAction()
	OnCTAAction(componentID string, kind message.CTAType, cta message.CTA)
}

// ImageCache exposes images already downloaded for the presentation.
type ImageCache interface {
	Cached(id string) (images.Result, bool)
}
