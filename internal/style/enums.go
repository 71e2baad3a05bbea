package style

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// fold normalizes a keyword for case-insensitive matching.
// A Caser keeps state, so each call gets its own.
func fold(raw string) string {
	return cases.Fold().String(strings.TrimSpace(raw))
}

// Format is the presentation surface of a message.
type Format int

const (
	FormatModal Format = iota
	FormatFullscreen
	FormatWebView
)

// ParseFormat decodes "modal", "fullscreen" or "webview" (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	switch fold(raw) {
	case "modal":
		return FormatModal, nil
	case "fullscreen":
		return FormatFullscreen, nil
	case "webview":
		return FormatWebView, nil
	default:
		return FormatModal, fmt.Errorf("unknown format %q", raw)
	}
}

func (f Format) String() string {
	switch f {
	case FormatFullscreen:
		return "fullscreen"
	case FormatWebView:
		return "webview"
	default:
		return "modal"
	}
}

// HorizontalAlignment positions content along the horizontal axis.
type HorizontalAlignment int

const (
	AlignCenter HorizontalAlignment = iota
	AlignLeft
	AlignRight
)

// ParseHorizontalAlignment decodes "left", "center" or "right".
func ParseHorizontalAlignment(raw string) (HorizontalAlignment, error) {
	switch fold(raw) {
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignCenter, fmt.Errorf("unknown horizontal alignment %q", raw)
	}
}

func (a HorizontalAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return "center"
	}
}

// VerticalAlignment positions content along the vertical axis.
type VerticalAlignment int

const (
	AlignMiddle VerticalAlignment = iota
	AlignTop
	AlignBottom
)

// ParseVerticalAlignment decodes "top", "center" or "bottom".
func ParseVerticalAlignment(raw string) (VerticalAlignment, error) {
	switch fold(raw) {
	case "top":
		return AlignTop, nil
	case "center":
		return AlignMiddle, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return AlignMiddle, fmt.Errorf("unknown vertical alignment %q", raw)
	}
}

func (a VerticalAlignment) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignBottom:
		return "bottom"
	default:
		return "center"
	}
}

// AspectRatio is the scale mode of an image inside its frame.
type AspectRatio int

const (
	AspectFill AspectRatio = iota
	AspectFit
)

// ParseAspectRatio decodes "fit" or "fill".
func ParseAspectRatio(raw string) (AspectRatio, error) {
	switch fold(raw) {
	case "fill":
		return AspectFill, nil
	case "fit":
		return AspectFit, nil
	default:
		return AspectFill, fmt.Errorf("unknown aspect ratio %q", raw)
	}
}

func (a AspectRatio) String() string {
	if a == AspectFit {
		return "fit"
	}
	return "fill"
}
