package style

import (
	"errors"
	"fmt"
)

// ErrInvalidValueCount reports a margin or radius built from a number of values other than 1, 2 or 4.
var ErrInvalidValueCount = errors.New("expected 1, 2 or 4 values")

func expand(values []int) ([4]int, error) {
	switch len(values) {
	case 1:
		return [4]int{values[0], values[0], values[0], values[0]}, nil
	case 2:
		return [4]int{values[0], values[1], values[0], values[1]}, nil
	case 4:
		return [4]int{values[0], values[1], values[2], values[3]}, nil
	default:
		return [4]int{}, fmt.Errorf("%w, got %d", ErrInvalidValueCount, len(values))
	}
}

// Margin is a four-sided inset in top, right, bottom, left order.
type Margin [4]int

// NewMargin expands 1 (uniform), 2 (vertical, horizontal) or 4 (explicit) values.
func NewMargin(values ...int) (Margin, error) {
	sides, err := expand(values)
	return Margin(sides), err
}

// UniformMargin applies the same inset on every side.
func UniformMargin(value int) Margin {
	return Margin{value, value, value, value}
}

func (m Margin) Top() int    { return m[0] }
func (m Margin) Right() int  { return m[1] }
func (m Margin) Bottom() int { return m[2] }
func (m Margin) Left() int   { return m[3] }

// Horizontal is the sum of left and right.
func (m Margin) Horizontal() int { return m[1] + m[3] }

// Vertical is the sum of top and bottom.
func (m Margin) Vertical() int { return m[0] + m[2] }

// IsZero reports whether every side is zero.
func (m Margin) IsZero() bool { return m == Margin{} }

// CornerRadius holds corner radii in top-left, top-right, bottom-right, bottom-left order.
type CornerRadius [4]int

// NewCornerRadius expands 1, 2 or 4 values the same way NewMargin does.
func NewCornerRadius(values ...int) (CornerRadius, error) {
	corners, err := expand(values)
	return CornerRadius(corners), err
}

// UniformRadius applies the same radius to every corner.
func UniformRadius(value int) CornerRadius {
	return CornerRadius{value, value, value, value}
}

func (r CornerRadius) TopLeft() int     { return r[0] }
func (r CornerRadius) TopRight() int    { return r[1] }
func (r CornerRadius) BottomRight() int { return r[2] }
func (r CornerRadius) BottomLeft() int  { return r[3] }

// Rounded reports whether any corner has a positive radius.
func (r CornerRadius) Rounded() bool {
	return r[0] > 0 || r[1] > 0 || r[2] > 0 || r[3] > 0
}

// Border is a stroke around a container.
type Border struct {
	Width int
	Color ThemeColors
}
