package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSize reports a size string whose unit or value cannot be decoded.
var ErrInvalidSize = errors.New("invalid size")

// Unit is the logical unit of a Size.
type Unit int

const (
	UnitPixel Unit = iota
	UnitPercentage
	UnitAuto
	UnitFill
)

func (u Unit) String() string {
	switch u {
	case UnitPercentage:
		return "percentage"
	case UnitAuto:
		return "auto"
	case UnitFill:
		return "fill"
	default:
		return "pixel"
	}
}

// Size is a logical dimension such as "12px", "50%", "auto" or "fill".
type Size struct {
	raw   string
	unit  Unit
	value float64
}

// ParseSize infers the unit from the suffix and fails on anything else.
func ParseSize(raw string) (Size, error) {
	trimmed := strings.TrimSpace(raw)
	lower := fold(trimmed)

	switch {
	case lower == "auto":
		return Size{raw: raw, unit: UnitAuto}, nil
	case lower == "fill":
		return Size{raw: raw, unit: UnitFill}, nil
	case strings.HasSuffix(lower, "%"):
		value, err := parseSizeValue(trimmed[:len(trimmed)-1])
		if err != nil {
			return Size{}, fmt.Errorf("%w %q: %v", ErrInvalidSize, raw, err)
		}
		return Size{raw: raw, unit: UnitPercentage, value: value}, nil
	case strings.HasSuffix(lower, "px"):
		value, err := parseSizeValue(trimmed[:len(trimmed)-2])
		if err != nil {
			return Size{}, fmt.Errorf("%w %q: %v", ErrInvalidSize, raw, err)
		}
		return Size{raw: raw, unit: UnitPixel, value: value}, nil
	default:
		return Size{}, fmt.Errorf("%w %q: unknown unit", ErrInvalidSize, raw)
	}
}

// MustParseSize is ParseSize for literals known to be valid.
func MustParseSize(raw string) Size {
	size, err := ParseSize(raw)
	if err != nil {
		panic(err)
	}
	return size
}

func parseSizeValue(number string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, errors.New("negative value")
	}
	return value, nil
}

// Raw returns the string the size was parsed from.
func (s Size) Raw() string { return s.raw }

// Unit returns the inferred unit.
func (s Size) Unit() Unit { return s.unit }

// Value returns the numeric part; zero for auto and fill.
func (s Size) Value() float64 { return s.value }

// IsZero reports whether the size was never set.
func (s Size) IsZero() bool { return s.raw == "" }

func (s Size) String() string { return s.raw }
