package style

import (
	"fmt"
	"strings"
)

// FontDecoration is a set of text decorations.
type FontDecoration uint8

const (
	DecorationBold FontDecoration = 1 << iota
	DecorationItalic
	DecorationUnderline
	DecorationStroke
)

// Typeface is the font face selected by the bold and italic flags.
type Typeface int

const (
	TypefaceNormal Typeface = iota
	TypefaceBold
	TypefaceItalic
	TypefaceBoldItalic
)

func (t Typeface) String() string {
	switch t {
	case TypefaceBold:
		return "bold"
	case TypefaceItalic:
		return "italic"
	case TypefaceBoldItalic:
		return "bold_italic"
	default:
		return "normal"
	}
}

// ParseDecoration decodes one decoration keyword (case-insensitive).
func ParseDecoration(raw string) (FontDecoration, error) {
	switch fold(raw) {
	case "bold":
		return DecorationBold, nil
	case "italic":
		return DecorationItalic, nil
	case "underline":
		return DecorationUnderline, nil
	case "stroke":
		return DecorationStroke, nil
	default:
		return 0, fmt.Errorf("unknown font decoration %q", raw)
	}
}

// Has reports whether every flag in other is set.
func (d FontDecoration) Has(other FontDecoration) bool {
	return d&other == other
}

// Typeface folds bold and italic into a single face.
func (d FontDecoration) Typeface() Typeface {
	bold, italic := d.Has(DecorationBold), d.Has(DecorationItalic)
	switch {
	case bold && italic:
		return TypefaceBoldItalic
	case bold:
		return TypefaceBold
	case italic:
		return TypefaceItalic
	default:
		return TypefaceNormal
	}
}

func (d FontDecoration) String() string {
	names := make([]string, 0, 4)
	for _, flag := range []struct {
		bit  FontDecoration
		name string
	}{
		{DecorationBold, "bold"},
		{DecorationItalic, "italic"},
		{DecorationUnderline, "underline"},
		{DecorationStroke, "stroke"},
	} {
		if d.Has(flag.bit) {
			names = append(names, flag.name)
		}
	}
	return strings.Join(names, "|")
}
