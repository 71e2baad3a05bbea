package style

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMarginExpandsValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		values []int
		want   Margin
	}{
		{name: "uniform", values: []int{8}, want: Margin{8, 8, 8, 8}},
		{name: "pairs", values: []int{4, 10}, want: Margin{4, 10, 4, 10}},
		{name: "explicit", values: []int{1, 2, 3, 4}, want: Margin{1, 2, 3, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewMargin(tc.values...)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNewMarginRejectsInvalidCounts(t *testing.T) {
	t.Parallel()

	for _, values := range [][]int{{}, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		_, err := NewMargin(values...)
		require.ErrorIs(t, err, ErrInvalidValueCount)

		_, err = NewCornerRadius(values...)
		require.ErrorIs(t, err, ErrInvalidValueCount)
	}
}

func TestCornerRadiusOrder(t *testing.T) {
	t.Parallel()

	radius, err := NewCornerRadius(1, 2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, 1, radius.TopLeft())
	require.Equal(t, 2, radius.TopRight())
	require.Equal(t, 3, radius.BottomRight())
	require.Equal(t, 4, radius.BottomLeft())
	require.True(t, radius.Rounded())
	require.False(t, UniformRadius(0).Rounded())

	pairs, err := NewCornerRadius(6, 0)
	require.NoError(t, err)
	require.Equal(t, CornerRadius{6, 0, 6, 0}, pairs)
}

func TestMarginAccessors(t *testing.T) {
	t.Parallel()

	m := Margin{1, 2, 3, 4}
	require.Equal(t, 1, m.Top())
	require.Equal(t, 2, m.Right())
	require.Equal(t, 3, m.Bottom())
	require.Equal(t, 4, m.Left())
	require.Equal(t, 6, m.Horizontal())
	require.Equal(t, 4, m.Vertical())
	require.True(t, Margin{}.IsZero())
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw   string
		unit  Unit
		value float64
	}{
		{raw: "12px", unit: UnitPixel, value: 12},
		{raw: "12.5PX", unit: UnitPixel, value: 12.5},
		{raw: "100%", unit: UnitPercentage, value: 100},
		{raw: " 40% ", unit: UnitPercentage, value: 40},
		{raw: "auto", unit: UnitAuto},
		{raw: "Fill", unit: UnitFill},
	}

	for _, tc := range cases {
		size, err := ParseSize(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.unit, size.Unit(), tc.raw)
		require.InDelta(t, tc.value, size.Value(), 1e-9, tc.raw)
		require.Equal(t, tc.raw, size.Raw())
	}
}

func TestParseSizeRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "12", "12em", "px", "abc%", "-4px", "wrap"} {
		_, err := ParseSize(raw)
		require.ErrorIs(t, err, ErrInvalidSize, raw)
	}
	require.Panics(t, func() { MustParseSize("nope") })
	require.True(t, Size{}.IsZero())
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#11223380")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, c)

	c, err = ParseColor("#abc")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, c)

	c, err = ParseColor("#FF0000")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, c)

	c, err = ParseColor("Transparent")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{}, c)

	for _, raw := range []string{"red", "#12", "#GGGGGG"} {
		_, err := ParseColor(raw)
		require.Error(t, err, raw)
		require.Equal(t, color.NRGBA{}, ColorOrTransparent(raw))
	}

	require.Equal(t, "#112233", Hex(color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}))
}

func TestThemeColorsResolve(t *testing.T) {
	t.Parallel()

	colors := ThemeColors{Light: "#FFFFFFFF", Dark: "#000000FF"}
	require.Equal(t, "#FFFFFFFF", colors.Resolve(AppearanceLight))
	require.Equal(t, "#000000FF", colors.Resolve(AppearanceDark))
	require.Equal(t, color.NRGBA{A: 0xff}, colors.RGBA(AppearanceDark))
	require.Equal(t, DefaultThemeColors(), colors)
	require.Equal(t, ThemeColors{Light: "#123", Dark: "#123"}, UniformColor("#123"))
}

func TestFontDecorationTypeface(t *testing.T) {
	t.Parallel()

	require.Equal(t, TypefaceNormal, FontDecoration(0).Typeface())
	require.Equal(t, TypefaceBold, DecorationBold.Typeface())
	require.Equal(t, TypefaceItalic, (DecorationItalic | DecorationUnderline).Typeface())
	require.Equal(t, TypefaceBoldItalic, (DecorationBold | DecorationItalic).Typeface())
	require.Equal(t, "bold|stroke", (DecorationBold | DecorationStroke).String())

	flag, err := ParseDecoration("UNDERLINE")
	require.NoError(t, err)
	require.Equal(t, DecorationUnderline, flag)

	_, err = ParseDecoration("blink")
	require.Error(t, err)
}

func TestEnumParsingIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	format, err := ParseFormat("FULLSCREEN")
	require.NoError(t, err)
	require.Equal(t, FormatFullscreen, format)

	format, err = ParseFormat("WebView")
	require.NoError(t, err)
	require.Equal(t, FormatWebView, format)

	_, err = ParseFormat("banner")
	require.Error(t, err)

	h, err := ParseHorizontalAlignment("Right")
	require.NoError(t, err)
	require.Equal(t, AlignRight, h)

	v, err := ParseVerticalAlignment("BOTTOM")
	require.NoError(t, err)
	require.Equal(t, AlignBottom, v)

	aspect, err := ParseAspectRatio("fit")
	require.NoError(t, err)
	require.Equal(t, AspectFit, aspect)

	appearance, err := ParseAppearance("Dark")
	require.NoError(t, err)
	require.Equal(t, AppearanceDark, appearance)

	_, err = ParseVerticalAlignment("middle")
	require.Error(t, err)
}
