package parser

import (
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Defaults applied when a payload omits a field.
const (
	DefaultMargin         = 0
	DefaultRadius         = 4
	DefaultBorderWidth    = 0
	DefaultFontSize       = 12
	DefaultMaxLines       = 0
	DefaultThickness      = 0
	DefaultWebViewTimeout = 10 * time.Second
	defaultWidth          = "100%"
	transparentColor      = "#00000000"
)

// ParseColor reads a [light, dark] color array. Absent or empty arrays give the
// default pair, a single value is used for both themes and extra values are ignored.
func ParseColor(values []any) (style.ThemeColors, error) {
	switch len(values) {
	case 0:
		return style.DefaultThemeColors(), nil
	case 1:
		c, err := colorAt(values, 0)
		if err != nil {
			return style.ThemeColors{}, err
		}
		return style.UniformColor(c), nil
	default:
		light, err := colorAt(values, 0)
		if err != nil {
			return style.ThemeColors{}, err
		}
		dark, err := colorAt(values, 1)
		if err != nil {
			return style.ThemeColors{}, err
		}
		return style.ThemeColors{Light: light, Dark: dark}, nil
	}
}

func colorAt(values []any, i int) (string, error) {
	s, ok := values[i].(string)
	if !ok {
		return "", failf("color[%d]: expected a string, got %T", i, values[i])
	}
	return s, nil
}

func intsOf(values []any, what string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, ok := toInt(v)
		if !ok {
			return nil, failf("%s[%d]: expected an integer, got %v", what, i, v)
		}
		out[i] = n
	}
	return out, nil
}

// ParseMargin reads a 1, 2 or 4 value margin array; absent or empty gives DefaultMargin.
func ParseMargin(values []any) (style.Margin, error) {
	if len(values) == 0 {
		return style.UniformMargin(DefaultMargin), nil
	}
	ints, err := intsOf(values, "margin")
	if err != nil {
		return style.Margin{}, err
	}
	m, err := style.NewMargin(ints...)
	if err != nil {
		return style.Margin{}, failf("margin: %v", err)
	}
	return m, nil
}

// ParseRadius reads a 1, 2 or 4 value corner radius array; absent or empty gives DefaultRadius.
func ParseRadius(values []any) (style.CornerRadius, error) {
	if len(values) == 0 {
		return style.UniformRadius(DefaultRadius), nil
	}
	ints, err := intsOf(values, "radius")
	if err != nil {
		return style.CornerRadius{}, err
	}
	r, err := style.NewCornerRadius(ints...)
	if err != nil {
		return style.CornerRadius{}, failf("radius: %v", err)
	}
	return r, nil
}

// ParseBorder returns nil unless borderWidth or borderColor is present.
func ParseBorder(payload map[string]any) (*style.Border, error) {
	obj := object(payload)
	if obj == nil || (!obj.has("borderWidth") && !obj.has("borderColor")) {
		return nil, nil
	}
	color, err := ParseColor(obj.optArray("borderColor"))
	if err != nil {
		return nil, at("borderColor", err)
	}
	return &style.Border{
		Width: obj.optInt("borderWidth", DefaultBorderWidth),
		Color: color,
	}, nil
}

// ParseFontDecoration folds a list of decoration keywords into a set.
func ParseFontDecoration(values []any) (style.FontDecoration, error) {
	var set style.FontDecoration
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return 0, failf("fontDecoration[%d]: expected a string, got %T", i, v)
		}
		flag, err := style.ParseDecoration(s)
		if err != nil {
			return 0, failf("fontDecoration[%d]: %v", i, err)
		}
		set |= flag
	}
	return set, nil
}

// ParseColumnRatio reads the ratios of a columns component. They must sum to 1 or 100.
func ParseColumnRatio(values []any) ([]float64, error) {
	if values == nil {
		return nil, failf("ratios: required")
	}
	ratios := make([]float64, len(values))
	for i, v := range values {
		f, ok := toFloat(v)
		if !ok {
			return nil, failf("ratios[%d]: expected a number, got %v", i, v)
		}
		ratios[i] = f
	}
	if !message.ValidRatioSum(ratios) {
		return nil, failf("ratios: sum must be 1 or 100, got %v", ratios)
	}
	return ratios, nil
}

// ParseStringMap reads an id to string table. Scalars are rendered as text; nested values fail.
func ParseStringMap(payload map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(payload))
	for key, v := range payload {
		if v == nil {
			return nil, failf("%s: expected a string, got null", key)
		}
		s, ok := scalarString(v)
		if !ok {
			return nil, failf("%s: expected a string, got %T", key, v)
		}
		out[key] = s
	}
	return out, nil
}

// ParseActions reads the id to action table. Each entry needs an action name; params default to empty.
func ParseActions(payload map[string]any) (map[string]message.Action, error) {
	out := make(map[string]message.Action, len(payload))
	for key, v := range payload {
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, failf("%s: expected an object, got %T", key, v)
		}
		name, err := object(entry).requireString("action")
		if err != nil {
			return nil, at(key, err)
		}
		params := object(entry).optObject("params")
		if params == nil {
			params = map[string]any{}
		}
		out[key] = message.Action{Name: name, Args: params}
	}
	return out, nil
}

// ParseCloseOptions reads the optional auto-close and close-button settings.
func ParseCloseOptions(payload map[string]any) (message.CloseOptions, error) {
	var options message.CloseOptions
	obj := object(payload)
	if obj == nil {
		return options, nil
	}

	if auto := obj.optObject("auto"); auto != nil {
		delay, err := object(auto).requireInt("delay")
		if err != nil {
			return options, at("auto", err)
		}
		colors, err := object(auto).requireArray("color")
		if err != nil {
			return options, at("auto", err)
		}
		color, err := ParseColor(colors)
		if err != nil {
			return options, at("auto", err)
		}
		options.Auto = &message.AutoClose{Delay: time.Duration(delay) * time.Second, Color: color}
	}

	if button := obj.optObject("button"); button != nil {
		color, err := ParseColor(object(button).optArray("color"))
		if err != nil {
			return options, at("button", err)
		}
		background := object(button).optArray("backgroundColor")
		if background == nil {
			background = []any{transparentColor}
		}
		backgroundColor, err := ParseColor(background)
		if err != nil {
			return options, at("button.backgroundColor", err)
		}
		options.Button = &message.CloseButton{Color: color, BackgroundColor: backgroundColor}
	}

	return options, nil
}
