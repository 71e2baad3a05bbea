package parser

import (
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Component type discriminators.
const (
	typeText    = "text"
	typeButton  = "button"
	typeImage   = "image"
	typeDivider = "divider"
	typeColumns = "columns"
	typeSpacer  = "spacer"
	typeWebView = "webview"
)

// ParseRootContainer reads the root box and its children.
func ParseRootContainer(payload map[string]any, format style.Format) (message.RootContainer, error) {
	var root message.RootContainer
	if payload == nil {
		return root, failf("root: required")
	}
	obj := object(payload)

	children, err := ParseComponents(obj.optArray("children"), format)
	if err != nil {
		return root, at("children", err)
	}
	background, err := ParseColor(obj.optArray("backgroundColor"))
	if err != nil {
		return root, at("backgroundColor", err)
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return root, err
	}
	radius, err := ParseRadius(obj.optArray("radius"))
	if err != nil {
		return root, err
	}
	border, err := ParseBorder(payload)
	if err != nil {
		return root, err
	}

	return message.RootContainer{
		Children:        children,
		BackgroundColor: background,
		Margin:          margin,
		Radius:          radius,
		Border:          border,
	}, nil
}

// ParseComponents reads a non-empty list of components.
func ParseComponents(values []any, format style.Format) ([]message.Component, error) {
	if len(values) == 0 {
		return nil, failf("cannot be null or empty")
	}
	components := make([]message.Component, 0, len(values))
	for i, v := range values {
		payload, ok := v.(map[string]any)
		if !ok {
			return nil, failf("[%d]: expected an object, got %T", i, v)
		}
		component, err := ParseComponent(payload, format)
		if err != nil {
			return nil, at(index("", i), err)
		}
		components = append(components, component)
	}
	return components, nil
}

// ParseColumnsChildren reads the slots of a columns component. Null slots become
// EmptySpacer and nested columns are rejected.
func ParseColumnsChildren(values []any, format style.Format) ([]message.Column, error) {
	if len(values) == 0 {
		return nil, failf("cannot be null or empty")
	}
	columns := make([]message.Column, 0, len(values))
	for i, v := range values {
		if v == nil {
			columns = append(columns, &message.EmptySpacer{})
			continue
		}
		payload, ok := v.(map[string]any)
		if !ok {
			return nil, failf("[%d]: expected an object, got %T", i, v)
		}
		kind, err := object(payload).requireString("type")
		if err != nil {
			return nil, at(index("", i), err)
		}
		if kind == typeColumns {
			return nil, failf("[%d]: columns cannot contain columns", i)
		}
		component, err := parseKind(kind, payload, format)
		if err != nil {
			return nil, at(index("", i), err)
		}
		column, ok := component.(message.Column)
		if !ok {
			return nil, failf("[%d]: %s cannot be placed in columns", i, component.Kind())
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// ParseComponent dispatches on the type discriminator.
func ParseComponent(payload map[string]any, format style.Format) (message.Component, error) {
	if payload == nil {
		return nil, failf("component cannot be null")
	}
	kind, err := object(payload).requireString("type")
	if err != nil {
		return nil, err
	}
	return parseKind(kind, payload, format)
}

func parseKind(kind string, payload map[string]any, format style.Format) (message.Component, error) {
	switch kind {
	case typeText:
		return ParseText(payload)
	case typeButton:
		return ParseButton(payload)
	case typeImage:
		return ParseImage(payload, format)
	case typeDivider:
		return ParseDivider(payload)
	case typeColumns:
		return ParseColumns(payload, format)
	case typeSpacer:
		return ParseSpacer(payload, format)
	case typeWebView:
		return ParseWebView(payload)
	default:
		return nil, failf("unknown component type %q", kind)
	}
}

func horizontal(obj object, key string) (style.HorizontalAlignment, error) {
	align, err := style.ParseHorizontalAlignment(obj.optString(key, "center"))
	if err != nil {
		return align, failf("%s: %v", key, err)
	}
	return align, nil
}

func size(raw, key string) (style.Size, error) {
	s, err := style.ParseSize(raw)
	if err != nil {
		return s, failf("%s: %v", key, err)
	}
	return s, nil
}

// ParseText reads a text component. Its color is required.
func ParseText(payload map[string]any) (*message.Text, error) {
	if payload == nil {
		return nil, failf("text cannot be null")
	}
	obj := object(payload)

	id, err := obj.requireString("id")
	if err != nil {
		return nil, err
	}
	colors, err := obj.requireArray("color")
	if err != nil {
		return nil, err
	}
	color, err := ParseColor(colors)
	if err != nil {
		return nil, err
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return nil, err
	}
	textAlign, err := horizontal(obj, "textAlign")
	if err != nil {
		return nil, err
	}
	decoration, err := ParseFontDecoration(obj.optArray("fontDecoration"))
	if err != nil {
		return nil, err
	}

	return &message.Text{
		ID:             id,
		Color:          color,
		Margin:         margin,
		TextAlign:      textAlign,
		FontDecoration: decoration,
		FontSize:       obj.optInt("fontSize", DefaultFontSize),
		MaxLines:       obj.optInt("maxLines", DefaultMaxLines),
	}, nil
}

// ParseButton reads a button component.
func ParseButton(payload map[string]any) (*message.Button, error) {
	if payload == nil {
		return nil, failf("button cannot be null")
	}
	obj := object(payload)

	id, err := obj.requireString("id")
	if err != nil {
		return nil, err
	}
	background, err := ParseColor(obj.optArray("backgroundColor"))
	if err != nil {
		return nil, at("backgroundColor", err)
	}
	textColor, err := ParseColor(obj.optArray("textColor"))
	if err != nil {
		return nil, at("textColor", err)
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return nil, err
	}
	padding, err := ParseMargin(obj.optArray("padding"))
	if err != nil {
		return nil, at("padding", err)
	}
	width, err := size(obj.optString("width", defaultWidth), "width")
	if err != nil {
		return nil, err
	}
	align, err := horizontal(obj, "align")
	if err != nil {
		return nil, err
	}
	radius, err := ParseRadius(obj.optArray("radius"))
	if err != nil {
		return nil, err
	}
	border, err := ParseBorder(payload)
	if err != nil {
		return nil, err
	}
	textAlign, err := horizontal(obj, "textAlign")
	if err != nil {
		return nil, err
	}
	decoration, err := ParseFontDecoration(obj.optArray("fontDecoration"))
	if err != nil {
		return nil, err
	}

	return &message.Button{
		ID:              id,
		BackgroundColor: background,
		TextColor:       textColor,
		Margin:          margin,
		Padding:         padding,
		Width:           width,
		Align:           align,
		Radius:          radius,
		Border:          border,
		TextAlign:       textAlign,
		FontDecoration:  decoration,
		FontSize:        obj.optInt("fontSize", DefaultFontSize),
		MaxLines:        obj.optInt("maxLines", DefaultMaxLines),
	}, nil
}

// ParseImage reads an image component. A fill height is rejected in a modal.
func ParseImage(payload map[string]any, format style.Format) (*message.Image, error) {
	if payload == nil {
		return nil, failf("image cannot be null")
	}
	obj := object(payload)

	rawHeight, err := obj.requireString("height")
	if err != nil {
		return nil, err
	}
	height, err := size(rawHeight, "height")
	if err != nil {
		return nil, err
	}
	if format == style.FormatModal && height.Unit() == style.UnitFill {
		return nil, failf("height: image cannot fill in a modal")
	}
	id, err := obj.requireString("id")
	if err != nil {
		return nil, err
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return nil, err
	}
	aspect, err := style.ParseAspectRatio(obj.optString("aspect", "fill"))
	if err != nil {
		return nil, failf("aspect: %v", err)
	}
	radius, err := ParseRadius(obj.optArray("radius"))
	if err != nil {
		return nil, err
	}

	return &message.Image{
		ID:     id,
		Height: height,
		Margin: margin,
		Aspect: aspect,
		Radius: radius,
	}, nil
}

// ParseDivider reads a divider component. Its id is optional.
func ParseDivider(payload map[string]any) (*message.Divider, error) {
	if payload == nil {
		return nil, failf("divider cannot be null")
	}
	obj := object(payload)

	color, err := ParseColor(obj.optArray("color"))
	if err != nil {
		return nil, err
	}
	width, err := size(obj.optString("width", defaultWidth), "width")
	if err != nil {
		return nil, err
	}
	align, err := horizontal(obj, "align")
	if err != nil {
		return nil, err
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return nil, err
	}

	return &message.Divider{
		ID:        obj.optString("id", ""),
		Thickness: obj.optInt("thickness", DefaultThickness),
		Color:     color,
		Width:     width,
		Align:     align,
		Margin:    margin,
	}, nil
}

// ParseColumns reads a columns component and checks its ratios against its children.
func ParseColumns(payload map[string]any, format style.Format) (*message.Columns, error) {
	if payload == nil {
		return nil, failf("columns cannot be null")
	}
	obj := object(payload)

	ratios, err := ParseColumnRatio(obj.optArray("ratios"))
	if err != nil {
		return nil, err
	}
	margin, err := ParseMargin(obj.optArray("margin"))
	if err != nil {
		return nil, err
	}
	contentAlign, err := style.ParseVerticalAlignment(obj.optString("contentAlign", "center"))
	if err != nil {
		return nil, failf("contentAlign: %v", err)
	}
	children, err := ParseColumnsChildren(obj.optArray("children"), format)
	if err != nil {
		return nil, at("children", err)
	}

	columns, err := message.NewColumns(message.ColumnsParams{
		Ratios:       ratios,
		Children:     children,
		Spacing:      obj.optInt("spacing", 0),
		Margin:       margin,
		ContentAlign: contentAlign,
	})
	if err != nil {
		return nil, failf("columns: %v", err)
	}
	return columns, nil
}

// ParseSpacer reads a spacer component. A fill height is rejected in a modal.
func ParseSpacer(payload map[string]any, format style.Format) (*message.Spacer, error) {
	if payload == nil {
		return nil, failf("spacer cannot be null")
	}
	obj := object(payload)

	rawHeight, err := obj.requireString("height")
	if err != nil {
		return nil, err
	}
	height, err := size(rawHeight, "height")
	if err != nil {
		return nil, err
	}
	if format == style.FormatModal && height.Unit() == style.UnitFill {
		return nil, failf("height: spacer cannot fill in a modal")
	}
	return &message.Spacer{ID: obj.optString("id", ""), Height: height}, nil
}

// ParseWebView reads an embedded web view component.
func ParseWebView(payload map[string]any) (*message.WebView, error) {
	if payload == nil {
		return nil, failf("webview cannot be null")
	}
	obj := object(payload)

	id, err := obj.requireString("id")
	if err != nil {
		return nil, err
	}
	timeout := DefaultWebViewTimeout
	if seconds := obj.optIntPtr("timeout"); seconds != nil {
		timeout = time.Duration(*seconds) * time.Second
	}

	return &message.WebView{
		ID:             id,
		Timeout:        timeout,
		InAppDeeplinks: obj.optBool("inAppDeeplinks", true),
		DevMode:        obj.optBool("devMode", false),
	}, nil
}
