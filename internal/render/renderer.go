// Package render builds a view tree from a parsed message.
//
// Rendering is synchronous and never mutates the message. Theme colors are resolved
// against the context appearance, logical sizes are converted to device units and
// interactive views are bound to an ActionListener.
package render

import (
	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Renderer turns messages into view trees for one style context.
type Renderer struct {
	ctx      Context
	listener ActionListener
	log      *logger.Logger
}

// New creates a Renderer. listener may be nil for a non-interactive render.
func New(ctx Context, listener ActionListener, log *logger.Logger) *Renderer {
	return &Renderer{ctx: ctx, listener: listener, log: log}
}

// Context returns the style context the renderer was created with.
func (r *Renderer) Context() Context {
	return r.ctx
}

// Render builds and lays out the view tree of msg. Images found in cache start loaded.
func (r *Renderer) Render(msg *message.Message, cache ImageCache) *Tree {
	b := builder{ctx: r.ctx, density: r.ctx.density(), msg: msg, cache: cache, listener: r.listener}
	tree := newTree(b.root(), msg, r.ctx)
	tree.Relayout()

	r.log.WithFields(map[string]any{
		"format":      msg.Format.String(),
		"appearance":  r.ctx.Appearance.String(),
		"views":       tree.count(),
		"interactive": len(tree.interactive),
	}).Debug("message rendered")
	return tree
}

type builder struct {
	ctx      Context
	density  float64
	msg      *message.Message
	cache    ImageCache
	listener ActionListener
}

func (b builder) px(v int) float64 {
	return float64(v) * b.density
}

func (b builder) insets(m style.Margin) Insets {
	return Insets{Top: b.px(m.Top()), Right: b.px(m.Right()), Bottom: b.px(m.Bottom()), Left: b.px(m.Left())}
}

func (b builder) radius(r style.CornerRadius) [4]float64 {
	return [4]float64{b.px(r.TopLeft()), b.px(r.TopRight()), b.px(r.BottomRight()), b.px(r.BottomLeft())}
}

func (b builder) border(border *style.Border) *BorderSpec {
	if border == nil {
		return nil
	}
	return &BorderSpec{Width: b.px(border.Width), Color: border.Color.RGBA(b.ctx.Appearance)}
}

// dimension converts a logical size.
func (b builder) dimension(size style.Size) Dimension {
	switch size.Unit() {
	case style.UnitPixel:
		return exact(size.Value() * b.density)
	case style.UnitPercentage:
		return fraction(size.Value() / 100)
	case style.UnitFill:
		return fill()
	default:
		return wrap()
	}
}

func (b builder) text(id string, align style.HorizontalAlignment, decoration style.FontDecoration, fontSize, maxLines int) *TextSpec {
	content, _ := b.msg.Text(id)
	face := decoration.Typeface()
	return &TextSpec{
		Content:    content,
		Align:      align,
		Typeface:   face,
		FontFamily: b.ctx.Typefaces.Family(face),
		FontSize:   b.px(fontSize),
		Underline:  decoration.Has(style.DecorationUnderline),
		Strike:     decoration.Has(style.DecorationStroke),
		MaxLines:   maxLines,
	}
}

func (b builder) root() *View {
	msg := b.msg
	root := &View{
		Kind:          ViewRoot,
		Width:         fill(),
		Height:        fill(),
		Margin:        b.insets(msg.Root.Margin),
		Background:    msg.Root.BackgroundColor.RGBA(b.ctx.Appearance),
		VerticalAlign: msg.Position,
	}

	if msg.IsModal() {
		root.Height = wrap()
		root.Radius = b.radius(msg.Root.Radius)
		if border := b.border(msg.Root.Border); border != nil {
			root.Border = border
			root.Padding = Insets{Top: border.Width, Right: border.Width, Bottom: border.Width, Left: border.Width}
		}
	}

	content := &View{Kind: ViewStack, Width: fill(), Height: root.Height, VerticalAlign: msg.Position}
	for _, component := range msg.Root.Children {
		content.Children = append(content.Children, b.component(component))
	}
	root.Children = append(root.Children, content)

	if button := msg.CloseOptions.Button; button != nil {
		closeView := &View{
			Kind:            ViewCloseButton,
			ID:              "close",
			Width:           exact(b.px(closeButtonSize)),
			Height:          exact(b.px(closeButtonSize)),
			Foreground:      button.Color.RGBA(b.ctx.Appearance),
			Background:      button.BackgroundColor.RGBA(b.ctx.Appearance),
			HorizontalAlign: style.AlignRight,
			VerticalAlign:   style.AlignTop,
			Overlay:         true,
		}
		if b.listener != nil {
			closeView.OnTap = b.listener.OnCloseAction
		}
		root.Children = append(root.Children, closeView)
	}

	if auto := msg.CloseOptions.Auto; auto != nil && auto.Delay > 0 {
		root.Children = append(root.Children, &View{
			Kind:          ViewCountdown,
			ID:            "countdown",
			Width:         fill(),
			Height:        exact(b.px(countdownThickness)),
			Foreground:    auto.Color.RGBA(b.ctx.Appearance),
			VerticalAlign: style.AlignBottom,
			Overlay:       true,
			Countdown:     auto.Delay,
		})
	}

	return root
}

const (
	closeButtonSize    = 32
	countdownThickness = 2
)

func (b builder) component(component message.Component) *View {
	switch c := component.(type) {
	case *message.Text:
		return b.textView(c)
	case *message.Button:
		return b.buttonView(c)
	case *message.Image:
		return b.imageView(c)
	case *message.Divider:
		return b.dividerView(c)
	case *message.Spacer:
		return &View{Kind: ViewSpacer, ID: c.ID, Component: message.KindSpacer, Width: fill(), Height: b.dimension(c.Height)}
	case *message.WebView:
		return b.webView(c)
	case *message.Columns:
		return b.columnsView(c)
	case *message.EmptySpacer:
		return &View{Kind: ViewContainer, Component: message.KindEmptySpacer, Width: fill(), Height: wrap()}
	default:
		panic("render: unhandled component " + component.Kind().String())
	}
}

func (b builder) textView(t *message.Text) *View {
	return &View{
		Kind:       ViewText,
		ID:         t.ID,
		Component:  message.KindText,
		Width:      fill(),
		Height:     wrap(),
		Margin:     b.insets(t.Margin),
		Foreground: t.Color.RGBA(b.ctx.Appearance),
		Text:       b.text(t.ID, t.TextAlign, t.FontDecoration, t.FontSize, t.MaxLines),
	}
}

// buttonView wraps the button in a full-width container that aligns it.
func (b builder) buttonView(btn *message.Button) *View {
	border := b.border(btn.Border)
	padding := b.insets(btn.Padding)
	if border != nil {
		padding.Top += border.Width
		padding.Right += border.Width
		padding.Bottom += border.Width
		padding.Left += border.Width
	}

	button := &View{
		Kind:            ViewButton,
		ID:              btn.ID,
		Component:       message.KindButton,
		Width:           b.dimension(btn.Width),
		Height:          wrap(),
		Padding:         padding,
		Background:      btn.BackgroundColor.RGBA(b.ctx.Appearance),
		Foreground:      btn.TextColor.RGBA(b.ctx.Appearance),
		Radius:          b.radius(btn.Radius),
		Border:          border,
		HorizontalAlign: btn.Align,
		Text:            b.text(btn.ID, btn.TextAlign, btn.FontDecoration, btn.FontSize, btn.MaxLines),
	}
	if b.listener != nil {
		id, cta := btn.ID, b.msg.CTA(btn.ID)
		button.OnTap = func() { b.listener.OnCTAAction(id, message.CTAButton, cta) }
	}

	return &View{
		Kind:            ViewContainer,
		Width:           fill(),
		Height:          wrap(),
		Margin:          b.insets(btn.Margin),
		HorizontalAlign: btn.Align,
		Children:        []*View{button},
	}
}

func (b builder) imageView(img *message.Image) *View {
	url, _ := b.msg.URL(img.ID)
	spec := &ImageSpec{URL: url, Aspect: img.Aspect}
	spec.HintWidth, spec.HintHeight, _ = SizeHint(url)
	if b.cache != nil {
		if result, ok := b.cache.Cached(img.ID); ok {
			spec.State = ImageLoaded
			spec.Result = &result
		}
	}

	view := &View{
		Kind:      ViewImage,
		ID:        img.ID,
		Component: message.KindImage,
		Width:     fill(),
		Height:    b.dimension(img.Height),
		Margin:    b.insets(img.Margin),
		Radius:    b.radius(img.Radius),
		Image:     spec,
	}
	if _, ok := b.msg.Action(img.ID); ok && b.listener != nil {
		id, cta := img.ID, b.msg.CTA(img.ID)
		view.OnTap = func() { b.listener.OnCTAAction(id, message.CTAImage, cta) }
	}
	return view
}

func (b builder) dividerView(d *message.Divider) *View {
	return &View{
		Kind:            ViewDivider,
		ID:              d.ID,
		Component:       message.KindDivider,
		Width:           b.dimension(d.Width),
		Height:          exact(b.px(d.Thickness)),
		Margin:          b.insets(d.Margin),
		Background:      d.Color.RGBA(b.ctx.Appearance),
		HorizontalAlign: d.Align,
	}
}

func (b builder) webView(w *message.WebView) *View {
	url, _ := b.msg.URL(w.ID)
	return &View{
		Kind:      ViewWebView,
		ID:        w.ID,
		Component: message.KindWebView,
		Width:     fill(),
		Height:    fill(),
		Web: &WebSpec{
			URL:            url,
			Timeout:        w.Timeout,
			InAppDeeplinks: w.InAppDeeplinks,
			DevMode:        w.DevMode,
		},
	}
}

// columnsView lays slots in a row; every column but the last keeps a trailing gap.
func (b builder) columnsView(c *message.Columns) *View {
	row := &View{
		Kind:          ViewRow,
		Component:     message.KindColumns,
		Width:         fill(),
		Height:        wrap(),
		Margin:        b.insets(c.Margin()),
		VerticalAlign: c.ContentAlign(),
	}

	ratios := c.NormalizedRatios()
	slots := c.Children()
	for i, slot := range slots {
		column := &View{
			Kind:          ViewColumn,
			Width:         fraction(ratios[i]),
			Height:        wrap(),
			Weight:        ratios[i],
			VerticalAlign: c.ContentAlign(),
		}
		if i < len(slots)-1 {
			column.Margin.Right = b.px(c.Spacing())
		}
		if _, empty := slot.(*message.EmptySpacer); !empty {
			column.Children = []*View{b.component(slot)}
		}
		row.Children = append(row.Children, column)
	}
	return row
}
