package message

import (
	"maps"
	"time"

	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// RootContainer is the top-level box of a message.
type RootContainer struct {
	Children        []Component
	BackgroundColor style.ThemeColors
	Margin          style.Margin
	Radius          style.CornerRadius
	Border          *style.Border
}

// AutoClose dismisses the message after Delay.
type AutoClose struct {
	Delay time.Duration
	Color style.ThemeColors
}

// CloseButton draws a manual close control.
type CloseButton struct {
	Color           style.ThemeColors
	BackgroundColor style.ThemeColors
}

// CloseOptions are independent and both optional.
type CloseOptions struct {
	Auto   *AutoClose
	Button *CloseButton
}

// Action is a host operation bound to a component.
type Action struct {
	Name string
	Args map[string]any
}

// CTAType names the kind of component a CTA came from.
type CTAType string

const (
	CTAButton CTAType = "button"
	CTAImage  CTAType = "image"
)

// CTA is what a tapped component reports: its display label and bound action.
type CTA struct {
	Label  string
	Action *Action
}

// Params collects everything needed to build a Message.
type Params struct {
	Format       style.Format
	Position     style.VerticalAlignment
	Root         RootContainer
	CloseOptions CloseOptions
	Texts        map[string]string
	URLs         map[string]string
	Actions      map[string]Action
	TrackingID   string
	EventData    map[string]any
}

// Message is an immutable, parsed in-app message.
type Message struct {
	Format       style.Format
	Position     style.VerticalAlignment
	Root         RootContainer
	CloseOptions CloseOptions
	TrackingID   string
	EventData    map[string]any

	texts   map[string]string
	urls    map[string]string
	actions map[string]Action
}

// New builds a Message, copying the lookup tables.
func New(p Params) *Message {
	return &Message{
		Format:       p.Format,
		Position:     p.Position,
		Root:         p.Root,
		CloseOptions: p.CloseOptions,
		TrackingID:   p.TrackingID,
		EventData:    cloneOrEmpty(p.EventData),
		texts:        cloneOrEmpty(p.Texts),
		urls:         cloneOrEmpty(p.URLs),
		actions:      cloneOrEmpty(p.Actions),
	}
}

func cloneOrEmpty[V any](in map[string]V) map[string]V {
	if in == nil {
		return map[string]V{}
	}
	return maps.Clone(in)
}

// Text looks up the text bound to a component id.
func (m *Message) Text(id string) (string, bool) {
	value, ok := m.texts[id]
	return value, ok
}

// URL looks up the url bound to a component id.
func (m *Message) URL(id string) (string, bool) {
	value, ok := m.urls[id]
	return value, ok
}

// Action looks up the action bound to a component id.
func (m *Message) Action(id string) (Action, bool) {
	value, ok := m.actions[id]
	return value, ok
}

// Texts returns a copy of the text table.
func (m *Message) Texts() map[string]string { return maps.Clone(m.texts) }

// URLs returns a copy of the url table.
func (m *Message) URLs() map[string]string { return maps.Clone(m.urls) }

// Actions returns a copy of the action table.
func (m *Message) Actions() map[string]Action { return maps.Clone(m.actions) }

// WithTexts returns a copy of the message whose texts are overridden by the given
// localized values. Ids absent from texts keep their original value.
func (m *Message) WithTexts(texts map[string]string) *Message {
	clone := *m
	clone.texts = maps.Clone(m.texts)
	maps.Copy(clone.texts, texts)
	return &clone
}

// CTA builds the call-to-action reported when the component with id is tapped.
func (m *Message) CTA(id string) CTA {
	label, _ := m.Text(id)
	cta := CTA{Label: label}
	if action, ok := m.Action(id); ok {
		cta.Action = &action
	}
	return cta
}

// IsModal reports whether the message is a modal.
func (m *Message) IsModal() bool { return m.Format == style.FormatModal }

// IsFullscreen reports whether the message is fullscreen.
func (m *Message) IsFullscreen() bool { return m.Format == style.FormatFullscreen }

// IsWebView reports whether the message embeds web content.
func (m *Message) IsWebView() bool { return m.Format == style.FormatWebView }

// IsCenterModal reports a modal positioned in the middle of the screen.
func (m *Message) IsCenterModal() bool {
	return m.IsModal() && m.Position == style.AlignMiddle
}

// IsBanner reports a modal attached to the top or bottom edge.
func (m *Message) IsBanner() bool {
	return m.IsModal() && (m.Position == style.AlignTop || m.Position == style.AlignBottom)
}

// IsTopBanner reports a modal positioned at the top.
func (m *Message) IsTopBanner() bool {
	return m.IsModal() && m.Position == style.AlignTop
}

// IsAttachedTopBanner reports a top banner without root margins.
func (m *Message) IsAttachedTopBanner() bool {
	return m.IsTopBanner() && m.Root.Margin.IsZero()
}

// IsAttachedBottomBanner reports a bottom banner without root margins.
func (m *Message) IsAttachedBottomBanner() bool {
	return m.IsModal() && m.Position == style.AlignBottom && m.Root.Margin.IsZero()
}

// ShouldFitSystemWindows reports whether content must stay clear of system bars.
func (m *Message) ShouldFitSystemWindows() bool {
	return !m.IsFullscreen() && !m.IsAttachedBottomBanner() && !m.IsAttachedTopBanner()
}

// IsImageFormat reports a message whose only content is one image.
func (m *Message) IsImageFormat() bool {
	if len(m.Root.Children) != 1 {
		return false
	}
	_, ok := m.Root.Children[0].(*Image)
	return ok
}

// ImageComponents lists root images followed by images nested in columns.
func (m *Message) ImageComponents() []*Image {
	var images []*Image
	for _, child := range m.Root.Children {
		if image, ok := child.(*Image); ok {
			images = append(images, image)
		}
	}
	for _, child := range m.Root.Children {
		columns, ok := child.(*Columns)
		if !ok {
			continue
		}
		for _, slot := range columns.children {
			if image, ok := slot.(*Image); ok {
				images = append(images, image)
			}
		}
	}
	return images
}

// ImageByID finds an image component by id.
func (m *Message) ImageByID(id string) (*Image, bool) {
	for _, image := range m.ImageComponents() {
		if image.ID == id {
			return image, true
		}
	}
	return nil, false
}

// WebViewComponent returns the first embedded web view of the root.
func (m *Message) WebViewComponent() (*WebView, bool) {
	for _, child := range m.Root.Children {
		if webView, ok := child.(*WebView); ok {
			return webView, true
		}
	}
	return nil, false
}

// ComponentByID searches the tree, columns included, for a component with id.
func (m *Message) ComponentByID(id string) (Component, bool) {
	if id == "" {
		return nil, false
	}
	var found Component
	Walk(m.Root.Children, func(c Component) bool {
		if identified, ok := c.(Identified); ok && identified.ComponentID() == id {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits components depth-first in document order until visit returns false.
func Walk(components []Component, visit func(Component) bool) bool {
	for _, c := range components {
		if !visit(c) {
			return false
		}
		if columns, ok := c.(*Columns); ok {
			for _, slot := range columns.children {
				if !visit(slot) {
					return false
				}
			}
		}
	}
	return true
}
