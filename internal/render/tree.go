package render

import (
	"github.com/alexisbeaulieu97/inapp/internal/images"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/style"
)

// Tree is the rendered view hierarchy of one presentation. It must only be touched
// from the goroutine that owns the UI.
type Tree struct {
	Root     *View
	Format   style.Format
	Position style.VerticalAlignment

	ctx         Context
	byID        map[string]*View
	images      map[string]*View
	imageOrder  []string
	interactive []*View
}

func newTree(root *View, msg *message.Message, ctx Context) *Tree {
	t := &Tree{
		Root:     root,
		Format:   msg.Format,
		Position: msg.Position,
		ctx:      ctx,
		byID:     make(map[string]*View),
		images:   make(map[string]*View),
	}
	root.Walk(func(v *View) bool {
		if v.ID != "" {
			if _, taken := t.byID[v.ID]; !taken {
				t.byID[v.ID] = v
			}
		}
		if v.Image != nil {
			if _, taken := t.images[v.ID]; !taken {
				t.images[v.ID] = v
				t.imageOrder = append(t.imageOrder, v.ID)
			}
		}
		if v.Interactive() {
			t.interactive = append(t.interactive, v)
		}
		return true
	})
	return t
}

func (t *Tree) count() int {
	n := 0
	t.Root.Walk(func(*View) bool { n++; return true })
	return n
}

// View finds a view by component id.
func (t *Tree) View(id string) (*View, bool) {
	v, ok := t.byID[id]
	return v, ok
}

// ImageIDs lists image views in document order.
func (t *Tree) ImageIDs() []string {
	return append([]string(nil), t.imageOrder...)
}

// Interactive lists tappable views in focus order.
func (t *Tree) Interactive() []*View {
	return append([]*View(nil), t.interactive...)
}

// Viewport returns the area the tree was laid out in.
func (t *Tree) Viewport() Viewport {
	return t.ctx.Viewport
}

// Resize lays the tree out again for a new viewport.
func (t *Tree) Resize(viewport Viewport) {
	t.ctx.Viewport = viewport
	t.Relayout()
}

// Relayout recomputes every frame with the context's layout strategy.
func (t *Tree) Relayout() {
	t.ctx.layout().Layout(t.Root, t.ctx.Viewport)
}

// ShowLoading marks an image as downloading.
func (t *Tree) ShowLoading(id string) {
	if v, ok := t.images[id]; ok {
		v.Image.State = ImageLoading
		v.Image.Err = nil
	}
}

// SetImage swaps a downloaded image in and lays the tree out again.
func (t *Tree) SetImage(id string, result images.Result) {
	v, ok := t.images[id]
	if !ok {
		return
	}
	v.Image.State = ImageLoaded
	v.Image.Result = &result
	v.Image.Err = nil
	t.Relayout()
}

// ShowFailed leaves an image empty after a failed download.
func (t *Tree) ShowFailed(id string, err error) {
	if v, ok := t.images[id]; ok {
		v.Image.State = ImageFailed
		v.Image.Result = nil
		v.Image.Err = err
	}
}
