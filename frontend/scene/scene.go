// Package scene flattens a game world into a back-to-front list of screen
// space shapes that any frontend can draw.
package scene

import (
	"cmp"
	"slices"

	"github.com/plus3/circles/ecs"
	"github.com/plus3/circles/game"
)

// Kind is the shape of an Item.
type Kind int

const (
	KindCircle Kind = iota
	KindRect
	KindText
)

// Item is one shape in screen space (origin top-left, +Y down).
type Item struct {
	Kind Kind
	Z    float64
	// Centre of the shape.
	X, Y float64
	// Radius for circles.
	Radius float64
	// Width and Height for rects.
	Width, Height float64
	Color         game.Color
	// Text and its pixel height.
	Text     string
	TextSize float64
}

type circleView struct {
	*game.Transform
	*game.Circle
}

type rectView struct {
	*game.Transform
	*game.Rect
}

type nodeView struct {
	*game.Transform
	*game.UINode
	Button *game.Button `ecs:"optional"`
}

type textView struct {
	*game.Transform
	*game.Text
}

// Builder collects the drawable entities of a storage.
type Builder struct {
	circles *ecs.Query[circleView]
	rects   *ecs.Query[rectView]
	nodes   *ecs.Query[nodeView]
	texts   *ecs.Query[textView]
	items   []Item
}

func NewBuilder(storage *ecs.Storage) *Builder {
	return &Builder{
		circles: ecs.NewQuery[circleView](storage),
		rects:   ecs.NewQuery[rectView](storage),
		nodes:   ecs.NewQuery[nodeView](storage),
		texts:   ecs.NewQuery[textView](storage),
	}
}

// Build returns the items sorted by Z, stable within a layer. The returned
// slice is reused by the next call.
func (b *Builder) Build(vp game.Viewport) []Item {
	b.items = b.items[:0]

	for c := range b.circles.Values() {
		x, y := vp.ToScreen(c.Position)
		b.items = append(b.items, Item{
			Kind:   KindCircle,
			Z:      c.Z,
			X:      x,
			Y:      y,
			Radius: c.Radius * c.Scale,
			Color:  c.Circle.Color,
		})
	}
	for r := range b.rects.Values() {
		x, y := vp.ToScreen(r.Position)
		b.items = append(b.items, Item{
			Kind:   KindRect,
			Z:      r.Z,
			X:      x,
			Y:      y,
			Width:  r.Size.X * r.Scale,
			Height: r.Size.Y * r.Scale,
			Color:  r.Rect.Color,
		})
	}
	for n := range b.nodes.Values() {
		x, y := vp.ToScreen(n.Position)
		b.items = append(b.items, Item{
			Kind:   KindRect,
			Z:      n.Z,
			X:      x,
			Y:      y,
			Width:  n.Size.X * n.Scale,
			Height: n.Size.Y * n.Scale,
			Color:  n.Fill,
		})
		if n.Button != nil {
			b.items = append(b.items, Item{
				Kind:     KindText,
				Z:        n.Z,
				X:        x,
				Y:        y,
				Color:    n.Button.TextColor,
				Text:     n.Button.Label,
				TextSize: n.Button.TextSize * n.Scale,
			})
		}
	}
	for t := range b.texts.Values() {
		x, y := vp.ToScreen(t.Position)
		b.items = append(b.items, Item{
			Kind:     KindText,
			Z:        t.Z,
			X:        x,
			Y:        y,
			Color:    t.Text.Color,
			Text:     t.Value,
			TextSize: t.Text.Size * t.Scale,
		})
	}

	slices.SortStableFunc(b.items, func(a, b Item) int {
		return cmp.Compare(a.Z, b.Z)
	})
	return b.items
}
