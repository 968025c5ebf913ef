// Package display defines the boundary between the layout engine and the
// client-rendered primitives that show a panel to a player.
//
// The engine never talks to the network. It asks a [Backend] to create a
// primitive for a node and receives a [Handle] it can move, restyle, scroll
// and remove. Backends decide how a primitive becomes pixels or packets:
// the in-memory recorder in display/memory backs tests, the CLI and the
// inspector; a server plugin would back it with entity-display packets.
package display

import (
	"fmt"

	"github.com/matzehuels/holopanel/pkg/geom"
)

// Kind identifies the primitive type behind a handle.
type Kind int

const (
	KindText Kind = iota
	KindContainer
	KindItem
)

var kindNames = [...]string{"text", "container", "item"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Color is a packed ARGB value.
type Color uint32

// RGBA unpacks the color into 8-bit channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// Hex formats the color as #AARRGGBB.
func (c Color) Hex() string { return fmt.Sprintf("#%08X", uint32(c)) }

// ParseColor accepts "#RRGGBB" or "#AARRGGBB". Six-digit colors are opaque.
func ParseColor(s string) (Color, error) {
	var v uint32
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%06x", &v); err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color(0xFF000000 | v), nil
	case 9:
		if _, err := fmt.Sscanf(s, "#%08x", &v); err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color(v), nil
	}
	return 0, fmt.Errorf("parse color %q: want #RRGGBB or #AARRGGBB", s)
}

// Transparent is the zero color.
const Transparent Color = 0

// Direction is a discrete scroll step.
type Direction int

const (
	ScrollUp Direction = iota
	ScrollDown
)

func (d Direction) String() string {
	if d == ScrollUp {
		return "up"
	}
	return "down"
}

// Transformation is applied on top of a primitive's position.
type Transformation struct {
	Translate geom.Vec3
	Rotate    float64 // degrees around the panel normal
	Scale     float64 // uniform; 0 means 1
}

// Spec describes a primitive at the moment it is created or patched.
// Position is absolute panel space; backends project it to the world.
type Spec struct {
	Node             uint64
	Kind             Kind
	Position         geom.Coordinates
	Size             geom.Dimensions
	Layer            int
	TeleportDuration int
	Text             string
	Bold             bool
	Item             string
	Background       Color
	Scale            float64
}

// Backend creates primitives. A nil Handle means nothing was created, which
// is what backends return for invisible nodes.
type Backend interface {
	AddText(spec Spec) Handle
	AddContainer(spec Spec) Handle
	AddItem(spec Spec) Handle
}

// Handle is a live primitive owned by exactly one node.
type Handle interface {
	// ID is unique per backend for the lifetime of the handle.
	ID() int
	// Teleport moves the primitive, animated over its teleport duration.
	Teleport(pos geom.Coordinates)
	SetBackgroundColor(c Color)
	SetTransformation(t Transformation)
	// Scroll nudges the primitive by one row in the given direction.
	Scroll(dir Direction, rowUnit float64)
	// Update patches content and attributes in place.
	Update(spec Spec)
	// RenderUpdate flushes pending changes to the viewer.
	RenderUpdate()
	Remove()
}

// Add dispatches spec to the backend method matching its kind.
func Add(b Backend, spec Spec) Handle {
	switch spec.Kind {
	case KindText:
		return b.AddText(spec)
	case KindContainer:
		return b.AddContainer(spec)
	case KindItem:
		return b.AddItem(spec)
	}
	panic(fmt.Sprintf("display: spec for node %d has no primitive kind (%d)", spec.Node, int(spec.Kind)))
}
