// Package geom defines the geometry primitives shared by the layout engine,
// the hit-testing pipelines and the display backends.
//
// Panel space is measured in pixels with the origin at a node's center and
// Y growing upward. World space is measured in blocks; a [Projection] maps
// panel pixels onto a vertical plane in the world.
package geom

import (
	"fmt"
	"math"
)

// Coordinates is a point in panel space.
type Coordinates struct {
	X, Y float64
}

// Add returns c translated by o.
func (c Coordinates) Add(o Coordinates) Coordinates { return Coordinates{c.X + o.X, c.Y + o.Y} }

// Sub returns c minus o.
func (c Coordinates) Sub(o Coordinates) Coordinates { return Coordinates{c.X - o.X, c.Y - o.Y} }

func (c Coordinates) String() string { return fmt.Sprintf("(%g, %g)", c.X, c.Y) }

// Dimensions is the full width and height of a node.
type Dimensions struct {
	Width, Height float64
}

// Along returns the extent on the given axis.
func (d Dimensions) Along(a Axis) float64 {
	if a == AxisX {
		return d.Width
	}
	return d.Height
}

func (d Dimensions) String() string { return fmt.Sprintf("%gx%g", d.Width, d.Height) }

// Box is an axis-aligned rectangle described by its center and size.
type Box struct {
	Center Coordinates
	Size   Dimensions
}

// Left returns the start edge.
func (b Box) Left() float64 { return b.Center.X - b.Size.Width/2 }

// Right returns the end edge.
func (b Box) Right() float64 { return b.Center.X + b.Size.Width/2 }

// Top returns the top edge (Y grows upward).
func (b Box) Top() float64 { return b.Center.Y + b.Size.Height/2 }

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 { return b.Center.Y - b.Size.Height/2 }

// Edge returns the coordinate of the given edge.
func (b Box) Edge(e Edge) float64 {
	switch e {
	case EdgeStart:
		return b.Left()
	case EdgeEnd:
		return b.Right()
	case EdgeTop:
		return b.Top()
	default:
		return b.Bottom()
	}
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p Coordinates) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Axis selects the horizontal or vertical dimension.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Edge names one side of a node's box.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeTop
	EdgeEnd
	EdgeBottom
)

var edgeNames = [...]string{"start", "top", "end", "bottom"}

func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// ParseEdge converts "start", "top", "end" or "bottom" into an Edge.
// "left" and "right" are accepted as aliases.
func ParseEdge(s string) (Edge, bool) {
	switch s {
	case "start", "left":
		return EdgeStart, true
	case "top":
		return EdgeTop, true
	case "end", "right":
		return EdgeEnd, true
	case "bottom":
		return EdgeBottom, true
	}
	return 0, false
}

// Axis returns the axis the edge lies on.
func (e Edge) Axis() Axis {
	if e == EdgeStart || e == EdgeEnd {
		return AxisX
	}
	return AxisY
}

// Opposite returns the edge on the other side of the same axis.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeStart:
		return EdgeEnd
	case EdgeEnd:
		return EdgeStart
	case EdgeTop:
		return EdgeBottom
	default:
		return EdgeTop
	}
}

// SizeMode selects how a node's width or height is resolved.
type SizeMode int

const (
	// SizeFixed uses the literal pixel value.
	SizeFixed SizeMode = iota
	// SizeWrap sizes to content.
	SizeWrap
	// SizeMatch matches the parent's dimension minus this node's margins.
	SizeMatch
	// SizeFill spans the gap between the two opposing anchors.
	SizeFill
)

var sizeModeNames = [...]string{"fixed", "wrap", "match", "fill"}

func (m SizeMode) String() string {
	if int(m) < len(sizeModeNames) {
		return sizeModeNames[m]
	}
	return fmt.Sprintf("SizeMode(%d)", int(m))
}

// PositionMode selects how a node's coordinate on one axis is resolved.
type PositionMode int

const (
	// PositionAbsolute uses the modifier's explicit x/y value.
	PositionAbsolute PositionMode = iota
	// PositionAligned derives the coordinate from one or two anchors.
	PositionAligned
	// PositionCentered centers in the parent, nudged by the margin differential.
	PositionCentered
)

var positionModeNames = [...]string{"absolute", "aligned", "centered"}

func (m PositionMode) String() string {
	if int(m) < len(positionModeNames) {
		return positionModeNames[m]
	}
	return fmt.Sprintf("PositionMode(%d)", int(m))
}

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec3) String() string       { return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z) }
func (v Vec3) Approx(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}
