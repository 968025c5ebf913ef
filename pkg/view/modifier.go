package view

import (
	"github.com/matzehuels/holopanel/pkg/geom"
)

// Parent refers to the node's own parent in an [Anchor]. It is resolved when
// the node is attached, so content builders can anchor to the container
// they are filling without knowing its ID.
const Parent NodeID = 0

// Anchor points one of a node's edges at an edge of another node.
type Anchor struct {
	Node NodeID
	Edge geom.Edge
}

// StartOf anchors to the start (left) edge of id.
func StartOf(id NodeID) Anchor { return Anchor{Node: id, Edge: geom.EdgeStart} }

// EndOf anchors to the end (right) edge of id.
func EndOf(id NodeID) Anchor { return Anchor{Node: id, Edge: geom.EdgeEnd} }

// TopOf anchors to the top edge of id.
func TopOf(id NodeID) Anchor { return Anchor{Node: id, Edge: geom.EdgeTop} }

// BottomOf anchors to the bottom edge of id.
func BottomOf(id NodeID) Anchor { return Anchor{Node: id, Edge: geom.EdgeBottom} }

// Size is one axis of a modifier's sizing.
type Size struct {
	Mode  geom.SizeMode
	Value float64 // pixels, used by SizeFixed
}

// Margins are per-edge distances in pixels.
type Margins struct {
	Start, Top, End, Bottom float64
}

// Along returns the start/end (X) or top/bottom (Y) pair.
func (m Margins) Along(a geom.Axis) (lo, hi float64) {
	if a == geom.AxisX {
		return m.Start, m.End
	}
	return m.Top, m.Bottom
}

// Modifier is a node's layout specification. The zero value is a 0x0 node
// placed absolutely at its parent's center.
//
// Builder methods mutate and return the receiver so calls can be chained:
//
//	m := view.Modify().Size(300, 80).AlignTopTo(view.BottomOf(title)).MarginTop(10).CenterHorizontally()
type Modifier struct {
	Width, Height Size

	Start, Top, End, Bottom *Anchor

	Margin Margins

	// X and Y are used by PositionAbsolute.
	X, Y float64

	XMode, YMode geom.PositionMode
}

// Modify returns an empty modifier.
func Modify() *Modifier { return &Modifier{} }

// Clone returns a deep copy.
func (m *Modifier) Clone() *Modifier {
	c := *m
	for _, p := range []**Anchor{&c.Start, &c.Top, &c.End, &c.Bottom} {
		if *p != nil {
			a := **p
			*p = &a
		}
	}
	return &c
}

// Size sets fixed pixel width and height.
func (m *Modifier) Size(w, h float64) *Modifier {
	m.Width = Size{Mode: geom.SizeFixed, Value: w}
	m.Height = Size{Mode: geom.SizeFixed, Value: h}
	return m
}

func (m *Modifier) FixedWidth(w float64) *Modifier {
	m.Width = Size{Mode: geom.SizeFixed, Value: w}
	return m
}

func (m *Modifier) FixedHeight(h float64) *Modifier {
	m.Height = Size{Mode: geom.SizeFixed, Value: h}
	return m
}

func (m *Modifier) WrapWidth() *Modifier  { m.Width = Size{Mode: geom.SizeWrap}; return m }
func (m *Modifier) WrapHeight() *Modifier { m.Height = Size{Mode: geom.SizeWrap}; return m }

// WrapContent sizes both axes to content.
func (m *Modifier) WrapContent() *Modifier { return m.WrapWidth().WrapHeight() }

func (m *Modifier) MatchWidth() *Modifier  { m.Width = Size{Mode: geom.SizeMatch}; return m }
func (m *Modifier) MatchHeight() *Modifier { m.Height = Size{Mode: geom.SizeMatch}; return m }

// MatchParent matches the parent on both axes.
func (m *Modifier) MatchParent() *Modifier { return m.MatchWidth().MatchHeight() }

// FillWidth spans between the start and end anchors. Both must be set.
func (m *Modifier) FillWidth() *Modifier { m.Width = Size{Mode: geom.SizeFill}; return m }

// FillHeight spans between the top and bottom anchors. Both must be set.
func (m *Modifier) FillHeight() *Modifier { m.Height = Size{Mode: geom.SizeFill}; return m }

// AlignStartTo places this node's start edge on a.
func (m *Modifier) AlignStartTo(a Anchor) *Modifier {
	m.Start = &a
	m.XMode = geom.PositionAligned
	return m
}

// AlignEndTo places this node's end edge on a.
func (m *Modifier) AlignEndTo(a Anchor) *Modifier {
	m.End = &a
	m.XMode = geom.PositionAligned
	return m
}

// AlignTopTo places this node's top edge on a.
func (m *Modifier) AlignTopTo(a Anchor) *Modifier {
	m.Top = &a
	m.YMode = geom.PositionAligned
	return m
}

// AlignBottomTo places this node's bottom edge on a.
func (m *Modifier) AlignBottomTo(a Anchor) *Modifier {
	m.Bottom = &a
	m.YMode = geom.PositionAligned
	return m
}

func (m *Modifier) Margins(start, top, end, bottom float64) *Modifier {
	m.Margin = Margins{Start: start, Top: top, End: end, Bottom: bottom}
	return m
}

func (m *Modifier) MarginStart(v float64) *Modifier  { m.Margin.Start = v; return m }
func (m *Modifier) MarginTop(v float64) *Modifier    { m.Margin.Top = v; return m }
func (m *Modifier) MarginEnd(v float64) *Modifier    { m.Margin.End = v; return m }
func (m *Modifier) MarginBottom(v float64) *Modifier { m.Margin.Bottom = v; return m }

// Absolute places the node at (x, y) in its parent's frame.
func (m *Modifier) Absolute(x, y float64) *Modifier {
	m.X, m.Y = x, y
	m.XMode, m.YMode = geom.PositionAbsolute, geom.PositionAbsolute
	return m
}

// CenterHorizontally anchors start/end to the parent and centers on X.
func (m *Modifier) CenterHorizontally() *Modifier {
	m.AlignStartTo(StartOf(Parent)).AlignEndTo(EndOf(Parent))
	m.XMode = geom.PositionCentered
	return m
}

// CenterVertically anchors top/bottom to the parent and centers on Y.
func (m *Modifier) CenterVertically() *Modifier {
	m.AlignTopTo(TopOf(Parent)).AlignBottomTo(BottomOf(Parent))
	m.YMode = geom.PositionCentered
	return m
}

// Center centers on both axes.
func (m *Modifier) Center() *Modifier {
	return m.CenterHorizontally().CenterVertically()
}

// anchors returns the anchor slots in start, top, end, bottom order.
func (m *Modifier) anchors() [4]*Anchor {
	return [4]*Anchor{m.Start, m.Top, m.End, m.Bottom}
}

// pair returns the low/high anchors of an axis: start/end or top/bottom.
func (m *Modifier) pair(a geom.Axis) (lo, hi *Anchor) {
	if a == geom.AxisX {
		return m.Start, m.End
	}
	return m.Top, m.Bottom
}

func (m *Modifier) size(a geom.Axis) Size {
	if a == geom.AxisX {
		return m.Width
	}
	return m.Height
}

func (m *Modifier) mode(a geom.Axis) geom.PositionMode {
	if a == geom.AxisX {
		return m.XMode
	}
	return m.YMode
}

func (m *Modifier) hasYAnchor() bool { return m.Top != nil || m.Bottom != nil }
