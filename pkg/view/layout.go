package view

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// quantity is one resolvable value of a node.
type quantity int

const (
	qWidth quantity = iota
	qHeight
	qX
	qY
	qAbsX
	qAbsY
)

var quantityNames = [...]string{"width", "height", "x", "y", "abs.x", "abs.y"}

func extentOf(a geom.Axis) quantity {
	if a == geom.AxisX {
		return qWidth
	}
	return qHeight
}

func coordOf(a geom.Axis) quantity {
	if a == geom.AxisX {
		return qX
	}
	return qY
}

func absOf(a geom.Axis) quantity {
	if a == geom.AxisX {
		return qAbsX
	}
	return qAbsY
}

type slot struct {
	node NodeID
	q    quantity
}

// resolver evaluates layout quantities for one query. It memoizes finished
// values and keeps the chain of in-progress ones, so a quantity that depends
// on itself is reported instead of recursing forever.
type resolver struct {
	scene *Scene
	stack []slot
	memo  map[slot]float64
}

func (s *Scene) resolver() *resolver {
	return &resolver{scene: s, memo: make(map[slot]float64)}
}

func (r *resolver) eval(n *Node, q quantity, fn func() (float64, error)) (float64, error) {
	k := slot{n.id, q}
	if v, ok := r.memo[k]; ok {
		return v, nil
	}
	if i := slices.Index(r.stack, k); i >= 0 {
		return 0, r.cycle(append(slices.Clone(r.stack[i:]), k))
	}
	r.stack = append(r.stack, k)
	v, err := fn()
	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		return 0, err
	}
	r.memo[k] = v
	return v, nil
}

func (r *resolver) cycle(chain []slot) error {
	parts := make([]string, len(chain))
	for i, k := range chain {
		parts[i] = nodeLabel(k.node) + "." + quantityNames[k.q]
	}
	return errors.New(errors.ErrCodeLayoutCycle, "anchor cycle: %s", strings.Join(parts, " -> "))
}

func (r *resolver) extent(n *Node, a geom.Axis) (float64, error) {
	return r.eval(n, extentOf(a), func() (float64, error) {
		m := &n.modifier
		switch sz := m.size(a); sz.Mode {
		case geom.SizeFixed:
			return sz.Value, nil
		case geom.SizeWrap:
			return r.wrapped(n, a)
		case geom.SizeMatch:
			pe, err := r.parentExtent(n, a)
			if err != nil {
				return 0, err
			}
			lo, hi := m.Margin.Along(a)
			return math.Max(pe-lo-hi, 0), nil
		case geom.SizeFill:
			lo, hi := m.pair(a)
			if lo == nil || hi == nil {
				return 0, errors.New(errors.ErrCodeLayoutUnderspecified,
					"%s: fill %s needs both %s anchors", nodeLabel(n.id), axisExtentName(a), a)
			}
			lv, hv, err := r.anchorPair(n, a, lo, hi)
			if err != nil {
				return 0, err
			}
			span := hv - lv
			if a == geom.AxisY {
				span = lv - hv
			}
			return math.Max(span, 0), nil
		default:
			panic("view: unknown size mode " + sz.Mode.String())
		}
	})
}

// anchorPair returns both anchors of an axis with this node's margins applied,
// as start/end (X) or top/bottom (Y).
func (r *resolver) anchorPair(n *Node, a geom.Axis, lo, hi *Anchor) (float64, float64, error) {
	lv, err := r.anchor(n, a, lo)
	if err != nil {
		return 0, 0, err
	}
	hv, err := r.anchor(n, a, hi)
	if err != nil {
		return 0, 0, err
	}
	mlo, mhi := n.modifier.Margin.Along(a)
	if a == geom.AxisX {
		return lv + mlo, hv - mhi, nil
	}
	return lv - mlo, hv + mhi, nil
}

func (r *resolver) parentExtent(n *Node, a geom.Axis) (float64, error) {
	p := n.Parent()
	if p == nil {
		return r.scene.viewport().Along(a), nil
	}
	return r.extent(p, a)
}

// wrapped is the content-driven size of a node on one axis.
func (r *resolver) wrapped(n *Node, a geom.Axis) (float64, error) {
	switch n.kind {
	case KindText, KindButton:
		return measureText(n.text, a, r.scene.cfg.Text.GlyphWidth, r.scene.cfg.Text.LineHeight), nil
	case KindItem, KindItemButton:
		return r.scene.cfg.Item.Size, nil
	case KindContainer, KindList, KindFeed, KindListFeed, KindPager:
		// Half the span of the children's boxes.
		children := n.Children()
		if len(children) == 0 {
			return 0, nil
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, c := range children {
			e, err := r.extent(c, a)
			if err != nil {
				return 0, err
			}
			x, err := r.coord(c, a)
			if err != nil {
				return 0, err
			}
			lo = math.Min(lo, x-e/2)
			hi = math.Max(hi, x+e/2)
		}
		return (hi - lo) / 2, nil
	}
	panic("view: unknown node kind " + n.kind.String())
}

func measureText(text string, a geom.Axis, glyph, line float64) float64 {
	if text == "" {
		return 0
	}
	lines := strings.Split(text, "\n")
	if a == geom.AxisY {
		return float64(len(lines)) * line
	}
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	return float64(longest) * glyph
}

// coord is the node's center on one axis in its parent's frame, before the
// scroll offset is applied.
func (r *resolver) coord(n *Node, a geom.Axis) (float64, error) {
	return r.eval(n, coordOf(a), func() (float64, error) {
		m := &n.modifier
		switch m.mode(a) {
		case geom.PositionAbsolute:
			if a == geom.AxisX {
				return m.X, nil
			}
			return m.Y, nil
		case geom.PositionCentered:
			if a == geom.AxisX {
				return m.Margin.Start - m.Margin.End, nil
			}
			return m.Margin.Bottom - m.Margin.Top, nil
		case geom.PositionAligned:
			return r.aligned(n, a)
		default:
			panic("view: unknown position mode " + m.mode(a).String())
		}
	})
}

func (r *resolver) aligned(n *Node, a geom.Axis) (float64, error) {
	lo, hi := n.modifier.pair(a)
	switch {
	case lo == nil && hi == nil:
		return 0, errors.New(errors.ErrCodeLayoutUnderspecified,
			"%s: aligned on %s without an anchor", nodeLabel(n.id), a)
	case lo != nil && hi != nil:
		lv, hv, err := r.anchorPair(n, a, lo, hi)
		if err != nil {
			return 0, err
		}
		return (lv + hv) / 2, nil
	}
	e, err := r.extent(n, a)
	if err != nil {
		return 0, err
	}
	mlo, mhi := n.modifier.Margin.Along(a)
	if lo != nil {
		v, err := r.anchor(n, a, lo)
		if err != nil {
			return 0, err
		}
		if a == geom.AxisX {
			return v + mlo + e/2, nil
		}
		return v - mlo - e/2, nil
	}
	v, err := r.anchor(n, a, hi)
	if err != nil {
		return 0, err
	}
	if a == geom.AxisX {
		return v - mhi - e/2, nil
	}
	return v + mhi + e/2, nil
}

// anchor resolves the referenced edge in n's parent frame.
func (r *resolver) anchor(n *Node, a geom.Axis, an *Anchor) (float64, error) {
	if an.Edge.Axis() != a {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"%s: %s anchor on the %s axis", nodeLabel(n.id), an.Edge, a)
	}
	if an.Node == Parent || an.Node == n.parent {
		pe, err := r.parentExtent(n, a)
		if err != nil {
			return 0, err
		}
		return geom.Box{Size: dims(a, pe)}.Edge(an.Edge), nil
	}
	t, ok := r.scene.nodes[an.Node]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownNode,
			"%s: anchor target %s does not exist", nodeLabel(n.id), nodeLabel(an.Node))
	}
	e, err := r.extent(t, a)
	if err != nil {
		return 0, err
	}
	if t.parent == n.parent {
		c, err := r.coord(t, a)
		if err != nil {
			return 0, err
		}
		return edgeAt(c, e, an.Edge), nil
	}
	c, err := r.absolute(t, a)
	if err != nil {
		return 0, err
	}
	var origin float64
	if p := n.Parent(); p != nil {
		if origin, err = r.absolute(p, a); err != nil {
			return 0, err
		}
	}
	return edgeAt(c, e, an.Edge) - origin, nil
}

// absolute is the node's center in panel space including every scroll offset
// on the way to the root.
func (r *resolver) absolute(n *Node, a geom.Axis) (float64, error) {
	return r.eval(n, absOf(a), func() (float64, error) {
		c, err := r.coord(n, a)
		if err != nil {
			return 0, err
		}
		if a == geom.AxisY {
			c += float64(n.offset) * r.scene.cfg.RowUnit
		}
		if p := n.Parent(); p != nil {
			pc, err := r.absolute(p, a)
			if err != nil {
				return 0, err
			}
			c += pc
		}
		return c, nil
	})
}

func edgeAt(center, extent float64, e geom.Edge) float64 {
	switch e {
	case geom.EdgeStart, geom.EdgeBottom:
		return center - extent/2
	default:
		return center + extent/2
	}
}

func dims(a geom.Axis, v float64) geom.Dimensions {
	if a == geom.AxisX {
		return geom.Dimensions{Width: v}
	}
	return geom.Dimensions{Height: v}
}

func axisExtentName(a geom.Axis) string {
	if a == geom.AxisX {
		return "width"
	}
	return "height"
}

func nodeLabel(id NodeID) string {
	if id == Parent {
		return "parent"
	}
	return fmt.Sprintf("node %d", id)
}

// =============================================================================
// Node layout queries
// =============================================================================

// Dimensions resolves the node's width and height.
func (n *Node) Dimensions() (geom.Dimensions, error) {
	r := n.scene.resolver()
	w, err := r.extent(n, geom.AxisX)
	if err != nil {
		return geom.Dimensions{}, err
	}
	h, err := r.extent(n, geom.AxisY)
	if err != nil {
		return geom.Dimensions{}, err
	}
	return geom.Dimensions{Width: w, Height: h}, nil
}

// Position resolves the node's center relative to its parent's center,
// including its scroll offset.
func (n *Node) Position() (geom.Coordinates, error) {
	r := n.scene.resolver()
	x, err := r.coord(n, geom.AxisX)
	if err != nil {
		return geom.Coordinates{}, err
	}
	y, err := r.coord(n, geom.AxisY)
	if err != nil {
		return geom.Coordinates{}, err
	}
	return geom.Coordinates{X: x, Y: y + float64(n.offset)*n.scene.cfg.RowUnit}, nil
}

// AbsolutePosition resolves the node's center in panel space: the parent's
// absolute position plus the local one.
func (n *Node) AbsolutePosition() (geom.Coordinates, error) {
	r := n.scene.resolver()
	x, err := r.absolute(n, geom.AxisX)
	if err != nil {
		return geom.Coordinates{}, err
	}
	y, err := r.absolute(n, geom.AxisY)
	if err != nil {
		return geom.Coordinates{}, err
	}
	return geom.Coordinates{X: x, Y: y}, nil
}

// Box resolves the node's local box.
func (n *Node) Box() (geom.Box, error) {
	d, err := n.Dimensions()
	if err != nil {
		return geom.Box{}, err
	}
	c, err := n.Position()
	if err != nil {
		return geom.Box{}, err
	}
	return geom.Box{Center: c, Size: d}, nil
}

// AbsoluteBox resolves the node's box in panel space.
func (n *Node) AbsoluteBox() (geom.Box, error) {
	d, err := n.Dimensions()
	if err != nil {
		return geom.Box{}, err
	}
	c, err := n.AbsolutePosition()
	if err != nil {
		return geom.Box{}, err
	}
	return geom.Box{Center: c, Size: d}, nil
}

// WrappedDimension is the content size of the node on one axis, whatever
// its modifier says.
func (n *Node) WrappedDimension(a geom.Axis) (float64, error) {
	return n.scene.resolver().wrapped(n, a)
}
