package render

import (
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Snapshot is a point-in-time record of a scene.
type Snapshot struct {
	Viewport geom.Dimensions
	Nodes    []NodeInfo
}

// NodeInfo describes one node.
type NodeInfo struct {
	ID          uint64
	Parent      uint64 // 0 for roots
	Depth       int
	Kind        string
	Text        string
	Item        string
	Box         geom.Box
	Err         string // layout error; Box is zero when set
	Layer       int
	Visible     bool
	Rendered    bool
	Highlighted bool
	Anchors     []AnchorInfo
}

// AnchorInfo is one aligned edge of a node.
type AnchorInfo struct {
	Edge       string
	Target     uint64
	TargetEdge string
}

// Capture records every live node of s in depth-first order.
func Capture(s *view.Scene) Snapshot {
	cfg := s.Config()
	snap := Snapshot{Viewport: cfg.ViewportSize()}
	depth := map[view.NodeID]int{}
	s.Walk(func(n *view.Node) bool {
		info := NodeInfo{
			ID:          uint64(n.ID()),
			Kind:        n.Kind().String(),
			Text:        n.Text(),
			Item:        n.Item(),
			Layer:       n.Layer(),
			Visible:     n.Visible(),
			Rendered:    n.HasDisplay(),
			Highlighted: n.Highlighted(),
		}
		if p := n.Parent(); p != nil {
			info.Parent = uint64(p.ID())
			info.Depth = depth[p.ID()] + 1
		}
		depth[n.ID()] = info.Depth
		if box, err := n.AbsoluteBox(); err != nil {
			info.Err = err.Error()
		} else {
			info.Box = box
		}
		info.Anchors = anchors(n, info.Parent)
		snap.Nodes = append(snap.Nodes, info)
		return true
	})
	return snap
}

func anchors(n *view.Node, parent uint64) []AnchorInfo {
	m := n.Modifier()
	var out []AnchorInfo
	for _, slot := range []struct {
		edge geom.Edge
		a    *view.Anchor
	}{
		{geom.EdgeStart, m.Start},
		{geom.EdgeTop, m.Top},
		{geom.EdgeEnd, m.End},
		{geom.EdgeBottom, m.Bottom},
	} {
		if slot.a == nil {
			continue
		}
		target := uint64(slot.a.Node)
		if slot.a.Node == view.Parent {
			target = parent
		}
		out = append(out, AnchorInfo{Edge: slot.edge.String(), Target: target, TargetEdge: slot.a.Edge.String()})
	}
	return out
}

// Node returns the record for id.
func (s Snapshot) Node(id uint64) (NodeInfo, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeInfo{}, false
}

// Errors returns the nodes whose layout failed.
func (s Snapshot) Errors() []NodeInfo {
	var out []NodeInfo
	for _, n := range s.Nodes {
		if n.Err != "" {
			out = append(out, n)
		}
	}
	return out
}
