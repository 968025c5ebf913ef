package view

import (
	"slices"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/observability"
)

const markerSize = 4

// Render resolves the node's layout and creates its display handle, then
// renders its children in insertion order. Invisible nodes and their
// subtrees get no handle. Rendering a node that already has a handle
// replaces it.
func (n *Node) Render() error {
	if n.cleared || !n.visible {
		return nil
	}
	spec, err := n.displaySpec()
	if err != nil {
		n.layoutFailed(err)
		return err
	}
	n.removeDisplay()
	n.handle = display.Add(n.scene.backend, spec)
	if n.handle == nil {
		return nil
	}
	observability.Scene().OnRender(n.scene.ctx, uint64(n.id), n.kind.String())
	n.register()
	n.addMarkers(spec)

	switch n.kind {
	case KindFeed, KindListFeed:
		return n.renderFeed()
	case KindPager:
		return n.resetPager()
	case KindContainer, KindList:
		for _, c := range n.Children() {
			if err := c.Render(); err != nil {
				return err
			}
		}
	}
	return nil
}

// unrender drops the display handles of n and its subtree but keeps the
// nodes in the arena. Unrendered nodes are never highlighted.
func (n *Node) unrender() {
	n.removeDisplay()
	n.highlighted = false
	for _, c := range n.Children() {
		c.unrender()
	}
}

func (n *Node) removeDisplay() {
	n.removeMarkers()
	if n.handle == nil {
		return
	}
	id := n.handle.ID()
	n.scene.buttons.remove(id)
	n.scene.scrollables.remove(id)
	n.handle.Remove()
	n.handle = nil
	if n.feed != nil && n.feed.focused {
		n.feed.focused = false
		n.highlighted = false
		n.scene.setScrolling(false, n.id)
	}
}

// register adds a rendered node to the interactive registries.
func (n *Node) register() {
	if n.handle == nil {
		return
	}
	id := n.handle.ID()
	if n.Clickable() && !n.scene.buttons.has(id) {
		n.scene.buttons.add(id, n.id)
	}
	if n.Scrollable() && !n.scene.scrollables.has(id) {
		n.scene.scrollables.add(id, n.id)
	}
}

// updateDisplay patches the existing handle in place. Nodes without a
// handle only keep their new state.
func (n *Node) updateDisplay() error {
	if n.handle == nil {
		return nil
	}
	spec, err := n.displaySpec()
	if err != nil {
		n.layoutFailed(err)
		return err
	}
	n.handle.Update(spec)
	n.handle.RenderUpdate()
	return nil
}

// UpdatePosition re-resolves the node, teleports its display, and ripples
// the move to its dependents and children. Each node moves at most once
// per call.
func (n *Node) UpdatePosition() error {
	return n.updatePosition(make(map[NodeID]bool))
}

func (n *Node) updatePosition(seen map[NodeID]bool) error {
	if seen[n.id] || n.cleared {
		return nil
	}
	seen[n.id] = true
	if n.handle != nil {
		spec, err := n.displaySpec()
		if err != nil {
			n.layoutFailed(err)
			return err
		}
		n.handle.Teleport(spec.Position)
		n.handle.Update(spec)
		n.removeMarkers()
		n.addMarkers(spec)
		n.handle.RenderUpdate()
	}
	var first error
	for _, d := range n.Dependents() {
		if err := d.updatePosition(seen); err != nil && first == nil {
			first = err
		}
	}
	for _, c := range n.Children() {
		if err := c.updatePosition(seen); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// displaySpec builds the primitive description from the current state.
func (n *Node) displaySpec() (display.Spec, error) {
	box, err := n.AbsoluteBox()
	if err != nil {
		return display.Spec{}, err
	}
	spec := display.Spec{
		Node:             uint64(n.id),
		Kind:             n.kind.primitive(),
		Position:         box.Center,
		Size:             box.Size,
		Layer:            n.Layer(),
		TeleportDuration: n.teleportDuration,
		Text:             n.text,
		Item:             n.item,
		Background:       n.background,
		Scale:            1,
	}
	if n.highlighted {
		switch n.kind {
		case KindText, KindButton:
			spec.Bold = true
			spec.Background = n.scene.palette.Highlight
		case KindItem, KindItemButton:
			spec.Scale = n.scene.cfg.Button.HighlightScale
		case KindFeed, KindListFeed:
			spec.Background = n.scene.palette.FeedFocus
		default:
			spec.Background = n.scene.palette.Highlight
		}
	}
	return spec, nil
}

// Layer returns the node's absolute layer: its own height plus every
// ancestor's.
func (n *Node) Layer() int {
	layer := 0
	for p := n; p != nil; p = p.Parent() {
		layer += p.height
	}
	return layer
}

func (n *Node) layoutFailed(err error) {
	n.scene.logger.Error("layout failed", "node", n.id, "kind", n.kind, "err", err)
	observability.Scene().OnLayoutError(n.scene.ctx, uint64(n.id), err)
}

// addMarkers draws a small square at each corner of a container when
// corner debugging is on.
func (n *Node) addMarkers(spec display.Spec) {
	if !n.scene.cfg.Debug.Corners || !n.kind.IsContainer() {
		return
	}
	b := geom.Box{Center: spec.Position, Size: spec.Size}
	corners := []geom.Coordinates{
		{X: b.Left(), Y: b.Top()},
		{X: b.Right(), Y: b.Top()},
		{X: b.Left(), Y: b.Bottom()},
		{X: b.Right(), Y: b.Bottom()},
	}
	for _, c := range corners {
		h := n.scene.backend.AddContainer(display.Spec{
			Node:       spec.Node,
			Kind:       display.KindContainer,
			Position:   c,
			Size:       geom.Dimensions{Width: markerSize, Height: markerSize},
			Layer:      spec.Layer + 1,
			Background: n.scene.palette.Marker,
			Scale:      1,
		})
		if h != nil {
			n.markers = append(n.markers, h)
		}
	}
}

func (n *Node) removeMarkers() {
	for _, h := range n.markers {
		h.Remove()
	}
	n.markers = slices.Delete(n.markers, 0, len(n.markers))
}

// Markers returns the live debug corner markers.
func (n *Node) Markers() []display.Handle { return slices.Clone(n.markers) }
