package view

import (
	"math"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/observability"
)

// feedState is the scroll state of a feed.
type feedState struct {
	rendered map[NodeID]bool
	offset   int
	bottom   float64 // lowest child bottom edge at offset 0
	focused  bool
}

// renderFeed renders the children that fit inside the feed and leaves the
// rest without a handle.
func (n *Node) renderFeed() error {
	clear(n.feed.rendered)
	h, err := n.scene.resolver().extent(n, geom.AxisY)
	if err != nil {
		n.layoutFailed(err)
		return err
	}
	row := n.scene.cfg.RowUnit
	n.feed.bottom = -h / 2
	children := n.Children()
	if len(children) > 0 {
		n.feed.bottom = math.Inf(1)
	}
	boxes := make([]geom.Box, len(children))
	for i, c := range children {
		b, err := c.Box()
		if err != nil {
			c.layoutFailed(err)
			return err
		}
		boxes[i] = b
		n.feed.bottom = math.Min(n.feed.bottom, b.Bottom()-float64(c.offset)*row)
	}
	for i, c := range children {
		if !inBounds(boxes[i], h) {
			c.unrender()
			continue
		}
		n.feed.rendered[c.id] = true
		if err := c.Render(); err != nil {
			return err
		}
	}
	return nil
}

// inBounds reports whether a child box lies fully inside a feed of the
// given height.
func inBounds(b geom.Box, feedHeight float64) bool {
	return b.Top() <= feedHeight/2 && b.Bottom() >= -feedHeight/2
}

// InBounds reports whether child currently fits inside the feed n.
func (n *Node) InBounds(child *Node) bool {
	if n.feed == nil || child.parent != n.id {
		return false
	}
	h, err := n.scene.resolver().extent(n, geom.AxisY)
	if err != nil {
		return false
	}
	b, err := child.Box()
	if err != nil {
		return false
	}
	return inBounds(b, h)
}

// Focused reports whether the feed captures scroll input.
func (n *Node) Focused() bool { return n.feed != nil && n.feed.focused }

// Scroll moves a focused feed's content one row. Scrolling up stops at
// offset 0; scrolling down stops once the lowest child is inside the feed.
// It reports whether the feed moved.
func (n *Node) Scroll(dir display.Direction) (bool, error) {
	if n.cleared || n.feed == nil || !n.feed.focused || n.handle == nil {
		return false, nil
	}
	h, err := n.scene.resolver().extent(n, geom.AxisY)
	if err != nil {
		n.layoutFailed(err)
		return false, err
	}
	row := n.scene.cfg.RowUnit
	switch dir {
	case display.ScrollUp:
		if n.feed.offset == 0 {
			return false, nil
		}
		n.feed.offset--
	case display.ScrollDown:
		if n.feed.bottom+float64(n.feed.offset)*row >= -h/2 {
			return false, nil
		}
		n.feed.offset++
	default:
		return false, nil
	}

	children := n.Children()
	for _, c := range children {
		c.offset = n.feed.offset
		c.scrollHandles(dir, row)
	}
	for _, c := range children {
		b, err := c.Box()
		if err != nil {
			c.layoutFailed(err)
			return true, err
		}
		in := inBounds(b, h)
		switch {
		case in && !n.feed.rendered[c.id]:
			n.feed.rendered[c.id] = true
			if err := c.Render(); err != nil {
				return true, err
			}
		case !in && n.feed.rendered[c.id]:
			delete(n.feed.rendered, c.id)
			c.unrender()
		}
	}
	observability.Scene().OnScroll(n.scene.ctx, uint64(n.id), dir.String(), n.feed.offset)
	n.scene.logger.Debug("feed scrolled", "feed", n.id, "dir", dir, "offset", n.feed.offset)
	return true, nil
}

// scrollHandles nudges every live handle in the subtree by one row.
func (n *Node) scrollHandles(dir display.Direction, row float64) {
	if n.handle != nil {
		n.handle.Scroll(dir, row)
	}
	for _, m := range n.markers {
		m.Scroll(dir, row)
	}
	for _, c := range n.Children() {
		c.scrollHandles(dir, row)
	}
}
