package view

import (
	"fmt"
	"slices"

	"github.com/matzehuels/holopanel/pkg/observability"
)

// add constructs a child of the given kind, attaches it and appends it.
// Children of lists without a vertical anchor are stacked under their
// previous sibling.
func (n *Node) add(kind Kind, m *Modifier) *Node {
	if !n.kind.IsContainer() {
		panic(fmt.Sprintf("view: %s node %d cannot hold children", n.kind, n.id))
	}
	if n.cleared {
		panic(fmt.Sprintf("view: add to cleared node %d", n.id))
	}
	c := n.scene.newNode(kind, m)
	if n.kind.stacks() && !c.modifier.hasYAnchor() {
		if len(n.children) > 0 {
			c.modifier.AlignTopTo(BottomOf(n.children[len(n.children)-1]))
		} else {
			c.modifier.AlignTopTo(TopOf(Parent))
		}
	}
	c.attach(n)
	n.children = append(n.children, c.id)
	return c
}

// restack moves the sibling stacked under gone onto gone's predecessor, or
// onto the top of n when gone was first. It returns the moved sibling.
func (n *Node) restack(gone NodeID) *Node {
	i := slices.Index(n.children, gone)
	if !n.kind.stacks() || i < 0 || i+1 >= len(n.children) {
		return nil
	}
	next, ok := n.scene.nodes[n.children[i+1]]
	if !ok || next.modifier.Top == nil || *next.modifier.Top != BottomOf(gone) {
		return nil
	}
	m := next.modifier
	if i > 0 {
		m.AlignTopTo(BottomOf(n.children[i-1]))
	} else {
		m.AlignTopTo(TopOf(Parent))
	}
	next.unlinkAnchors()
	next.modifier = m
	next.linkAnchors()
	return next
}

// AddText appends a text label.
func (n *Node) AddText(text string, m *Modifier) *Node {
	c := n.add(KindText, m)
	c.text = text
	return c
}

// AddItem appends an item icon.
func (n *Node) AddItem(item string, m *Modifier) *Node {
	c := n.add(KindItem, m)
	c.item = item
	return c
}

// AddButton appends a text button. onClick may be nil.
func (n *Node) AddButton(text string, m *Modifier, onClick func(b *Node)) *Node {
	c := n.add(KindButton, m)
	c.text = text
	if onClick != nil {
		c.onClick = append(c.onClick, onClick)
	}
	return c
}

// AddItemButton appends an item icon that reacts to clicks.
func (n *Node) AddItemButton(item string, m *Modifier, onClick func(b *Node)) *Node {
	c := n.add(KindItemButton, m)
	c.item = item
	if onClick != nil {
		c.onClick = append(c.onClick, onClick)
	}
	return c
}

// AddContainer appends a plain container and runs content against it.
func (n *Node) AddContainer(m *Modifier, content func(c *Node)) *Node {
	return n.addParent(KindContainer, m, content)
}

// AddList appends a container whose children stack top to bottom.
func (n *Node) AddList(m *Modifier, content func(c *Node)) *Node {
	return n.addParent(KindList, m, content)
}

// AddFeed appends a scrollable container. Only children fully inside the
// feed's bounds are rendered.
func (n *Node) AddFeed(m *Modifier, content func(c *Node)) *Node {
	return n.addParent(KindFeed, m, content)
}

// AddListFeed appends a feed whose children stack like a list.
func (n *Node) AddListFeed(m *Modifier, content func(c *Node)) *Node {
	return n.addParent(KindListFeed, m, content)
}

func (n *Node) addParent(kind Kind, m *Modifier, content func(c *Node)) *Node {
	c := n.add(kind, m)
	if kind.scrolls() {
		c.feed = &feedState{rendered: make(map[NodeID]bool)}
		c.background = n.scene.palette.Background
	}
	c.content = content
	if content != nil {
		content(c)
	}
	return c
}

// UpdateView rebuilds the node's content: the display handle and debug
// markers are removed, every child is cleared, content runs against the
// emptied node and the node is rendered again. A rebuilt feed starts
// scrolled to the top.
func (n *Node) UpdateView(content func(c *Node)) error {
	if n.cleared {
		return nil
	}
	if !n.kind.IsContainer() {
		panic(fmt.Sprintf("view: %s node %d cannot hold children", n.kind, n.id))
	}
	removed := len(n.children)
	n.removeDisplay()
	// Last first, so no sibling is restacked onto a node about to go.
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Clear()
	}
	n.children = nil
	if n.feed != nil {
		clear(n.feed.rendered)
		n.feed.offset = 0
	}
	n.content = content
	if content != nil {
		content(n)
	}
	observability.Scene().OnRebuild(n.scene.ctx, uint64(n.id), removed, len(n.children))
	n.scene.logger.Debug("rebuild", "node", n.id, "removed", removed, "added", len(n.children))
	if !n.renderable() {
		return nil
	}
	return n.Render()
}

// Refresh rebuilds the node from the content function it was last built with.
func (n *Node) Refresh() error { return n.UpdateView(n.content) }
